package analyzer

import (
	"testing"
	"time"

	"github-portfolio-analyzer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestActivityAnalyzer() *ActivityAnalyzer {
	return &ActivityAnalyzer{nowFunc: func() time.Time { return fixedNow }}
}

func commitAt(t time.Time) domain.Commit {
	return domain.Commit{SHA: t.String(), Date: t.Format(time.RFC3339)}
}

func commitsDaysAgo(days ...int) []domain.Commit {
	out := make([]domain.Commit, 0, len(days))
	for _, d := range days {
		out = append(out, commitAt(fixedNow.Add(-time.Duration(d)*24*time.Hour)))
	}
	return out
}

func TestAnalyzeCommitment_Empty(t *testing.T) {
	a := newTestActivityAnalyzer()
	assert.Equal(t, domain.CommitmentMetrics{}, a.AnalyzeCommitment(nil))
	assert.Equal(t, domain.CommitmentMetrics{}, a.AnalyzeCommitment(map[string][]domain.Commit{}))
}

func TestAnalyzeCommitment(t *testing.T) {
	a := newTestActivityAnalyzer()
	commits := map[string][]domain.Commit{
		"api":   commitsDaysAgo(1, 1, 10, 200),
		"cli":   append(commitsDaysAgo(3), domain.Commit{SHA: "bad", Date: "garbage"}),
		"empty": {},
	}

	m := a.AnalyzeCommitment(commits)

	assert.Equal(t, 6, m.TotalCommits, "unparseable commits still count towards totals")
	assert.Equal(t, map[string]int{"api": 4, "cli": 2, "empty": 0}, m.CommitsByRepo)
	assert.Equal(t, 4, m.RecentCommits90d)
	assert.Equal(t, 4, m.DaysWithCommits)
	assert.Equal(t, LevelInactive, m.ActivityLevel)
	assert.Equal(t, 2, m.RepositoriesContributed)
	require.NotNil(t, m.DaysSinceLastCommit)
	assert.Equal(t, 1, *m.DaysSinceLastCommit)
	assert.Equal(t, "2024-05-31T12:00:00Z", m.LastCommitDate)
}

func TestAnalyzeCommitment_NinetyDayBoundary(t *testing.T) {
	a := newTestActivityAnalyzer()
	cutoff := fixedNow.Add(-RecentWindowDays * 24 * time.Hour)

	m := a.AnalyzeCommitment(map[string][]domain.Commit{
		"r": {commitAt(cutoff), commitAt(cutoff.Add(-time.Second))},
	})
	assert.Equal(t, 1, m.RecentCommits90d, "cutoff instant is inclusive, one second earlier is not")

	// 同一时刻用非 UTC 偏移表示
	shanghai := time.FixedZone("CST", 8*3600)
	m = a.AnalyzeCommitment(map[string][]domain.Commit{
		"r": {{Date: cutoff.In(shanghai).Format(time.RFC3339)}},
	})
	assert.Equal(t, 1, m.RecentCommits90d)
}

func TestActivityLevel(t *testing.T) {
	tests := []struct {
		recent int
		want   string
	}{
		{0, LevelInactive},
		{5, LevelInactive},
		{6, LevelModerate},
		{20, LevelModerate},
		{21, LevelActive},
		{50, LevelActive},
		{51, LevelVeryActive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, activityLevel(tt.recent), "recent=%d", tt.recent)
	}
}

func TestAnalyzeConsistency_SingleCommit(t *testing.T) {
	a := newTestActivityAnalyzer()
	m := a.AnalyzeConsistency(map[string][]domain.Commit{"r": commitsDaysAgo(4)})

	assert.Equal(t, 0, m.MaxGapDays)
	assert.Equal(t, 0.0, m.AvgGapDays)
	assert.Equal(t, 0, m.GapCount)
	assert.Equal(t, 1, m.TotalDaysActive)
	assert.Equal(t, 1.0, m.CommitmentIndex)
	assert.Equal(t, RatingExcellent, m.ConsistencyRating)
	assert.Equal(t, m.FirstCommitDate, m.LastCommitDate)
}

func TestAnalyzeConsistency(t *testing.T) {
	a := newTestActivityAnalyzer()
	commits := map[string][]domain.Commit{
		"a": commitsDaysAgo(0, 10),
		"b": commitsDaysAgo(10, 45),
		"c": {{Date: "not-a-date"}},
	}

	m := a.AnalyzeConsistency(commits)

	// 间隔: 45->10 = 35, 10->10 = 0 (忽略), 10->0 = 10
	assert.Equal(t, 35, m.MaxGapDays)
	assert.Equal(t, 22.5, m.AvgGapDays)
	assert.Equal(t, 2, m.GapCount)
	assert.Equal(t, RatingFair, m.ConsistencyRating)
	assert.Equal(t, 46, m.TotalDaysActive)
	assert.Equal(t, 0.087, m.CommitmentIndex)
}

func TestAnalyzeConsistency_NoParseableTimestamps(t *testing.T) {
	a := newTestActivityAnalyzer()
	assert.Equal(t, domain.ConsistencyMetrics{}, a.AnalyzeConsistency(nil))
	assert.Equal(t, domain.ConsistencyMetrics{}, a.AnalyzeConsistency(map[string][]domain.Commit{
		"r": {{Date: ""}, {Date: "2024-13-45"}},
	}))
}

func TestConsistencyRating(t *testing.T) {
	assert.Equal(t, RatingExcellent, consistencyRating(7))
	assert.Equal(t, RatingGood, consistencyRating(8))
	assert.Equal(t, RatingGood, consistencyRating(30))
	assert.Equal(t, RatingFair, consistencyRating(90))
	assert.Equal(t, RatingPoor, consistencyRating(91))
}

func TestActivitySummary(t *testing.T) {
	assert.Equal(t, "Insufficient activity data to analyze.", ActivitySummary(domain.CommitmentMetrics{}, domain.ConsistencyMetrics{}))

	a := newTestActivityAnalyzer()
	commits := map[string][]domain.Commit{"r": commitsDaysAgo(1, 2)}
	out := ActivitySummary(a.AnalyzeCommitment(commits), a.AnalyzeConsistency(commits))
	assert.Contains(t, out, "Total Commits: 2")
	assert.Contains(t, out, "Last Commit: 1 days ago")
	assert.Contains(t, out, "CONSISTENCY: excellent")
}
