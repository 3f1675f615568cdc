package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"
)

// 活跃度分级阈值 (近 90 天提交数)
const (
	RecentWindowDays = 90

	LevelVeryActive = "very active"
	LevelActive     = "active"
	LevelModerate   = "moderate"
	LevelInactive   = "inactive"
)

// 节奏评级 (最大间隔天数)
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingFair      = "fair"
	RatingPoor      = "poor"
)

// ActivityAnalyzer 把每个仓库的提交时间序列转换成投入度和节奏指标
type ActivityAnalyzer struct {
	nowFunc func() time.Time
}

// NewActivityAnalyzer 创建分析器实例
func NewActivityAnalyzer() *ActivityAnalyzer {
	return &ActivityAnalyzer{
		nowFunc: time.Now, // 便于测试注入当前时间
	}
}

// NewActivityAnalyzerAt 使用给定时钟创建分析器
func NewActivityAnalyzerAt(now func() time.Time) *ActivityAnalyzer {
	return &ActivityAnalyzer{nowFunc: now}
}

func (a *ActivityAnalyzer) now() time.Time {
	if a != nil && a.nowFunc != nil {
		return a.nowFunc().UTC()
	}
	return time.Now().UTC()
}

// AnalyzeCommitment 统计提交总量、近 90 天提交数、活跃等级和最近一次提交
// 无法解析的时间戳直接跳过
func (a *ActivityAnalyzer) AnalyzeCommitment(commitsByRepo map[string][]domain.Commit) domain.CommitmentMetrics {
	if len(commitsByRepo) == 0 {
		return domain.CommitmentMetrics{}
	}

	now := a.now()
	m := domain.CommitmentMetrics{
		CommitsByRepo: make(map[string]int, len(commitsByRepo)),
	}
	days := make(map[string]struct{})
	var last time.Time

	for repo, commits := range commitsByRepo {
		m.CommitsByRepo[repo] = len(commits)
		m.TotalCommits += len(commits)
		if len(commits) > 0 {
			m.RepositoriesContributed++
		}

		for _, c := range commits {
			ts, ok := domain.ParseTimestamp(c.Date)
			if !ok {
				continue
			}
			days[ts.Format("2006-01-02")] = struct{}{}
			if ts.After(last) {
				last = ts
			}
			if domain.WithinDays(now, ts, RecentWindowDays) {
				m.RecentCommits90d++
			}
		}
	}

	m.DaysWithCommits = len(days)
	m.ActivityLevel = activityLevel(m.RecentCommits90d)
	if !last.IsZero() {
		since := domain.WholeDays(now.Sub(last))
		m.DaysSinceLastCommit = &since
		m.LastCommitDate = last.Format(time.RFC3339)
	}
	return m
}

func activityLevel(recent int) string {
	switch {
	case recent > 50:
		return LevelVeryActive
	case recent > 20:
		return LevelActive
	case recent > 5:
		return LevelModerate
	default:
		return LevelInactive
	}
}

// AnalyzeConsistency 计算提交间隔、节奏评级和 commitment index
func (a *ActivityAnalyzer) AnalyzeConsistency(commitsByRepo map[string][]domain.Commit) domain.ConsistencyMetrics {
	var stamps []time.Time
	for _, commits := range commitsByRepo {
		for _, c := range commits {
			if ts, ok := domain.ParseTimestamp(c.Date); ok {
				stamps = append(stamps, ts)
			}
		}
	}
	if len(stamps) == 0 {
		return domain.ConsistencyMetrics{}
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	var gaps []int
	for i := 1; i < len(stamps); i++ {
		if gap := domain.WholeDays(stamps[i].Sub(stamps[i-1])); gap > 0 {
			gaps = append(gaps, gap)
		}
	}

	maxGap, sum := 0, 0
	for _, g := range gaps {
		sum += g
		if g > maxGap {
			maxGap = g
		}
	}
	avgGap := 0.0
	if len(gaps) > 0 {
		avgGap = float64(sum) / float64(len(gaps))
	}

	first, last := stamps[0], stamps[len(stamps)-1]
	// 首尾都算在内，除数至少为 1
	daysActive := domain.WholeDays(last.Sub(first)) + 1

	return domain.ConsistencyMetrics{
		MaxGapDays:        maxGap,
		AvgGapDays:        common.Round(avgGap, 2),
		GapCount:          len(gaps),
		ConsistencyRating: consistencyRating(maxGap),
		CommitmentIndex:   common.Round(float64(len(stamps))/float64(daysActive), 3),
		FirstCommitDate:   first.Format(time.RFC3339),
		LastCommitDate:    last.Format(time.RFC3339),
		TotalDaysActive:   daysActive,
	}
}

func consistencyRating(maxGap int) string {
	switch {
	case maxGap <= 7:
		return RatingExcellent
	case maxGap <= 30:
		return RatingGood
	case maxGap <= 90:
		return RatingFair
	default:
		return RatingPoor
	}
}

// ActivitySummary renders both metric sets as a plain text block.
func ActivitySummary(commitment domain.CommitmentMetrics, consistency domain.ConsistencyMetrics) string {
	if commitment.TotalCommits == 0 || consistency.TotalDaysActive == 0 {
		return "Insufficient activity data to analyze."
	}

	lastCommit := "unknown"
	if commitment.DaysSinceLastCommit != nil {
		lastCommit = fmt.Sprintf("%d days ago", *commitment.DaysSinceLastCommit)
	}

	var b strings.Builder
	b.WriteString("ACTIVITY ANALYSIS:\n\n")
	fmt.Fprintf(&b, "• Activity Level: %s\n", commitment.ActivityLevel)
	fmt.Fprintf(&b, "• Total Commits: %d\n", commitment.TotalCommits)
	fmt.Fprintf(&b, "• Recent (90 days): %d commits\n", commitment.RecentCommits90d)
	fmt.Fprintf(&b, "• Last Commit: %s\n", lastCommit)
	fmt.Fprintf(&b, "• Active Repositories: %d\n\n", commitment.RepositoriesContributed)
	fmt.Fprintf(&b, "CONSISTENCY: %s\n\n", consistency.ConsistencyRating)
	fmt.Fprintf(&b, "• Max Gap Between Commits: %d days\n", consistency.MaxGapDays)
	fmt.Fprintf(&b, "• Average Gap: %.2f days\n", consistency.AvgGapDays)
	fmt.Fprintf(&b, "• Engagement Index: %.3f\n", consistency.CommitmentIndex)
	fmt.Fprintf(&b, "• Total Active Period: %d days\n", consistency.TotalDaysActive)
	return b.String()
}
