package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2024-03-01T10:00:00+08:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, time.UTC, ts.Location())

	_, ok = ParseTimestamp("")
	assert.False(t, ok)

	_, ok = ParseTimestamp("yesterday")
	assert.False(t, ok)
}

func TestWithinDays_CutoffIsInclusive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-90 * 24 * time.Hour)

	assert.True(t, WithinDays(now, cutoff, 90), "commit exactly at the cutoff counts as recent")
	assert.False(t, WithinDays(now, cutoff.Add(-time.Second), 90))
	assert.True(t, WithinDays(now, cutoff.Add(time.Second), 90))

	// 不同时区表示同一时刻，结果必须一致
	shanghai := time.FixedZone("CST", 8*3600)
	assert.True(t, WithinDays(now.In(shanghai), cutoff.In(shanghai), 90))
}

func TestIsRecent(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsRecent(now, "2024-05-20T00:00:00Z", 30))
	assert.False(t, IsRecent(now, "2023-05-20T00:00:00Z", 30))
	assert.False(t, IsRecent(now, "not-a-date", 30))
}

func TestWholeDays(t *testing.T) {
	assert.Equal(t, 0, WholeDays(23*time.Hour))
	assert.Equal(t, 1, WholeDays(47*time.Hour))
	assert.Equal(t, 2, WholeDays(48*time.Hour))
}

func TestCategoryScores_TieBreaks(t *testing.T) {
	scores := CategoryScores{
		Documentation: 5,
		CodeStructure: 3,
		Activity:      3,
		Organization:  12,
		Impact:        12,
	}

	assert.Equal(t, CategoryCodeStructure, scores.Weakest())
	assert.Equal(t, CategoryImpact, scores.Strongest(), "并列最高取后一个")

	var zero CategoryScores
	assert.Equal(t, CategoryDocumentation, zero.Weakest())
	assert.Equal(t, CategoryImpact, zero.Strongest())
	assert.Equal(t, 0.0, zero.Get(Category("unknown")))
}

func TestProfileDisplayName(t *testing.T) {
	p := Profile{Login: "octocat"}
	assert.Equal(t, "octocat", p.DisplayName())
	p.Name = "The Octocat"
	assert.Equal(t, "The Octocat", p.DisplayName())
}

func TestRepositorySearchText(t *testing.T) {
	repo := Repository{Description: "A SaaS Dashboard", Topics: []string{"React", "analytics"}}
	assert.Equal(t, "a saas dashboard react analytics", repo.SearchText())
}

func TestReportAggregates(t *testing.T) {
	report := &Report{
		Repositories: RepositorySection{
			AllRepos: []Repository{
				{Name: "a", StargazersCount: 3, Language: "Go"},
				{Name: "b", StargazersCount: 4, Language: "Go"},
				{Name: "c", StargazersCount: 5},
			},
		},
	}
	assert.Equal(t, 12, report.TotalStars())
	assert.Len(t, report.Languages(), 1)
}

func TestNoRepositoriesError(t *testing.T) {
	var err error = &NoRepositoriesError{Profile: Profile{Login: "ghost"}}

	var target *NoRepositoriesError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "ghost", target.Profile.Login)
	assert.Contains(t, err.Error(), "ghost")
	assert.Equal(t, "NO_REPOSITORIES", target.ErrorCode())
}
