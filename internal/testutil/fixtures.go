// Package testutil holds fixtures shared by package tests.
package testutil

import "github-portfolio-analyzer/internal/domain"

// SampleReport returns a fully populated report. Every call returns a fresh copy.
func SampleReport() *domain.Report {
	days := 3
	repo := domain.Repository{
		ID:              42,
		Name:            "hello-world",
		FullName:        "octocat/hello-world",
		Description:     "A scalable analytics platform",
		URL:             "https://github.com/octocat/hello-world",
		Homepage:        "https://hello.dev",
		Topics:          []string{"go", "analytics"},
		Language:        "Go",
		StargazersCount: 150,
		ForksCount:      60,
		WatchersCount:   150,
		Size:            2200,
		CreatedAt:       "2020-01-01T00:00:00Z",
		UpdatedAt:       "2024-05-30T12:00:00Z",
		PushedAt:        "2024-05-30T12:00:00Z",
		OpenIssuesCount: 2,
		DefaultBranch:   "main",
	}

	return &domain.Report{
		Username: "octocat",
		Profile: domain.Profile{
			Login:       "octocat",
			Name:        "The Octocat",
			Bio:         "Building tools for developers",
			Company:     "@github",
			Location:    "San Francisco",
			PublicRepos: 8,
			Followers:   9000,
			Following:   9,
			CreatedAt:   "2011-01-25T18:44:36Z",
		},
		Repositories: domain.RepositorySection{
			TotalCount: 1,
			TopRepos:   []domain.Repository{repo},
			AllRepos:   []domain.Repository{repo},
		},
		ScoreSummary: domain.ScoreSummary{
			TotalScore: 72.5,
			MaxScore:   100,
			CategoryScores: domain.CategoryScores{
				Documentation: 16,
				CodeStructure: 12.5,
				Activity:      14,
				Organization:  10,
				Impact:        20,
			},
			RecruiterVerdict: domain.Verdict{
				Verdict:        "Interview Worthy",
				Description:    "Solid contributor with demonstrated capabilities. Worth technical conversation.",
				HireConfidence: 0.65,
			},
		},
		Activity: domain.ActivitySection{
			Commitment: domain.CommitmentMetrics{
				TotalCommits:            120,
				CommitsByRepo:           map[string]int{"hello-world": 120},
				DaysWithCommits:         45,
				RecentCommits90d:        30,
				ActivityLevel:           "active",
				DaysSinceLastCommit:     &days,
				LastCommitDate:          "2024-05-29T09:00:00Z",
				RepositoriesContributed: 1,
			},
			Consistency: domain.ConsistencyMetrics{
				MaxGapDays:        12,
				AvgGapDays:        2.5,
				GapCount:          44,
				ConsistencyRating: "good",
				CommitmentIndex:   0.333,
				FirstCommitDate:   "2023-06-01T09:00:00Z",
				LastCommitDate:    "2024-05-29T09:00:00Z",
				TotalDaysActive:   364,
			},
		},
		Impact: domain.ImpactSection{
			Analysis: domain.ImpactAnalysis{
				HighImpactRepos:     []domain.ImpactEntry{{Name: "hello-world", Score: 86, Stars: 150, Forks: 60}},
				ModerateImpactRepos: []domain.ImpactEntry{},
				EmergingRepos:       []domain.ImpactEntry{},
				TotalImpactScore:    86,
				TopLanguage:         "Go",
				DeploymentCount:     1,
				BusinessRelevant:    []string{"hello-world"},
			},
			Market: domain.MarketFit{
				MarketDistribution: map[domain.Market]int{
					domain.MarketWeb: 0, domain.MarketMobile: 0, domain.MarketBackend: 0, domain.MarketFrontend: 0,
					domain.MarketDevtools: 0, domain.MarketData: 1, domain.MarketAIML: 0, domain.MarketCloud: 0,
				},
				PrimaryMarket:   domain.MarketData,
				MarketDepth:     1,
				MarketDiversity: 1,
			},
		},
		Evaluation: domain.Evaluation{
			Method:          domain.MethodRuleBased,
			Strengths:       []string{"Community recognition with 150 total stars across repositories"},
			RedFlags:        []string{"Very limited number of public repositories to evaluate"},
			Recommendations: []string{"Pin your best projects"},
		},
		ReadmesCount: 1,
		GeneratedAt:  "2024-06-01T00:00:00Z",
	}
}
