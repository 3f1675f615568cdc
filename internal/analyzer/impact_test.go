package analyzer

import (
	"strings"
	"testing"

	"github-portfolio-analyzer/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRepoImpactScore(t *testing.T) {
	tests := []struct {
		name   string
		repo   domain.Repository
		readme string
		want   int
	}{
		{
			name: "空仓库",
			repo: domain.Repository{Name: "empty"},
			want: 0,
		},
		{
			name: "高影响力仓库",
			repo: domain.Repository{
				Name:            "flagship",
				Description:     "A scalable analytics platform",
				StargazersCount: 150,
				ForksCount:      60,
				Size:            2200,
			},
			readme: strings.Repeat("x", 2500),
			want:   30 + 20 + 15 + 15 + 9,
		},
		{
			name: "各档下限",
			repo: domain.Repository{
				Name:            "edges",
				StargazersCount: 1,
				ForksCount:      1,
				Size:            100,
			},
			readme: "hi",
			want:   10 + 5 + 4 + 5,
		},
		{
			name: "中间档位",
			repo: domain.Repository{
				StargazersCount: 50,
				ForksCount:      20,
				Size:            1000,
			},
			readme: strings.Repeat("x", 1001),
			want:   25 + 15 + 12 + 10,
		},
		{
			name: "商业关键词封顶 20 且总分封顶 100",
			repo: domain.Repository{
				Description:     "enterprise saas platform framework library dashboard automation integration",
				Topics:          []string{"cloud", "distributed"},
				StargazersCount: 500,
				ForksCount:      500,
				Size:            5000,
			},
			readme: strings.Repeat("y", 3000),
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepoImpactScore(tt.repo, tt.readme))
		})
	}
}

func TestRepoImpactScore_ReadmeLengthCountsCharacters(t *testing.T) {
	// 1500 个汉字占 4500 字节，但只有 1500 个字符
	readme := strings.Repeat("文", 1500)
	assert.Equal(t, 10, RepoImpactScore(domain.Repository{}, readme))
}

func TestHasDeploymentSignal(t *testing.T) {
	assert.True(t, HasDeploymentSignal(domain.Repository{Homepage: "https://example.com"}, ""))
	assert.True(t, HasDeploymentSignal(domain.Repository{}, "Deployed on Vercel"))
	assert.True(t, HasDeploymentSignal(domain.Repository{Description: "Running in PRODUCTION"}, ""))
	assert.False(t, HasDeploymentSignal(domain.Repository{Description: "my dotfiles"}, "personal config"))
}

func TestAnalyzeRepositoryImpact(t *testing.T) {
	repos := []domain.Repository{
		{Name: "big", Language: "Go", StargazersCount: 150, ForksCount: 60, Size: 2200, Description: "a scalable platform"},
		{Name: "mid", Language: "Python", StargazersCount: 50, ForksCount: 5, Description: "cli helper", Homepage: "https://mid.dev"},
		{Name: "tiny", Language: "Python"},
		{Name: "docs", Language: "Go"},
	}
	readmes := map[string]string{"big": strings.Repeat("r", 2500)}

	got := AnalyzeRepositoryImpact(repos, readmes)

	assert.Equal(t, []domain.ImpactEntry{{Name: "big", Score: 86, Stars: 150, Forks: 60}}, got.HighImpactRepos)
	assert.Equal(t, []domain.ImpactEntry{}, got.ModerateImpactRepos)
	assert.Len(t, got.EmergingRepos, 3)
	assert.Equal(t, domain.ImpactEntry{Name: "mid", Score: 35}, got.EmergingRepos[0])
	assert.Equal(t, 30.3, got.TotalImpactScore)
	assert.Equal(t, "Go", got.TopLanguage, "tie between Go and Python resolves alphabetically")
	assert.Equal(t, 1, got.DeploymentCount)
	assert.Equal(t, []string{"big"}, got.BusinessRelevant)
}

func TestAnalyzeRepositoryImpact_OrderIndependent(t *testing.T) {
	repos := []domain.Repository{
		{Name: "a", Language: "Rust", StargazersCount: 10},
		{Name: "b", Language: "Go", StargazersCount: 100, Description: "api service"},
		{Name: "c", Language: "Rust"},
		{Name: "d", Language: "Go"},
	}
	reversed := []domain.Repository{repos[3], repos[2], repos[1], repos[0]}

	a := AnalyzeRepositoryImpact(repos, nil)
	b := AnalyzeRepositoryImpact(reversed, nil)

	assert.Equal(t, a.TotalImpactScore, b.TotalImpactScore)
	assert.Equal(t, a.TopLanguage, b.TopLanguage)
	assert.Equal(t, a.DeploymentCount, b.DeploymentCount)
	assert.ElementsMatch(t, a.BusinessRelevant, b.BusinessRelevant)
}

func TestAnalyzeRepositoryImpact_Empty(t *testing.T) {
	assert.Equal(t, domain.ImpactAnalysis{}, AnalyzeRepositoryImpact(nil, nil))
}

func TestAnalyzeMarketFit(t *testing.T) {
	repos := []domain.Repository{
		{Description: "React dashboard", Topics: []string{"nextjs"}},
		{Description: "Kubernetes operator", Topics: []string{"docker"}},
		{Description: "A Vue playground"},
	}

	got := AnalyzeMarketFit(repos)

	// react / vue 同时属于 web 与 frontend，平局取声明顺序靠前的 web
	assert.Equal(t, 2, got.MarketDistribution[domain.MarketWeb])
	assert.Equal(t, 2, got.MarketDistribution[domain.MarketFrontend])
	assert.Equal(t, 1, got.MarketDistribution[domain.MarketCloud])
	assert.Equal(t, domain.MarketWeb, got.PrimaryMarket)
	assert.Equal(t, 2, got.MarketDepth)
	assert.Equal(t, 3, got.MarketDiversity)
	assert.Len(t, got.MarketDistribution, 8)
}

func TestAnalyzeMarketFit_TieBreakUsesDeclarationOrder(t *testing.T) {
	repos := []domain.Repository{
		{Description: "terraform modules"},
		{Description: "pytorch experiments"},
	}
	got := AnalyzeMarketFit(repos)
	assert.Equal(t, domain.MarketAIML, got.PrimaryMarket)
	assert.Equal(t, 1, got.MarketDepth)

	empty := AnalyzeMarketFit(nil)
	assert.Equal(t, domain.MarketWeb, empty.PrimaryMarket)
	assert.Equal(t, 0, empty.MarketDepth)
	assert.Equal(t, 0, empty.MarketDiversity)
}

func TestImpactSummary(t *testing.T) {
	repos := []domain.Repository{{Name: "big", StargazersCount: 150, ForksCount: 60, Size: 2200, Description: "api platform"}}
	out := ImpactSummary(AnalyzeRepositoryImpact(repos, map[string]string{"big": strings.Repeat("r", 2100)}), AnalyzeMarketFit(repos))

	assert.Contains(t, out, "HIGH IMPACT PROJECTS: 1")
	assert.Contains(t, out, "big:")
	assert.Contains(t, out, "MARKET FOCUS: web")
}
