package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"
)

// 影响力分档
const (
	HighImpactThreshold     = 70
	ModerateImpactThreshold = 40
	maxRepoImpact           = 100
	maxBusinessBonus        = 20
)

// BusinessKeywords 描述和 topics 中代表商业相关性的词汇
var BusinessKeywords = []string{
	"saas", "platform", "framework", "library", "analytics", "dashboard",
	"automation", "integration", "api", "tool", "service", "app", "application",
	"ml", "ai", "data", "enterprise", "cloud", "distributed", "scalable",
}

var deploymentKeywords = []string{
	"live", "production", "deployed", "vercel", "heroku", "aws", "azure",
	"hosting", "domain", "https://", "app.", "api.", "live.",
}

var marketKeywords = map[domain.Market][]string{
	domain.MarketWeb:      {"react", "vue", "angular", "nextjs", "web", "html", "css"},
	domain.MarketMobile:   {"react-native", "flutter", "android", "ios", "mobile"},
	domain.MarketBackend:  {"django", "flask", "nodejs", "express", "java", "spring", "fastapi"},
	domain.MarketFrontend: {"react", "vue", "angular", "nextjs", "svelte"},
	domain.MarketDevtools: {"cli", "parser", "compiler", "linter", "formatter", "toolkit"},
	domain.MarketData:     {"etl", "data-pipeline", "analytics", "pandas", "dbt"},
	domain.MarketAIML:     {"tensorflow", "pytorch", "keras", "nlp", "computer-vision", "ml"},
	domain.MarketCloud:    {"aws", "kubernetes", "docker", "terraform", "infrastructure"},
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// RepoImpactScore 计算单个仓库 0-100 的影响力分
func RepoImpactScore(repo domain.Repository, readme string) int {
	score := 0

	switch stars := repo.StargazersCount; {
	case stars >= 100:
		score += 30
	case stars >= 50:
		score += 25
	case stars >= 10:
		score += 20
	case stars >= 1:
		score += 10
	}

	switch forks := repo.ForksCount; {
	case forks >= 50:
		score += 20
	case forks >= 20:
		score += 15
	case forks >= 5:
		score += 10
	case forks >= 1:
		score += 5
	}

	switch size := repo.Size; {
	case size >= 2000:
		score += 15
	case size >= 1000:
		score += 12
	case size >= 500:
		score += 8
	case size >= 100:
		score += 4
	}

	switch n := utf8.RuneCountInString(readme); {
	case n > 2000:
		score += 15
	case n > 1000:
		score += 10
	case n > 0:
		score += 5
	}

	text := repo.SearchText()
	business := 0
	for _, kw := range BusinessKeywords {
		if strings.Contains(text, kw) {
			business += 3
		}
	}
	score += min(business, maxBusinessBonus)

	return min(score, maxRepoImpact)
}

// HasDeploymentSignal 有主页，或 README / 描述里出现部署相关词
func HasDeploymentSignal(repo domain.Repository, readme string) bool {
	if repo.Homepage != "" {
		return true
	}
	return containsAny(strings.ToLower(readme), deploymentKeywords) ||
		containsAny(strings.ToLower(repo.Description), deploymentKeywords)
}

// IsBusinessRelevant 描述或 topics 命中商业词汇
func IsBusinessRelevant(repo domain.Repository) bool {
	return containsAny(repo.SearchText(), BusinessKeywords)
}

// AnalyzeRepositoryImpact 按影响力分档并汇总
func AnalyzeRepositoryImpact(repos []domain.Repository, readmes map[string]string) domain.ImpactAnalysis {
	if len(repos) == 0 {
		return domain.ImpactAnalysis{}
	}

	result := domain.ImpactAnalysis{
		HighImpactRepos:     []domain.ImpactEntry{},
		ModerateImpactRepos: []domain.ImpactEntry{},
		EmergingRepos:       []domain.ImpactEntry{},
		BusinessRelevant:    []string{},
	}
	languages := make(map[string]int)
	total := 0

	for _, repo := range repos {
		readme := readmes[repo.Name]
		score := RepoImpactScore(repo, readme)
		total += score

		if repo.Language != "" {
			languages[repo.Language]++
		}

		switch {
		case score >= HighImpactThreshold:
			result.HighImpactRepos = append(result.HighImpactRepos, domain.ImpactEntry{
				Name: repo.Name, Score: score, Stars: repo.StargazersCount, Forks: repo.ForksCount,
			})
		case score >= ModerateImpactThreshold:
			result.ModerateImpactRepos = append(result.ModerateImpactRepos, domain.ImpactEntry{
				Name: repo.Name, Score: score, Stars: repo.StargazersCount,
			})
		default:
			result.EmergingRepos = append(result.EmergingRepos, domain.ImpactEntry{
				Name: repo.Name, Score: score,
			})
		}

		if HasDeploymentSignal(repo, readme) {
			result.DeploymentCount++
		}
		if IsBusinessRelevant(repo) {
			result.BusinessRelevant = append(result.BusinessRelevant, repo.Name)
		}
	}

	result.TotalImpactScore = common.Round(float64(total)/float64(len(repos)), 1)
	result.TopLanguage = topLanguage(languages)
	return result
}

// topLanguage 出现次数最多的语言，次数相同时按字母序取第一个，与仓库顺序无关
func topLanguage(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	for _, name := range names {
		if best == "" || counts[name] > counts[best] {
			best = name
		}
	}
	return best
}

// AnalyzeMarketFit 按关键词把仓库归入八个市场，一个仓库可以属于多个市场
// 主市场取声明顺序中第一个最大值；全部为 0 时也按此规则落到第一个市场
func AnalyzeMarketFit(repos []domain.Repository) domain.MarketFit {
	dist := make(map[domain.Market]int, len(domain.Markets))
	for _, m := range domain.Markets {
		dist[m] = 0
	}

	for _, repo := range repos {
		text := repo.SearchText()
		for _, m := range domain.Markets {
			if containsAny(text, marketKeywords[m]) {
				dist[m]++
			}
		}
	}

	primary := domain.Markets[0]
	diversity := 0
	for _, m := range domain.Markets {
		if dist[m] > dist[primary] {
			primary = m
		}
		if dist[m] > 0 {
			diversity++
		}
	}

	return domain.MarketFit{
		MarketDistribution: dist,
		PrimaryMarket:      primary,
		MarketDepth:        dist[primary],
		MarketDiversity:    diversity,
	}
}

// ImpactSummary renders the impact and market analyses as a plain text block.
func ImpactSummary(impact domain.ImpactAnalysis, market domain.MarketFit) string {
	var b strings.Builder
	b.WriteString("IMPACT ANALYSIS:\n\n")
	fmt.Fprintf(&b, "Overall Impact Score: %.1f/100\n\n", impact.TotalImpactScore)
	fmt.Fprintf(&b, "HIGH IMPACT PROJECTS: %d\n", len(impact.HighImpactRepos))
	for i, e := range impact.HighImpactRepos {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "  • %s: %d impact score (%d stars)\n", e.Name, e.Score, e.Stars)
	}

	fmt.Fprintf(&b, "\nMARKET FOCUS: %s\n", market.PrimaryMarket)
	fmt.Fprintf(&b, "Repositories with Deployment: %d\n", impact.DeploymentCount)
	fmt.Fprintf(&b, "Business-Relevant Projects: %d\n\n", len(impact.BusinessRelevant))
	b.WriteString("MARKET POSITIONING:\n")
	for _, m := range domain.Markets {
		if n := market.MarketDistribution[m]; n > 0 {
			fmt.Fprintf(&b, "  • %s: %d projects\n", m, n)
		}
	}
	return b.String()
}
