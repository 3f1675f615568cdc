package evaluation

import (
	"context"
	"fmt"
	"time"

	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/filter"
)

// RuleEvaluator 纯规则评估，结果只取决于输入和当前时间
type RuleEvaluator struct {
	nowFunc func() time.Time
}

// NewRuleEvaluator 创建规则评估器
func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{nowFunc: time.Now}
}

// NewRuleEvaluatorAt 使用指定时钟判断仓库是否近期活跃
func NewRuleEvaluatorAt(now func() time.Time) *RuleEvaluator {
	if now == nil {
		now = time.Now
	}
	return &RuleEvaluator{nowFunc: now}
}

func (e *RuleEvaluator) repoFilter() *filter.RepoFilter {
	if e.nowFunc == nil {
		return filter.NewRepoFilter()
	}
	return filter.NewRepoFilterAt(e.nowFunc)
}

// Evaluate runs the strength, red flag and recommendation checks.
func (e *RuleEvaluator) Evaluate(_ context.Context, data ProfileData) domain.Evaluation {
	return domain.Evaluation{
		Method:          domain.MethodRuleBased,
		Strengths:       e.Strengths(data),
		RedFlags:        e.RedFlags(data),
		Recommendations: e.Recommendations(data),
	}
}

func countFilled(fields ...string) int {
	n := 0
	for _, f := range fields {
		if f != "" {
			n++
		}
	}
	return n
}

func totalStars(repos []domain.Repository) int {
	stars := 0
	for _, r := range repos {
		stars += r.StargazersCount
	}
	return stars
}

// Strengths 最多 5 条
func (e *RuleEvaluator) Strengths(data ProfileData) []string {
	repos, p := data.Repos, data.Profile
	n := float64(len(repos))
	strengths := []string{}

	if stars := totalStars(repos); stars > 50 {
		strengths = append(strengths, fmt.Sprintf("Community recognition with %d total stars across repositories", stars))
	}

	if langs := len(domain.DistinctLanguages(repos)); langs >= 3 {
		strengths = append(strengths, fmt.Sprintf("Technical versatility spanning %d different programming languages", langs))
	}

	if countFilled(p.Name, p.Bio, p.Company, p.Location, p.Email, p.Blog) >= 4 {
		strengths = append(strengths, "Well-established professional profile with complete information")
	}

	recent := len(e.repoFilter().FilterByPushedWithin(repos, filter.StaleAfterDays))
	if float64(recent) >= n*0.7 {
		strengths = append(strengths, "Consistent recent activity showing ongoing engagement")
	}

	readmes := data.ReadmesCount()
	if float64(readmes) >= n*0.6 {
		strengths = append(strengths, fmt.Sprintf("Good documentation practices with READMEs in %d repositories", readmes))
	}

	if len(repos) > 5 {
		strengths = append(strengths, fmt.Sprintf("Substantial portfolio with %d public repositories", len(repos)))
	}

	return capLines(strengths, MaxStrengths)
}

// RedFlags 最多 4 条
func (e *RuleEvaluator) RedFlags(data ProfileData) []string {
	repos, p := data.Repos, data.Profile
	n := float64(len(repos))
	flags := []string{}

	stale := len(e.repoFilter().FilterStale(repos, filter.StaleAfterDays))
	if float64(stale) >= n*0.5 && len(repos) > 2 {
		flags = append(flags, "Over 50% of repositories appear inactive or abandoned")
	}

	readmes := data.ReadmesCount()
	if float64(readmes) < n*0.3 && len(repos) > 2 {
		flags = append(flags, fmt.Sprintf("Limited documentation - only %d repositories have READMEs", readmes))
	}

	if totalStars(repos) == 0 && len(repos) > 3 {
		flags = append(flags, "No stars or recognition across repositories - consider projects may lack visibility")
	}

	if len(filter.FilterForks(repos)) > 0 && len(repos) <= 5 {
		flags = append(flags, "Primary activity centers on forks rather than original projects")
	}

	if countFilled(p.Name, p.Bio, p.Company) < 1 {
		flags = append(flags, "Minimal profile information - appears not ready for recruitment")
	}

	if len(repos) < 2 {
		flags = append(flags, "Very limited number of public repositories to evaluate")
	}

	return capLines(flags, MaxRedFlags)
}

// 始终给出的一条建议
const recContribute = "Contribute to open-source projects. Add features, fix bugs, or improve documentation in established projects to show collaboration skills."

// Recommendations 最多 7 条
func (e *RuleEvaluator) Recommendations(data ProfileData) []string {
	repos, p := data.Repos, data.Profile
	recs := []string{}

	if readmes := data.ReadmesCount(); readmes < len(repos) {
		recs = append(recs, fmt.Sprintf("Add comprehensive READMEs to %d repositories. Include setup instructions, examples, and problem statement.", len(repos)-readmes))
	}

	if !e.repoFilter().AnyPushedWithin(repos, filter.RecentActivityDays) {
		recs = append(recs, "Create or update a project with recent commits (within the last month) to demonstrate current engagement.")
	}

	if totalStars(repos) < 10 && len(repos) > 0 {
		recs = append(recs, "Focus on one project and polish it: improve documentation, add features, promote on social media, or contribute to make it production-ready.")
	}

	if p.Bio == "" {
		recs = append(recs, "Write a compelling bio (50-100 words) explaining your technical interests and specialization area.")
	}

	if len(repos) > 0 && len(domain.DistinctLanguages(repos)) <= 1 {
		recs = append(recs, "Diversify your technical skills by building projects in 2-3 different programming languages relevant to your target role.")
	}

	recs = append(recs, recContribute)

	if len(repos) > 0 && !filter.AnyHomepage(repos) {
		recs = append(recs, "Add URLs to deployed/live versions of your projects (websites, apps, APIs) to demonstrate real-world impact.")
	}

	return capLines(recs, MaxRecommendations)
}
