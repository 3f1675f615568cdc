package service

import (
	"time"

	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/filter"
)

// 改进建议与简历要点的数量上限
const (
	MaxImprovements  = 7
	MaxResumeBullets = 5
)

var weakestCategoryAdvice = map[domain.Category]string{
	domain.CategoryDocumentation: "📝 Add comprehensive READMEs to repositories. Include setup instructions, examples, and problem statements.",
	domain.CategoryCodeStructure: "🏗️ Improve code structure by adding tests, linting configs, and proper folder organization.",
	domain.CategoryActivity:      "🔥 Increase commit frequency. Aim for 2-3 commits per week across your projects.",
	domain.CategoryOrganization:  "📊 Complete your GitHub profile: add bio, work experience, company, website, and topics to repositories.",
	domain.CategoryImpact:        "⭐ Focus on one high-quality project and promote it. Add deployment URLs and business value.",
}

// reportClock 以报告生成时间为"现在"，使建议只取决于报告本身
func reportClock(report *domain.Report) func() time.Time {
	if t, ok := domain.ParseTimestamp(report.GeneratedAt); ok {
		return func() time.Time { return t }
	}
	return time.Now
}

// GenerateActionableImprovements 优先原样返回评估建议，否则按最弱维度和固定检查生成，最多 7 条
func GenerateActionableImprovements(report *domain.Report) []string {
	if recs := report.Evaluation.Recommendations; len(recs) > 0 {
		return append([]string(nil), recs...)
	}

	repos := report.Repositories.AllRepos
	suggestions := []string{weakestCategoryAdvice[report.ScoreSummary.CategoryScores.Weakest()]}

	if report.Activity.Commitment.RecentCommits90d < 10 {
		suggestions = append(suggestions, "📅 Show recent activity by making commits in the last 30 days.")
	}
	if len(repos) < 3 {
		suggestions = append(suggestions, "📦 Build more projects to demonstrate diverse capabilities.")
	}
	if report.Profile.Bio == "" {
		suggestions = append(suggestions, "🎯 Write a compelling GitHub bio highlighting your specializations.")
	}

	stale := filter.NewRepoFilterAt(reportClock(report)).FilterStale(repos, filter.StaleAfterDays)
	if float64(len(stale)) > float64(len(repos))*0.5 {
		suggestions = append(suggestions, "🧹 Update or archive inactive repositories to reduce clutter.")
	}
	if !filter.AnyHomepage(repos) {
		suggestions = append(suggestions, "🌐 Add URLs to deployed or live versions of your projects.")
	}
	if report.TotalStars() == 0 {
		suggestions = append(suggestions, "⭐ Share your projects on social media, communities, and relevant forums to gain visibility.")
	}

	return suggestions[:min(len(suggestions), MaxImprovements)]
}
