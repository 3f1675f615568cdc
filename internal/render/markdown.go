// Package render 把报告渲染成 markdown 文本
package render

import (
	"fmt"
	"strings"

	"github-portfolio-analyzer/internal/domain"
)

// 快速见效的建议条数
const quickWinCount = 3

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// CategoryTitle 把 code_structure 转成 Code Structure
func CategoryTitle(c domain.Category) string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// SummaryMarkdown 标题、总分、结论、资料和分项得分
func SummaryMarkdown(report *domain.Report) string {
	summary := report.ScoreSummary
	var b strings.Builder

	fmt.Fprintf(&b, "# GitHub Portfolio Analysis: %s\n\n", report.Profile.DisplayName())
	fmt.Fprintf(&b, "**Overall Score:** %.1f/%.0f\n\n", summary.TotalScore, summary.MaxScore)
	fmt.Fprintf(&b, "**Verdict:** %s\n\n", summary.RecruiterVerdict.Verdict)
	if desc := summary.RecruiterVerdict.Description; desc != "" {
		fmt.Fprintf(&b, "%s\n\n", desc)
	}

	b.WriteString("## Profile Summary\n")
	fmt.Fprintf(&b, "- **Location:** %s\n", orNA(report.Profile.Location))
	fmt.Fprintf(&b, "- **Company:** %s\n", orNA(report.Profile.Company))
	fmt.Fprintf(&b, "- **Followers:** %d\n", report.Profile.Followers)
	fmt.Fprintf(&b, "- **Public Repos:** %d\n\n", report.Profile.PublicRepos)

	b.WriteString("## Score Breakdown\n")
	for _, c := range domain.Categories {
		fmt.Fprintf(&b, "- **%s:** %.1f/%.0f\n", CategoryTitle(c), summary.CategoryScores.Get(c), domain.MaxCategoryScore)
	}
	return b.String()
}

// ImprovementPlan 按优先级、快速见效、长期改进三段组织建议
func ImprovementPlan(report *domain.Report, improvements []string) string {
	scores := report.ScoreSummary.CategoryScores
	var b strings.Builder

	b.WriteString("# 🚀 GitHub Portfolio Improvement Plan\n\n")

	b.WriteString("## Priority Areas\n")
	fmt.Fprintf(&b, "Your portfolio is strongest in **%s** and needs work in **%s**.\n\n",
		CategoryTitle(scores.Strongest()), CategoryTitle(scores.Weakest()))

	quick := improvements[:min(len(improvements), quickWinCount)]
	b.WriteString("## Quick Wins (Next 1-2 Weeks)\n")
	for i, item := range quick {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}

	if rest := improvements[len(quick):]; len(rest) > 0 {
		b.WriteString("\n## Bigger Improvements (1-2 Months)\n")
		for i, item := range rest {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
	}
	return b.String()
}

// ResumeBullets 每条一行的列表
func ResumeBullets(bullets []string) string {
	var b strings.Builder
	for _, line := range bullets {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}
