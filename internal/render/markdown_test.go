package render

import (
	"strings"
	"testing"

	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Documentation", CategoryTitle(domain.CategoryDocumentation))
	assert.Equal(t, "Code Structure", CategoryTitle(domain.CategoryCodeStructure))
}

func TestSummaryMarkdown(t *testing.T) {
	out := SummaryMarkdown(testutil.SampleReport())

	assert.True(t, strings.HasPrefix(out, "# GitHub Portfolio Analysis: The Octocat\n"))
	assert.Contains(t, out, "**Overall Score:** 72.5/100")
	assert.Contains(t, out, "**Verdict:** Interview Worthy")
	assert.Contains(t, out, "- **Location:** San Francisco")
	assert.Contains(t, out, "- **Followers:** 9000")
	assert.Contains(t, out, "- **Code Structure:** 12.5/20")
	assert.Contains(t, out, "- **Impact:** 20.0/20")

	// 五个维度按声明顺序输出
	doc := strings.Index(out, "Documentation")
	impact := strings.Index(out, "**Impact:**")
	assert.Less(t, doc, impact)
}

func TestSummaryMarkdown_FallsBackToLogin(t *testing.T) {
	report := testutil.SampleReport()
	report.Profile.Name = ""
	report.Profile.Company = ""

	out := SummaryMarkdown(report)
	assert.Contains(t, out, "# GitHub Portfolio Analysis: octocat\n")
	assert.Contains(t, out, "- **Company:** N/A")
}

func TestImprovementPlan(t *testing.T) {
	report := testutil.SampleReport()
	items := []string{"one", "two", "three", "four", "five"}

	out := ImprovementPlan(report, items)

	assert.Contains(t, out, "# 🚀 GitHub Portfolio Improvement Plan")
	assert.Contains(t, out, "strongest in **Impact** and needs work in **Organization**")
	assert.Contains(t, out, "## Quick Wins (Next 1-2 Weeks)\n1. one\n2. two\n3. three\n")
	assert.Contains(t, out, "## Bigger Improvements (1-2 Months)\n1. four\n2. five\n")
}

func TestImprovementPlan_TiedCategories(t *testing.T) {
	report := testutil.SampleReport()
	report.ScoreSummary.CategoryScores = domain.CategoryScores{
		Documentation: 18,
		CodeStructure: 6,
		Activity:      18,
		Organization:  6,
		Impact:        9,
	}

	out := ImprovementPlan(report, []string{"one"})

	// 并列最高取声明顺序靠后的，并列最低取靠前的
	assert.Contains(t, out, "strongest in **Activity** and needs work in **Code Structure**")
}

func TestImprovementPlan_ShortList(t *testing.T) {
	out := ImprovementPlan(testutil.SampleReport(), []string{"only"})
	assert.Contains(t, out, "1. only")
	assert.NotContains(t, out, "Bigger Improvements")
}

func TestResumeBullets(t *testing.T) {
	assert.Equal(t, "- a\n- b\n", ResumeBullets([]string{"a", "b"}))
	assert.Equal(t, "", ResumeBullets(nil))
}
