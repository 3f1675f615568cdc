package scoring

import (
	"strings"
	"time"
	"unicode/utf8"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"
)

// MaxTotalScore 总分上限
const MaxTotalScore = 100.0

// CategoryWeights 每个维度折算到总分时的权重，五项之和为 100
var CategoryWeights = map[domain.Category]float64{
	domain.CategoryDocumentation: 20,
	domain.CategoryCodeStructure: 20,
	domain.CategoryActivity:      20,
	domain.CategoryOrganization:  20,
	domain.CategoryImpact:        20,
}

// Verdict tiers, evaluated from the highest threshold down.
const (
	VerdictStrongHire    = "Strong Hire Signal"
	VerdictInterview     = "Interview Worthy"
	VerdictNeedsPosition = "Needs Positioning"
	VerdictNeedsWork     = "Needs Serious Work"
)

var verdictTiers = []struct {
	min         float64
	verdict     string
	description string
}{
	{85, VerdictStrongHire, "Exceptional portfolio showing leadership, impact, and sustained contribution quality."},
	{70, VerdictInterview, "Solid contributor with demonstrated capabilities. Worth technical conversation."},
	{50, VerdictNeedsPosition, "Good potential but needs better portfolio presentation and some skill building."},
	{0, VerdictNeedsWork, "Early stage or inconsistent profile. Recommend focusing on contributions, documentation, and consistency."},
}

var (
	setupKeywords   = []string{"setup", "install", "installation", "prerequisites"}
	stackKeywords   = []string{"stack", "technologies", "built with", "requires"}
	problemKeywords = []string{"problem", "motivation", "why", "purpose", "solves"}
	usageKeywords   = []string{"example", "usage", "how to use", "demo", "quickstart"}
	imageKeywords   = []string{"![", ".png", ".jpg"}

	configIndicators = []string{
		".gitignore", "package.json", "requirements.txt", "dockerfile", "setup.py",
		"tsconfig", "eslint", "makefile", "gradle", "pom.xml",
	}
	testKeywords = []string{"test", "pytest", "jest", "mocha", "unittest", "coverage", "tdd"}

	liveKeywords     = []string{"live", "deploy", "production", "www.", "https://", "app", "api", "service"}
	businessKeywords = []string{
		"analytics", "saas", "platform", "framework", "library", "tool",
		"dashboard", "automation", "integration", "data", "ai", "ml",
	}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clampCategory(v float64) float64 {
	return common.Clamp(v, 0, domain.MaxCategoryScore)
}

// Engine 计算五个维度的分数、总分和招聘结论
type Engine struct {
	nowFunc func() time.Time
}

// NewEngine 创建评分引擎
func NewEngine() *Engine {
	return &Engine{nowFunc: time.Now}
}

// NewEngineAt returns an engine whose clock is fixed by now.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{nowFunc: now}
}

func (e *Engine) now() time.Time {
	if e != nil && e.nowFunc != nil {
		return e.nowFunc().UTC()
	}
	return time.Now().UTC()
}

// ScoreAll runs the five scorers over one snapshot.
func (e *Engine) ScoreAll(s *domain.Snapshot) domain.CategoryScores {
	return domain.CategoryScores{
		Documentation: e.DocumentationScore(s.Repos, s.Readmes),
		CodeStructure: e.CodeStructureScore(s.Repos, s.Readmes),
		Activity:      e.ActivityScore(s.Profile, s.CommitsByRepo),
		Organization:  e.OrganizationScore(s.Repos, s.Profile),
		Impact:        e.ImpactScore(s.Repos),
	}
}

// readmeQuality 单个 README 的质量分，上限 10
func readmeQuality(readme string) float64 {
	text := strings.ToLower(readme)
	quality := 0.0
	for _, group := range [][]string{setupKeywords, stackKeywords, problemKeywords, usageKeywords, imageKeywords} {
		if containsAny(text, group) {
			quality += 2
		}
	}

	length := utf8.RuneCountInString(readme)
	for _, threshold := range []int{500, 1000, 2000} {
		if length > threshold {
			quality += 2
		}
	}
	return min(quality, 10)
}

// DocumentationScore 平均 README 质量 + 覆盖率奖励
func (e *Engine) DocumentationScore(repos []domain.Repository, readmes map[string]string) float64 {
	if len(repos) == 0 {
		return 0
	}

	count := 0
	totalQuality := 0.0
	for _, repo := range repos {
		readme := readmes[repo.Name]
		if readme == "" {
			continue
		}
		count++
		totalQuality += readmeQuality(readme)
	}
	if count == 0 {
		return 0
	}

	avgQuality := totalQuality / float64(count)
	coverage := min(float64(count)/float64(len(repos))*10, 10)
	return clampCategory(avgQuality + coverage)
}

// CodeStructureScore 语言多样性 + 平均体量 + README 中的配置文件与测试信号
func (e *Engine) CodeStructureScore(repos []domain.Repository, readmes map[string]string) float64 {
	if len(repos) == 0 {
		return 0
	}
	n := float64(len(repos))

	score := min(float64(len(domain.DistinctLanguages(repos)))*1.5, 4)

	totalSize := 0
	for _, repo := range repos {
		totalSize += repo.Size
	}
	avgSize := float64(totalSize) / n
	for _, threshold := range []float64{100, 500, 2000} {
		if avgSize > threshold {
			score += 2
		}
	}

	configCount, testMentions := 0, 0
	for _, readme := range readmes {
		if readme == "" {
			continue
		}
		text := strings.ToLower(readme)
		for _, indicator := range configIndicators {
			if strings.Contains(text, indicator) {
				configCount++
			}
		}
		if containsAny(text, testKeywords) {
			testMentions++
		}
	}
	score += min(float64(configCount)/n*4, 4)
	score += min(float64(testMentions)/n*2, 2)

	return clampCategory(score)
}

// ActivityScore 近 90 天提交 + 提交总量 + 账号年龄
func (e *Engine) ActivityScore(profile domain.Profile, commitsByRepo map[string][]domain.Commit) float64 {
	now := e.now()
	recent, total := 0, 0
	for _, commits := range commitsByRepo {
		for _, c := range commits {
			total++
			if domain.IsRecent(now, c.Date, 90) {
				recent++
			}
		}
	}

	score := 0.0
	switch {
	case recent > 50:
		score += 8
	case recent > 20:
		score += 6
	case recent > 5:
		score += 4
	case recent > 0:
		score += 2
	}

	switch {
	case total > 500:
		score += 6
	case total > 200:
		score += 4
	case total > 50:
		score += 2
	default:
		score += 1
	}

	// 创建时间缺失或无法解析时不计年龄分
	if created, ok := domain.ParseTimestamp(profile.CreatedAt); ok {
		years := float64(domain.WholeDays(now.Sub(created))) / 365
		switch {
		case years >= 5:
			score += 6
		case years >= 3:
			score += 4
		case years >= 1:
			score += 2
		default:
			score += 1
		}
	}

	return clampCategory(score)
}

// ProfileFields 资料完整度统计的字段，顺序固定
func ProfileFields(p domain.Profile) []string {
	return []string{p.Name, p.Bio, p.Company, p.Location, p.Email, p.Blog, p.TwitterUsername}
}

// OrganizationScore 资料完整度 + 描述覆盖率 + topics 覆盖率 + 公开仓库数
func (e *Engine) OrganizationScore(repos []domain.Repository, profile domain.Profile) float64 {
	fields := ProfileFields(profile)
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	score := min(float64(filled)/float64(len(fields))*5, 5)

	if len(repos) > 0 {
		n := float64(len(repos))
		withDesc, withTopics := 0, 0
		for _, repo := range repos {
			if repo.Description != "" {
				withDesc++
			}
			if len(repo.Topics) > 0 {
				withTopics++
			}
		}
		score += min(float64(withDesc)/n*7, 7)
		score += min(float64(withTopics)/n*5, 5)
	}

	switch pr := profile.PublicRepos; {
	case pr >= 10:
		score += 3
	case pr >= 5:
		score += 2
	case pr >= 2:
		score += 1
	}

	return clampCategory(score)
}

// ImpactScore star / fork 总量 + 上线信号密度 + 商业关键词密度
func (e *Engine) ImpactScore(repos []domain.Repository) float64 {
	if len(repos) == 0 {
		return 0
	}
	n := float64(len(repos))

	stars, forks, live, business := 0, 0, 0, 0
	for _, repo := range repos {
		stars += repo.StargazersCount
		forks += repo.ForksCount
		if containsAny(strings.ToLower(repo.Description+repo.Homepage), liveKeywords) {
			live++
		}
		if containsAny(repo.SearchText(), businessKeywords) {
			business++
		}
	}

	score := 0.0
	switch {
	case stars >= 100:
		score += 6
	case stars >= 50:
		score += 4
	case stars >= 10:
		score += 2
	default:
		score += 1
	}

	switch {
	case forks >= 50:
		score += 4
	case forks >= 20:
		score += 2
	case forks >= 5:
		score += 1
	}

	score += min(float64(live)/n*5, 5)
	score += min(float64(business)/n*5, 5)

	return clampCategory(score)
}

// TotalScore Σ score/20·weight，结果限制在 [0, 100]
func TotalScore(scores domain.CategoryScores) float64 {
	total := 0.0
	for _, c := range domain.Categories {
		total += scores.Get(c) / domain.MaxCategoryScore * CategoryWeights[c]
	}
	return common.Clamp(total, 0, MaxTotalScore)
}

// RecruiterVerdict maps a total score to its tier and a hire confidence in [0, 1].
func RecruiterVerdict(total float64) domain.Verdict {
	v := domain.Verdict{HireConfidence: common.Clamp((total-40)/50, 0, 1)}
	for _, tier := range verdictTiers {
		if total >= tier.min {
			v.Verdict, v.Description = tier.verdict, tier.description
			return v
		}
	}
	last := verdictTiers[len(verdictTiers)-1]
	v.Verdict, v.Description = last.verdict, last.description
	return v
}

// Summarize builds the report's score section. The verdict and confidence use
// the unrounded total; displayed scores are rounded to one decimal.
func Summarize(total float64, scores domain.CategoryScores) domain.ScoreSummary {
	return domain.ScoreSummary{
		TotalScore: common.Round(total, 1),
		MaxScore:   MaxTotalScore,
		CategoryScores: domain.CategoryScores{
			Documentation: common.Round(scores.Documentation, 1),
			CodeStructure: common.Round(scores.CodeStructure, 1),
			Activity:      common.Round(scores.Activity, 1),
			Organization:  common.Round(scores.Organization, 1),
			Impact:        common.Round(scores.Impact, 1),
		},
		RecruiterVerdict: RecruiterVerdict(total),
	}
}
