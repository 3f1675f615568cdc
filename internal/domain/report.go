package domain

// CommitmentMetrics 提交投入度指标
type CommitmentMetrics struct {
	TotalCommits            int            `json:"total_commits"`
	CommitsByRepo           map[string]int `json:"commits_by_repo"`
	DaysWithCommits         int            `json:"days_with_commits"`
	RecentCommits90d        int            `json:"recent_commits_90d"`
	ActivityLevel           string         `json:"activity_level"`
	DaysSinceLastCommit     *int           `json:"days_since_last_commit"`
	LastCommitDate          string         `json:"last_commit_date"`
	RepositoriesContributed int            `json:"repositories_contributed"`
}

// ConsistencyMetrics 提交节奏指标
type ConsistencyMetrics struct {
	MaxGapDays        int     `json:"max_gap_days"`
	AvgGapDays        float64 `json:"avg_gap_days"`
	GapCount          int     `json:"gap_count"`
	ConsistencyRating string  `json:"consistency_rating"`
	CommitmentIndex   float64 `json:"commitment_index"`
	FirstCommitDate   string  `json:"first_commit_date"`
	LastCommitDate    string  `json:"last_commit_date"`
	TotalDaysActive   int     `json:"total_days_active"`
}

// ImpactEntry is one repository placed in an impact bucket. Stars and Forks
// are only meaningful for the buckets that report them.
type ImpactEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Stars int    `json:"stars"`
	Forks int    `json:"forks"`
}

// ImpactAnalysis 仓库影响力汇总
type ImpactAnalysis struct {
	HighImpactRepos     []ImpactEntry `json:"high_impact_repos"`
	ModerateImpactRepos []ImpactEntry `json:"moderate_impact_repos"`
	EmergingRepos       []ImpactEntry `json:"emerging_repos"`
	TotalImpactScore    float64       `json:"total_impact_score"` // 平均值，保留一位小数
	TopLanguage         string        `json:"top_language"`
	DeploymentCount     int           `json:"deployment_count"`
	BusinessRelevant    []string      `json:"business_relevant"`
}

// MarketFit 市场定位
type MarketFit struct {
	MarketDistribution map[Market]int `json:"market_distribution"`
	PrimaryMarket      Market         `json:"primary_market"`
	MarketDepth        int            `json:"market_depth"`
	MarketDiversity    int            `json:"market_diversity"`
}

// Verdict is the recruiter-facing tier derived from the total score.
type Verdict struct {
	Verdict        string  `json:"verdict"`
	Description    string  `json:"description"`
	HireConfidence float64 `json:"hire_confidence"`
}

// ScoreSummary 总分 + 分项 + 结论
type ScoreSummary struct {
	TotalScore       float64        `json:"total_score"`
	MaxScore         float64        `json:"max_score"`
	CategoryScores   CategoryScores `json:"category_scores"`
	RecruiterVerdict Verdict        `json:"recruiter_verdict"`
}

// Evaluation methods.
const (
	MethodRuleBased = "rule_based"
	MethodRAGBased  = "rag_based"
)

// Evaluation 优势 / 风险 / 建议
type Evaluation struct {
	Method          string   `json:"method"`
	Strengths       []string `json:"strengths"`
	RedFlags        []string `json:"red_flags"`
	Recommendations []string `json:"recommendations"`
}

type RepositorySection struct {
	TotalCount int          `json:"total_count"`
	TopRepos   []Repository `json:"top_repos"`
	AllRepos   []Repository `json:"all_repos"`
}

type ActivitySection struct {
	Commitment  CommitmentMetrics  `json:"commitment"`
	Consistency ConsistencyMetrics `json:"consistency"`
}

type ImpactSection struct {
	Analysis ImpactAnalysis `json:"analysis"`
	Market   MarketFit      `json:"market"`
}

// Report 一次分析的完整结果，生成后只读，按原始输入缓存
type Report struct {
	Username     string            `json:"username"`
	Profile      Profile           `json:"profile"`
	Repositories RepositorySection `json:"repositories"`
	ScoreSummary ScoreSummary      `json:"score_summary"`
	Activity     ActivitySection   `json:"activity"`
	Impact       ImpactSection     `json:"impact"`
	Evaluation   Evaluation        `json:"evaluation"`
	ReadmesCount int               `json:"readmes_count"`
	GeneratedAt  string            `json:"generated_at"`
}

// TotalStars sums stars across every repository in the report.
func (r *Report) TotalStars() int {
	total := 0
	for _, repo := range r.Repositories.AllRepos {
		total += repo.StargazersCount
	}
	return total
}

// Languages returns the distinct non-empty primary languages of the report's repositories.
func (r *Report) Languages() map[string]struct{} {
	return DistinctLanguages(r.Repositories.AllRepos)
}

// DistinctLanguages collects the set of non-empty primary languages.
func DistinctLanguages(repos []Repository) map[string]struct{} {
	langs := make(map[string]struct{})
	for _, repo := range repos {
		if repo.Language != "" {
			langs[repo.Language] = struct{}{}
		}
	}
	return langs
}
