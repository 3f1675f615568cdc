package domain

// Category 是五个评分维度之一，声明顺序即平局时的优先顺序
type Category string

const (
	CategoryDocumentation Category = "documentation"
	CategoryCodeStructure Category = "code_structure"
	CategoryActivity      Category = "activity"
	CategoryOrganization  Category = "organization"
	CategoryImpact        Category = "impact"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryDocumentation,
	CategoryCodeStructure,
	CategoryActivity,
	CategoryOrganization,
	CategoryImpact,
}

// MaxCategoryScore is the upper bound of every category score.
const MaxCategoryScore = 20.0

// CategoryScores holds one score in [0, 20] per category.
type CategoryScores struct {
	Documentation float64 `json:"documentation"`
	CodeStructure float64 `json:"code_structure"`
	Activity      float64 `json:"activity"`
	Organization  float64 `json:"organization"`
	Impact        float64 `json:"impact"`
}

// Get returns the score of c, or 0 for an unknown category.
func (s CategoryScores) Get(c Category) float64 {
	switch c {
	case CategoryDocumentation:
		return s.Documentation
	case CategoryCodeStructure:
		return s.CodeStructure
	case CategoryActivity:
		return s.Activity
	case CategoryOrganization:
		return s.Organization
	case CategoryImpact:
		return s.Impact
	}
	return 0
}

// Weakest returns the lowest scoring category; ties go to the earlier category.
func (s CategoryScores) Weakest() Category {
	best := Categories[0]
	for _, c := range Categories[1:] {
		if s.Get(c) < s.Get(best) {
			best = c
		}
	}
	return best
}

// Strongest returns the highest scoring category; ties go to the later category,
// so Weakest and Strongest differ whenever two categories share a score.
func (s CategoryScores) Strongest() Category {
	best := Categories[0]
	for _, c := range Categories[1:] {
		if s.Get(c) >= s.Get(best) {
			best = c
		}
	}
	return best
}

// Market 是市场分类之一，声明顺序同样决定平局
type Market string

const (
	MarketWeb      Market = "web"
	MarketMobile   Market = "mobile"
	MarketBackend  Market = "backend"
	MarketFrontend Market = "frontend"
	MarketDevtools Market = "devtools"
	MarketData     Market = "data"
	MarketAIML     Market = "ai_ml"
	MarketCloud    Market = "cloud"
)

// Markets lists the eight markets in declaration order.
var Markets = []Market{
	MarketWeb,
	MarketMobile,
	MarketBackend,
	MarketFrontend,
	MarketDevtools,
	MarketData,
	MarketAIML,
	MarketCloud,
}
