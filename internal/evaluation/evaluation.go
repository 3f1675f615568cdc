package evaluation

import (
	"context"
	"time"

	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/filter"
	"github-portfolio-analyzer/internal/port"

	"github.com/sirupsen/logrus"
)

// 输出条数上限
const (
	MaxStrengths       = 5
	MaxRedFlags        = 4
	MaxRecommendations = 7
)

// ProfileData 评估所需的全部输入
type ProfileData struct {
	Profile domain.Profile
	Repos   []domain.Repository
	Readmes map[string]string
}

// ReadmesCount 非空 README 数量
func (d ProfileData) ReadmesCount() int {
	return filter.CountReadmes(d.Readmes)
}

// Evaluator 把资料转换成优势、风险和建议三组文本
type Evaluator interface {
	Evaluate(ctx context.Context, data ProfileData) domain.Evaluation
}

// New picks the evaluation strategy. Without a generator the rule-based
// evaluator is used; an embedder is optional for the generative one.
// now is the clock for recency checks; nil means time.Now.
func New(generator port.TextGenerator, embedder port.Embedder, logger *logrus.Logger, now func() time.Time) Evaluator {
	rules := NewRuleEvaluatorAt(now)
	if generator == nil {
		return rules
	}

	var retriever *Retriever
	if embedder != nil {
		retriever = NewRetriever(embedder, RecruiterGuide)
	}
	return NewGenerativeEvaluator(generator, retriever, rules, logger)
}

func capLines(lines []string, limit int) []string {
	if len(lines) > limit {
		return lines[:limit]
	}
	return lines
}
