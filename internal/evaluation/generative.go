package evaluation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/port"

	"github.com/sirupsen/logrus"
)

// errEmptyReply 模型回复清洗后没有可用的行
var errEmptyReply = errors.New("generator returned no usable lines")

// bulletPrefix 匹配 "- " "* " "• " "1. " "2) " 这类列表前缀
var bulletPrefix = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

// GenerativeEvaluator 用大模型 + 知识库检索生成评估，任何失败都整体回退到规则评估
type GenerativeEvaluator struct {
	generator port.TextGenerator
	retriever *Retriever // 可以为 nil，此时不做检索
	fallback  *RuleEvaluator
	logger    *logrus.Logger
}

// NewGenerativeEvaluator 创建生成式评估器
func NewGenerativeEvaluator(generator port.TextGenerator, retriever *Retriever, fallback *RuleEvaluator, logger *logrus.Logger) *GenerativeEvaluator {
	if fallback == nil {
		fallback = NewRuleEvaluator()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GenerativeEvaluator{
		generator: generator,
		retriever: retriever,
		fallback:  fallback,
		logger:    logger,
	}
}

type question struct {
	name   string
	prompt string
	parse  func(reply string) []string
}

func questions(profileContext string) []question {
	return []question{
		{
			name: "strengths",
			prompt: fmt.Sprintf(`Based on this GitHub profile: %s

What are the top 3-5 technical strengths of this developer's portfolio?
Focus on what would impress a technical recruiter.
Return as a bullet point list.`, profileContext),
			parse: func(reply string) []string { return capLines(parseFindings(reply), MaxStrengths) },
		},
		{
			name: "red_flags",
			prompt: fmt.Sprintf(`Based on this GitHub profile: %s

What are the top 3-4 potential concerns or red flags in this portfolio?
Focus on what would concern a technical recruiter.
Return as a bullet point list.`, profileContext),
			parse: func(reply string) []string { return capLines(parseFindings(reply), MaxRedFlags) },
		},
		{
			name: "recommendations",
			prompt: fmt.Sprintf(`Based on this GitHub profile: %s

Generate 5-7 specific, actionable recommendations for improving this developer's GitHub portfolio.
Focus on items they can implement in the next 2-4 weeks.
Return as a numbered list.`, profileContext),
			parse: func(reply string) []string { return capLines(parseRecommendations(reply), MaxRecommendations) },
		},
	}
}

// Evaluate asks the three questions in order. The first failure abandons the
// generative result and returns the rule-based evaluation of the same data.
func (e *GenerativeEvaluator) Evaluate(ctx context.Context, data ProfileData) domain.Evaluation {
	if e.generator == nil {
		return e.fallback.Evaluate(ctx, data)
	}

	results := make([][]string, 0, 3)
	for _, q := range questions(BuildContext(data)) {
		lines, err := e.ask(ctx, q)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"login":    data.Profile.Login,
				"question": q.name,
				"code":     common.Code(err),
			}).WithError(err).Warn("generative evaluation failed, using rule-based evaluation")
			return e.fallback.Evaluate(ctx, data)
		}
		results = append(results, lines)
	}

	e.logger.WithField("login", data.Profile.Login).Debug("generative evaluation completed")
	return domain.Evaluation{
		Method:          domain.MethodRAGBased,
		Strengths:       results[0],
		RedFlags:        results[1],
		Recommendations: results[2],
	}
}

func (e *GenerativeEvaluator) ask(ctx context.Context, q question) ([]string, error) {
	prompt := q.prompt
	if e.retriever != nil {
		docs, err := e.retriever.Retrieve(ctx, q.prompt)
		if err != nil {
			return nil, common.WrapError(common.ErrCodeAIProcessing, "knowledge retrieval failed", err)
		}
		prompt = withKnowledge(docs, q.prompt)
	}

	reply, err := e.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "text generation failed", err)
	}

	lines := q.parse(reply)
	if len(lines) == 0 {
		return nil, common.WrapError(common.ErrCodeAIProcessing, q.name, errEmptyReply)
	}
	return lines, nil
}

// withKnowledge 把检索到的片段放在问题前面
func withKnowledge(docs []string, prompt string) string {
	if len(docs) == 0 {
		return prompt
	}
	var b strings.Builder
	b.WriteString("Use the following recruiter guidance to answer the question.\n\n")
	for _, d := range docs {
		b.WriteString(d)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(prompt)
	b.WriteString("\nHelpful Answer:")
	return b.String()
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
}

// parseFindings 拆行，丢掉空行和以 "Based on" 开头的复述
func parseFindings(reply string) []string {
	out := []string{}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Based on") {
			continue
		}
		if line = stripBullet(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseRecommendations 只保留长度超过 10 个字符的行
func parseRecommendations(reply string) []string {
	out := []string{}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 10 {
			continue
		}
		if line = stripBullet(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
