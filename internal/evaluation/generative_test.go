package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github-portfolio-analyzer/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func promptContains(s string) interface{} {
	return mock.MatchedBy(func(prompt string) bool { return strings.Contains(prompt, s) })
}

func newTestGenerative(gen *mockGenerator, retriever *Retriever) (*GenerativeEvaluator, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewGenerativeEvaluator(gen, retriever, newTestRules(), logger), hook
}

func TestGenerativeEvaluator_Success(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, promptContains("technical strengths")).
		Return("Based on the profile, here is what stands out:\n- Strong Go skills\n* Good docs\n\n1. Active contributor", nil).Once()
	gen.On("GenerateText", mock.Anything, promptContains("red flags")).
		Return("- a\n- b\n- c\n- d\n- e", nil).Once()
	gen.On("GenerateText", mock.Anything, promptContains("actionable recommendations")).
		Return("1. Short\n2. Add a live demo to the flagship repo\n3) Write integration tests for the CLI", nil).Once()

	e, _ := newTestGenerative(gen, nil)
	got := e.Evaluate(context.Background(), strongProfile())

	assert.Equal(t, domain.Evaluation{
		Method:    domain.MethodRAGBased,
		Strengths: []string{"Strong Go skills", "Good docs", "Active contributor"},
		RedFlags:  []string{"a", "b", "c", "d"},
		Recommendations: []string{
			"Add a live demo to the flagship repo",
			"Write integration tests for the CLI",
		},
	}, got)
	gen.AssertExpectations(t)
}

func TestGenerativeEvaluator_FailureFallsBackToRules(t *testing.T) {
	tests := []struct {
		name  string
		setup func(gen *mockGenerator)
	}{
		{
			name: "每次调用都失败",
			setup: func(gen *mockGenerator) {
				gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("503 backend unavailable"))
			},
		},
		{
			name: "第二个问题返回空内容",
			setup: func(gen *mockGenerator) {
				gen.On("GenerateText", mock.Anything, promptContains("technical strengths")).Return("- Strong Go skills", nil)
				gen.On("GenerateText", mock.Anything, promptContains("red flags")).Return("   \n\n", nil)
			},
		},
		{
			name: "建议全部过短",
			setup: func(gen *mockGenerator) {
				gen.On("GenerateText", mock.Anything, promptContains("technical strengths")).Return("- Strong Go skills", nil)
				gen.On("GenerateText", mock.Anything, promptContains("red flags")).Return("- No tests", nil)
				gen.On("GenerateText", mock.Anything, promptContains("actionable recommendations")).Return("1. Blog\n2. Tests", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(mockGenerator)
			tt.setup(gen)
			e, hook := newTestGenerative(gen, nil)

			for _, data := range []ProfileData{strongProfile(), {}, {Profile: domain.Profile{Login: "x"}}} {
				want := newTestRules().Evaluate(context.Background(), data)
				got := e.Evaluate(context.Background(), data)
				assert.Equal(t, want, got)
				assert.Equal(t, domain.MethodRuleBased, got.Method)
			}
			require.NotEmpty(t, hook.AllEntries())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}

func TestGenerativeEvaluator_UsesRetrievedKnowledge(t *testing.T) {
	embedder := &letterEmbedder{}
	retriever := NewRetriever(embedder, RecruiterGuide)

	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.HasPrefix(prompt, "Use the following recruiter guidance") &&
			strings.Contains(prompt, "Question: Based on this GitHub profile: GITHUB PROFILE SUMMARY:") &&
			strings.HasSuffix(prompt, "Helpful Answer:")
	})).Return("- Solid, documented projects with a clear structure", nil).Times(3)

	e, _ := newTestGenerative(gen, retriever)
	got := e.Evaluate(context.Background(), strongProfile())

	assert.Equal(t, domain.MethodRAGBased, got.Method)
	assert.Equal(t, []string{"Solid, documented projects with a clear structure"}, got.Recommendations)
	assert.Equal(t, 4, embedder.calls, "知识库向量化一次，加上三次查询")
	gen.AssertExpectations(t)
}

func TestGenerativeEvaluator_RetrievalFailureFallsBack(t *testing.T) {
	gen := new(mockGenerator)
	retriever := NewRetriever(&letterEmbedder{err: errors.New("embedding quota exceeded")}, RecruiterGuide)

	e, _ := newTestGenerative(gen, retriever)
	got := e.Evaluate(context.Background(), strongProfile())

	assert.Equal(t, newTestRules().Evaluate(context.Background(), strongProfile()), got)
	gen.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}

func TestNew_SelectsStrategy(t *testing.T) {
	assert.IsType(t, &RuleEvaluator{}, New(nil, nil, nil, nil))
	assert.IsType(t, &RuleEvaluator{}, New(nil, &letterEmbedder{}, nil, nil))

	e, ok := New(new(mockGenerator), nil, nil, nil).(*GenerativeEvaluator)
	require.True(t, ok)
	assert.Nil(t, e.retriever)

	e, ok = New(new(mockGenerator), &letterEmbedder{}, logrus.New(), nil).(*GenerativeEvaluator)
	require.True(t, ok)
	assert.NotNil(t, e.retriever)
}

func TestParseFindings(t *testing.T) {
	reply := "  Based on the data:\n\n- **Go** expertise\n•  Tested code\n10. Many projects\nPlain line"
	assert.Equal(t, []string{"**Go** expertise", "Tested code", "Many projects", "Plain line"}, parseFindings(reply))
	assert.Equal(t, []string{}, parseFindings(""))
}

func TestParseRecommendations(t *testing.T) {
	reply := "1. Add tests\n2. Publish a demo site\n\n- Write a blog post about the design"
	assert.Equal(t, []string{"Add tests", "Publish a demo site", "Write a blog post about the design"}, parseRecommendations(reply))
	assert.Equal(t, []string{}, parseRecommendations("1. a\n2. b"))
}
