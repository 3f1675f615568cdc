package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github-portfolio-analyzer/internal/common"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// 单次批量向量化的上限
const maxEmbedBatch = 100

// Generator 同时实现 port.TextGenerator 和 port.Embedder
type Generator struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	embedder *genai.EmbeddingModel
}

// NewGenerator 创建 Gemini 客户端
func NewGenerator(ctx context.Context, apiKey, modelName, embeddingModel string) (*Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "create gemini client", err)
	}

	model := client.GenerativeModel(modelName)
	// 评估需要稳定的列表输出
	model.SetTemperature(0.3)

	return &Generator{
		client:   client,
		model:    model,
		embedder: client.EmbeddingModel(embeddingModel),
	}, nil
}

// Close 释放底层连接
func (g *Generator) Close() error {
	return g.client.Close()
}

// GenerateText 单轮生成，返回第一个候选的全部文本
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", common.WrapError(common.ErrCodeAIProcessing, "AI 调用失败", err)
	}
	return responseText(resp)
}

// responseText 拼接第一个候选里的文本片段
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 回复被安全策略拦截")
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回格式错误")
	}
	return b.String(), nil
}

// Embed 批量向量化，输出顺序与输入一致
func (g *Generator) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		end := min(start+maxEmbedBatch, len(texts))

		batch := g.embedder.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := g.embedder.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, common.WrapError(common.ErrCodeAIProcessing, "embedding 调用失败", err)
		}
		values, err := embeddingValues(resp, end-start)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, values...)
	}
	return vectors, nil
}

func embeddingValues(resp *genai.BatchEmbedContentsResponse, want int) ([][]float32, error) {
	if resp == nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "embedding 返回内容为空", errors.New("nil response"))
	}
	if len(resp.Embeddings) != want {
		return nil, common.NewError(common.ErrCodeAIProcessing,
			fmt.Sprintf("embedding 数量不匹配: got %d, want %d", len(resp.Embeddings), want))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, common.NewError(common.ErrCodeAIProcessing, fmt.Sprintf("embedding %d 为空", i))
		}
		out[i] = e.Values
	}
	return out, nil
}
