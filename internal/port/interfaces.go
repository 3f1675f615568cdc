package port

import (
	"context"
	"time"

	"github-portfolio-analyzer/internal/domain"
)

// ProfileSource (数据源): 负责从 GitHub 拉取资料、仓库、README 和提交
// 错误按 common 包的分类返回，调用方原样向上传递
type ProfileSource interface {
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
	FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error)
	// 仓库没有 README 时返回 ""，不是错误
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
	FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error)
}

// ReportCache (缓存): 按原始输入缓存完整报告
// Get 只会返回完整写入且未过期的报告
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.Report, bool, error)
	Set(ctx context.Context, key string, report *domain.Report, ttl time.Duration) error
}

// TextGenerator (生成器): 可选的大模型后端，可以为 nil
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Embedder 把文本转成向量，用于检索招聘知识库
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Notifier (信使): 把分析结果推送到飞书
type Notifier interface {
	Notify(ctx context.Context, report *domain.Report) error
}

// CachePurger 删除已过期的缓存条目，返回删除条数
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
