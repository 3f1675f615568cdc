package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"

	"github.com/google/go-github/v53/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// 单页最大条数 (GitHub 上限)
const perPage = 100

// Fetcher 实现了 port.ProfileSource 接口
type Fetcher struct {
	client        *github.Client
	limiter       *rate.Limiter
	logger        *logrus.Logger
	authenticated bool
	maxRetries    int
	retryDelay    time.Duration
}

// Option 配置 Fetcher
type Option func(*Fetcher)

// WithLogger 设置日志
func WithLogger(logger *logrus.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRateLimit paces outgoing requests. A non-positive value disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(f *Fetcher) {
		if perSecond <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond)))
	}
}

// WithRetry 设置瞬时错误的重试次数和首次退避时间
func WithRetry(maxRetries int, initialDelay time.Duration) Option {
	return func(f *Fetcher) {
		f.maxRetries = maxRetries
		f.retryDelay = initialDelay
	}
}

// NewFetcher 初始化 GitHub 客户端
// token 为空时匿名访问，限制 60 次/小时
func NewFetcher(token string, opts ...Option) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	f := &Fetcher{
		client:        client,
		limiter:       rate.NewLimiter(rate.Limit(10), 10),
		logger:        logrus.StandardLogger(),
		authenticated: token != "",
		maxRetries:    3,
		retryDelay:    time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) log() *logrus.Logger {
	if f.logger == nil {
		return logrus.StandardLogger()
	}
	return f.logger
}

// call 限速后执行一次 API 调用，瞬时错误按指数退避重试
func (f *Fetcher) call(ctx context.Context, op string, fn func() error) error {
	return common.Do(ctx, func() error {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return fn()
	},
		common.WithMaxRetries(f.maxRetries),
		common.WithInitialDelay(f.retryDelay),
		common.WithRetryIf(func(err error) bool {
			return ctx.Err() == nil && common.IsRetryable(err)
		}),
		common.WithOnRetry(func(attempt int, err error) {
			f.log().WithFields(logrus.Fields{
				"op":      op,
				"attempt": attempt,
			}).WithError(err).Warn("GitHub 请求失败，准备重试")
		}),
	)
}

// classify 把 go-github 的错误映射到 common 包的错误分类
func (f *Fetcher) classify(err error, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &common.RateLimitError{ResetAt: rateErr.Rate.Reset.Time.UTC(), Authenticated: f.authenticated}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		limitErr := &common.RateLimitError{Authenticated: f.authenticated}
		if d := abuseErr.GetRetryAfter(); d > 0 {
			limitErr.ResetAt = time.Now().Add(d).UTC()
		}
		return limitErr
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
		return common.NewError(common.ErrCodeNotFound, subject)
	}

	return common.Upstream(err)
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func formatTimestamp(ts *github.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

// FetchProfile 获取用户公开资料
func (f *Fetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	var user *github.User
	err := f.call(ctx, "profile", func() error {
		var apiErr error
		user, _, apiErr = f.client.Users.Get(ctx, username)
		return f.classify(apiErr, username)
	})
	if err != nil {
		return nil, err
	}

	f.log().WithField("login", user.GetLogin()).Debug("profile fetched")
	return &domain.Profile{
		Login:           user.GetLogin(),
		Name:            user.GetName(),
		Bio:             user.GetBio(),
		Company:         user.GetCompany(),
		Location:        user.GetLocation(),
		Email:           user.GetEmail(),
		Blog:            user.GetBlog(),
		TwitterUsername: user.GetTwitterUsername(),
		PublicRepos:     user.GetPublicRepos(),
		PublicGists:     user.GetPublicGists(),
		Followers:       user.GetFollowers(),
		Following:       user.GetFollowing(),
		CreatedAt:       formatTimestamp(user.CreatedAt),
		UpdatedAt:       formatTimestamp(user.UpdatedAt),
	}, nil
}

// FetchRepositories 分页获取全部公开仓库，按最近更新排序
func (f *Fetcher) FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error) {
	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	repos := []domain.Repository{}
	for {
		var page []*github.Repository
		var resp *github.Response
		err := f.call(ctx, "repositories", func() error {
			var apiErr error
			page, resp, apiErr = f.client.Repositories.List(ctx, username, opts)
			return f.classify(apiErr, username)
		})
		if err != nil {
			return nil, err
		}

		for _, item := range page {
			repos = append(repos, toRepository(item))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	f.log().WithFields(logrus.Fields{"login": username, "count": len(repos)}).Debug("repositories fetched")
	return repos, nil
}

func toRepository(item *github.Repository) domain.Repository {
	topics := item.Topics
	if topics == nil {
		topics = []string{}
	}
	return domain.Repository{
		ID:              item.GetID(),
		Name:            item.GetName(),
		FullName:        item.GetFullName(),
		Description:     item.GetDescription(),
		URL:             item.GetHTMLURL(),
		Homepage:        item.GetHomepage(),
		Topics:          topics,
		Language:        item.GetLanguage(),
		StargazersCount: item.GetStargazersCount(),
		ForksCount:      item.GetForksCount(),
		WatchersCount:   item.GetWatchersCount(),
		Size:            item.GetSize(),
		CreatedAt:       formatTimestamp(item.CreatedAt),
		UpdatedAt:       formatTimestamp(item.UpdatedAt),
		PushedAt:        formatTimestamp(item.PushedAt),
		OpenIssuesCount: item.GetOpenIssuesCount(),
		DefaultBranch:   item.GetDefaultBranch(),
		IsFork:          item.GetFork(),
	}
}

// FetchReadme 获取仓库 README 原文，仓库没有 README 时返回 ""
func (f *Fetcher) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	var content *github.RepositoryContent
	err := f.call(ctx, "readme", func() error {
		var apiErr error
		var resp *github.Response
		content, resp, apiErr = f.client.Repositories.GetReadme(ctx, owner, repo, nil)
		if statusOf(resp) == http.StatusNotFound {
			content = nil
			return nil
		}
		return f.classify(apiErr, owner+"/"+repo)
	})
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", nil
	}

	text, err := content.GetContent()
	if err != nil {
		return "", common.Upstream(err)
	}
	return text, nil
}

// FetchCommits 获取最近一页 (最多 100 条) 提交；空仓库返回空列表
func (f *Fetcher) FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	var items []*github.RepositoryCommit
	err := f.call(ctx, "commits", func() error {
		var apiErr error
		var resp *github.Response
		items, resp, apiErr = f.client.Repositories.ListCommits(ctx, owner, repo, opts)
		// 409: Git Repository is empty
		if statusOf(resp) == http.StatusConflict {
			items = nil
			return nil
		}
		return f.classify(apiErr, owner+"/"+repo)
	})
	if err != nil {
		return nil, err
	}

	commits := make([]domain.Commit, 0, len(items))
	for _, item := range items {
		c := domain.Commit{
			SHA:     item.GetSHA(),
			Message: item.GetCommit().GetMessage(),
			URL:     item.GetHTMLURL(),
		}
		if author := item.GetCommit().GetAuthor(); author != nil {
			c.Author = author.GetName()
			c.AuthorEmail = author.GetEmail()
			c.Date = formatTimestamp(author.Date)
		}
		commits = append(commits, c)
	}
	return commits, nil
}
