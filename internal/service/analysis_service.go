package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github-portfolio-analyzer/internal/analyzer"
	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/evaluation"
	"github-portfolio-analyzer/internal/filter"
	"github-portfolio-analyzer/internal/port"
	"github-portfolio-analyzer/internal/scoring"

	"github.com/sirupsen/logrus"
)

// 报告中 top_repos 的数量
const TopReposCount = 5

// 默认选项
const (
	DefaultConcurrency = 3
	DefaultTTL         = 24 * time.Hour
	repoFetchTimeout   = 30 * time.Second
)

// Options 控制一次分析的缓存和并发行为
type Options struct {
	TTL         time.Duration
	Concurrency int
	// SkipCache 跳过缓存读取，结果仍会写回缓存
	SkipCache bool
	NowFunc   func() time.Time
}

// AnalysisService 串起抓取、评分、分析、评估和缓存
type AnalysisService struct {
	source    port.ProfileSource
	cache     port.ReportCache
	evaluator evaluation.Evaluator
	logger    *logrus.Logger
	opts      Options
}

// NewAnalysisService 创建分析服务；cache 可以为 nil
func NewAnalysisService(
	source port.ProfileSource,
	cache port.ReportCache,
	evaluator evaluation.Evaluator,
	logger *logrus.Logger,
	opts Options,
) *AnalysisService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.NowFunc == nil {
		opts.NowFunc = time.Now
	}
	if evaluator == nil {
		// 与评分、活跃度共用同一个时钟
		evaluator = evaluation.NewRuleEvaluatorAt(opts.NowFunc)
	}
	return &AnalysisService{
		source:    source,
		cache:     cache,
		evaluator: evaluator,
		logger:    logger,
		opts:      opts,
	}
}

func (s *AnalysisService) now() time.Time {
	return s.opts.NowFunc().UTC()
}

// AnalyzeProfile 分析一个 GitHub 用户，input 可以是用户名或主页 URL
func (s *AnalysisService) AnalyzeProfile(ctx context.Context, input string) (*domain.Report, error) {
	// 1. 规整输入
	username, err := ExtractUsername(input)
	if err != nil {
		return nil, err
	}
	log := s.logger.WithField("login", username)

	// 2. 查缓存
	if cached := s.lookup(ctx, input, log); cached != nil {
		return cached, nil
	}

	// 3. 资料，错误原样返回
	profile, err := s.source.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	// 4. 仓库
	repos, err := s.source.FetchRepositories(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, &domain.NoRepositoriesError{Profile: *profile}
	}
	log.WithField("repos", len(repos)).Debug("repositories fetched")

	// 5. 逐仓库抓 README 和提交
	owner := profile.Login
	if owner == "" {
		owner = username
	}
	snapshot, err := s.collect(ctx, *profile, owner, repos)
	if err != nil {
		return nil, err
	}

	// 6. 评分、分析、评估；7. 组装
	report := s.buildReport(ctx, username, snapshot)

	s.store(ctx, input, report, log)
	return report, nil
}

func (s *AnalysisService) lookup(ctx context.Context, key string, log *logrus.Entry) *domain.Report {
	if s.cache == nil || s.opts.SkipCache {
		return nil
	}
	report, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("cache lookup failed, analysing from scratch")
		return nil
	}
	if !ok {
		return nil
	}
	log.Debug("cache hit")
	return report
}

func (s *AnalysisService) store(ctx context.Context, key string, report *domain.Report, log *logrus.Entry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, report, s.opts.TTL); err != nil {
		log.WithError(err).Warn("failed to cache report")
	}
}

type repoJob struct {
	index int
	repo  domain.Repository
}

type repoResult struct {
	index   int
	readme  string
	commits []domain.Commit
}

// fetchRepoWorker 工作协程，抓取单个仓库的 README 和提交；失败只记日志
func (s *AnalysisService) fetchRepoWorker(
	ctx context.Context,
	owner string,
	jobs <-chan repoJob,
	results chan<- repoResult,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for job := range jobs {
		log := s.logger.WithFields(logrus.Fields{"worker": workerID, "repo": job.repo.Name})
		res := repoResult{index: job.index}

		// 为每个仓库设置超时时间
		repoCtx, cancel := context.WithTimeout(ctx, repoFetchTimeout)

		readme, err := s.source.FetchReadme(repoCtx, owner, job.repo.Name)
		if err != nil {
			log.WithError(err).Debug("readme unavailable")
		} else {
			res.readme = readme
		}

		commits, err := s.source.FetchCommits(repoCtx, owner, job.repo.Name)
		if err != nil {
			log.WithError(err).Debug("commits unavailable")
		} else {
			res.commits = commits
		}
		cancel() // 立即释放资源

		results <- res
	}
}

// collect 用固定大小的协程池并发抓取，结果按仓库原顺序归并
func (s *AnalysisService) collect(ctx context.Context, profile domain.Profile, owner string, repos []domain.Repository) (*domain.Snapshot, error) {
	jobs := make(chan repoJob, len(repos))
	results := make(chan repoResult, len(repos))

	var wg sync.WaitGroup
	workers := min(s.opts.Concurrency, len(repos))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go s.fetchRepoWorker(ctx, owner, jobs, results, &wg, i+1)
	}

	for i, repo := range repos {
		jobs <- repoJob{index: i, repo: repo}
	}
	close(jobs)

	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetching repository details: %w", err)
	}

	ordered := make([]repoResult, len(repos))
	for res := range results {
		ordered[res.index] = res
	}

	snapshot := &domain.Snapshot{
		Profile:       profile,
		Repos:         repos,
		Readmes:       make(map[string]string),
		CommitsByRepo: make(map[string][]domain.Commit),
	}
	for i, res := range ordered {
		name := repos[i].Name
		if res.readme != "" {
			snapshot.Readmes[name] = res.readme
		}
		if len(res.commits) > 0 {
			snapshot.CommitsByRepo[name] = res.commits
		}
	}
	return snapshot, nil
}

func (s *AnalysisService) buildReport(ctx context.Context, username string, snap *domain.Snapshot) *domain.Report {
	engine := scoring.NewEngineAt(s.opts.NowFunc)
	scores := engine.ScoreAll(snap)
	total := scoring.TotalScore(scores)

	activity := analyzer.NewActivityAnalyzerAt(s.opts.NowFunc)

	eval := s.evaluator.Evaluate(ctx, evaluation.ProfileData{
		Profile: snap.Profile,
		Repos:   snap.Repos,
		Readmes: snap.Readmes,
	})

	top := append([]domain.Repository(nil), snap.Repos[:min(len(snap.Repos), TopReposCount)]...)

	report := &domain.Report{
		Username: username,
		Profile:  snap.Profile,
		Repositories: domain.RepositorySection{
			TotalCount: len(snap.Repos),
			TopRepos:   top,
			AllRepos:   snap.Repos,
		},
		ScoreSummary: scoring.Summarize(total, scores),
		Activity: domain.ActivitySection{
			Commitment:  activity.AnalyzeCommitment(snap.CommitsByRepo),
			Consistency: activity.AnalyzeConsistency(snap.CommitsByRepo),
		},
		Impact: domain.ImpactSection{
			Analysis: analyzer.AnalyzeRepositoryImpact(snap.Repos, snap.Readmes),
			Market:   analyzer.AnalyzeMarketFit(snap.Repos),
		},
		Evaluation:   eval,
		ReadmesCount: filter.CountReadmes(snap.Readmes),
		GeneratedAt:  s.now().Format(time.RFC3339),
	}

	s.logger.WithFields(logrus.Fields{
		"login":   username,
		"score":   report.ScoreSummary.TotalScore,
		"verdict": report.ScoreSummary.RecruiterVerdict.Verdict,
		"method":  eval.Method,
	}).Info("analysis complete")
	return report
}
