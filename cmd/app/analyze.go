package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github-portfolio-analyzer/internal/adapter/feishu"
	"github-portfolio-analyzer/internal/adapter/github"
	"github-portfolio-analyzer/internal/analyzer"
	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/config"
	"github-portfolio-analyzer/internal/domain"
	"github-portfolio-analyzer/internal/render"
	"github-portfolio-analyzer/internal/service"

	"github.com/spf13/cobra"
)

// 输出格式
const (
	formatJSON    = "json"
	formatSummary = "summary"
	formatPlan    = "plan"
	formatBullets = "bullets"
	formatText    = "text"
)

// 单次分析的总超时
const analyzeTimeout = 5 * time.Minute

var (
	outputFormat string
	noCache      bool
	notify       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <username or profile URL>",
	Short: "Analyze a GitHub profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case formatJSON, formatSummary, formatPlan, formatBullets, formatText:
		default:
			return fmt.Errorf("unknown format %q (json|summary|plan|bullets|text)", outputFormat)
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.LogLevel, verbose)
		logger.SetOutput(cmd.ErrOrStderr())

		// 设置信号处理，Ctrl+C 取消本次分析
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
		defer cancel()

		store, storeCloser, err := openCache(cfg, logger)
		if err != nil {
			return fmt.Errorf("缓存初始化失败: %w", err)
		}
		defer storeCloser.Close()

		// 评估和评分共用一个时钟
		clock := time.Now
		evaluator, evalCloser, err := buildEvaluator(ctx, cfg, logger, clock)
		if err != nil {
			return err
		}
		defer evalCloser.Close()

		fetcher := github.NewFetcher(cfg.GitHubToken,
			github.WithLogger(logger),
			github.WithRateLimit(cfg.FetchRatePerSecond),
		)
		svc := service.NewAnalysisService(fetcher, store, evaluator, logger, service.Options{
			TTL:         cfg.CacheTTL(),
			Concurrency: cfg.FetchConcurrency,
			SkipCache:   noCache,
			NowFunc:     clock,
		})

		stderr := cmd.ErrOrStderr()
		fmt.Fprintf(stderr, "🔍 正在分析 %s ...\n", args[0])
		report, err := svc.AnalyzeProfile(ctx, args[0])
		if err != nil {
			var noRepos *domain.NoRepositoriesError
			if errors.As(err, &noRepos) {
				fmt.Fprintf(stderr, "👤 %s | 👥 %d followers\n", noRepos.Profile.DisplayName(), noRepos.Profile.Followers)
			}
			return errors.New(common.UserMessage(err))
		}
		fmt.Fprintf(stderr, "✅ 分析完成: %.1f/100 (%s)\n", report.ScoreSummary.TotalScore, report.ScoreSummary.RecruiterVerdict.Verdict)

		if notify {
			notifier := feishu.NewNotifier(cfg.FeishuWebhook, logger)
			if err := notifier.Notify(ctx, report); err != nil {
				fmt.Fprintf(stderr, "⚠️ 推送飞书失败: %v\n", err)
			} else {
				fmt.Fprintln(stderr, "📲 已推送到飞书")
			}
		}

		return writeReport(cmd.OutOrStdout(), outputFormat, report)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", formatJSON, "output format: json|summary|plan|bullets|text")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore cached reports")
	analyzeCmd.Flags().BoolVar(&notify, "notify", false, "post the result to the Feishu webhook")
}

// writeReport 按格式输出报告
func writeReport(w io.Writer, format string, report *domain.Report) error {
	switch format {
	case formatSummary:
		_, err := io.WriteString(w, render.SummaryMarkdown(report))
		return err
	case formatPlan:
		_, err := io.WriteString(w, render.ImprovementPlan(report, service.GenerateActionableImprovements(report)))
		return err
	case formatBullets:
		_, err := io.WriteString(w, render.ResumeBullets(service.GenerateResumeBullets(report)))
		return err
	case formatText:
		text := analyzer.ActivitySummary(report.Activity.Commitment, report.Activity.Consistency) + "\n\n" +
			analyzer.ImpactSummary(report.Impact.Analysis, report.Impact.Market) + "\n"
		_, err := io.WriteString(w, text)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(report)
	}
}
