package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github-portfolio-analyzer/internal/adapter/github"
	"github-portfolio-analyzer/internal/analyzer"
	"github-portfolio-analyzer/internal/config"
	"github-portfolio-analyzer/internal/filter"
	"github-portfolio-analyzer/internal/service"
)

type repoLine struct {
	name      string
	score     int
	stars     int
	hasReadme bool
	deployed  bool
	recent    bool
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("用法: debug <username or profile URL>")
		os.Exit(2)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel, true)

	username, err := service.ExtractUsername(os.Args[1])
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fetcher := github.NewFetcher(cfg.GitHubToken, github.WithLogger(logger), github.WithRateLimit(cfg.FetchRatePerSecond))

	fmt.Printf("🔍 调试模式：逐个仓库计算影响力 (%s)\n", username)

	// 1. 拉取仓库
	repos, err := fetcher.FetchRepositories(ctx, username)
	if err != nil {
		log.Fatalf("❌ 获取仓库失败: %v", err)
	}
	fmt.Printf("✅ 成功获取 %d 个仓库\n", len(repos))
	if len(repos) == 0 {
		return
	}

	// 2. 逐个抓 README 并打分，不走缓存和评估
	repoFilter := filter.NewRepoFilter()
	lines := make([]repoLine, 0, len(repos))
	for _, repo := range repos {
		readme, err := fetcher.FetchReadme(ctx, username, repo.Name)
		if err != nil {
			log.Printf("    ⚠️ %s README 获取失败: %v", repo.Name, err)
		}
		lines = append(lines, repoLine{
			name:      repo.Name,
			score:     analyzer.RepoImpactScore(repo, readme),
			stars:     repo.StargazersCount,
			hasReadme: readme != "",
			deployed:  analyzer.HasDeploymentSignal(repo, readme),
			recent:    repoFilter.IsPushedWithin(repo, filter.RecentActivityDays),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].score > lines[j].score })

	// 3. 打印结果
	fmt.Println("\n================ [ 仓库影响力 ] ================")
	for i, l := range lines {
		fmt.Printf("%2d. %-30s 影响力: %3d  ⭐ %d  README: %v  上线: %v  近30天推送: %v\n",
			i+1, l.name, l.score, l.stars, l.hasReadme, l.deployed, l.recent)
	}
	fmt.Println("================================================")

	market := analyzer.AnalyzeMarketFit(repos)
	fmt.Printf("🎯 主要方向: %s (深度 %d, 覆盖 %d 个方向)\n", market.PrimaryMarket, market.MarketDepth, market.MarketDiversity)
}
