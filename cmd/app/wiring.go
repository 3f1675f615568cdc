package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github-portfolio-analyzer/internal/adapter/cache"
	"github-portfolio-analyzer/internal/adapter/gemini"
	"github-portfolio-analyzer/internal/adapter/repository"
	"github-portfolio-analyzer/internal/config"
	"github-portfolio-analyzer/internal/evaluation"
	"github-portfolio-analyzer/internal/port"

	"github.com/sirupsen/logrus"
)

// reportStore 同时支持读写和清理的缓存
type reportStore interface {
	port.ReportCache
	port.CachePurger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openCache 按配置选择缓存后端
func openCache(cfg *config.Config, logger *logrus.Logger) (reportStore, io.Closer, error) {
	switch cfg.CacheBackend() {
	case config.BackendPostgres:
		store, err := repository.NewPostgresCache(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using postgres report cache")
		return store, store, nil
	case config.BackendMemory:
		logger.Debug("using in-memory report cache")
		return cache.NewMemory(), nopCloser{}, nil
	default:
		store, err := repository.NewSQLiteCache(cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("path", cfg.CachePath).Debug("using sqlite report cache")
		return store, store, nil
	}
}

// buildEvaluator 配置了 Gemini key 时启用生成式评估，否则只用规则；
// now 需要与分析服务的时钟一致
func buildEvaluator(ctx context.Context, cfg *config.Config, logger *logrus.Logger, now func() time.Time) (evaluation.Evaluator, io.Closer, error) {
	if !cfg.GenerativeEnabled() {
		return evaluation.New(nil, nil, logger, now), nopCloser{}, nil
	}
	generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEmbeddingModel)
	if err != nil {
		return nil, nil, fmt.Errorf("AI 初始化失败: %w", err)
	}
	logger.WithField("model", cfg.GeminiModel).Debug("generative evaluation enabled")
	return evaluation.New(generator, generator, logger, now), generator, nil
}
