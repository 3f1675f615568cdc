package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RetryableFunc 一次可重试的操作，返回 nil 表示成功
type RetryableFunc func() error

// Config 重试策略：次数、指数退避参数、可重试判定和重试钩子
type Config struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retryIf      func(error) bool
	onRetry      func(attempt int, err error)
}

// Option 修改重试策略
type Option func(*Config)

// WithMaxRetries 首次调用之外最多重试 n 次，默认 3；负数忽略
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay 第一次重试前的等待，默认 1s
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay 单次等待上限，默认 30s
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier 每次重试等待时间的倍数，默认 2
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithRetryIf limits retries to errors for which fn returns true.
// A non-retryable error is returned immediately, unwrapped.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// WithOnRetry registers a hook called before each retry with the attempt
// number and the error that triggered it.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *Config) {
		c.onRetry = fn
	}
}

func newConfig(opts []Option) *Config {
	cfg := &Config{
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
		retryIf:      func(error) bool { return true },
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Do 调用 fn，失败时按指数退避重试，直到成功、次数用尽、遇到不可重试的错误或 ctx 结束
//
//	err := common.Do(ctx, func() error {
//	    return fetchProfile()
//	},
//	    common.WithMaxRetries(3),
//	    common.WithRetryIf(common.IsRetryable),
//	)
//
// 次数用尽时返回包装后的最后一个错误；ctx 结束时返回的错误可以用 errors.Is 匹配 ctx.Err()
func Do(ctx context.Context, fn RetryableFunc, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}
	cfg := newConfig(opts)

	err := fn()
	for attempt := 1; err != nil; attempt++ {
		if attempt > cfg.maxRetries {
			return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, err)
		}
		if !cfg.retryIf(err) {
			return err
		}
		if cfg.onRetry != nil {
			cfg.onRetry(attempt, err)
		}
		if waitErr := sleepCtx(ctx, calculateDelay(attempt, cfg.initialDelay, cfg.maxDelay, cfg.multiplier)); waitErr != nil {
			return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt, cfg.maxRetries, waitErr)
		}
		err = fn()
	}
	return nil
}

// sleepCtx 等待 d，ctx 先结束时返回 ctx.Err()
func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// calculateDelay initialDelay * multiplier^(attempt-1)，不超过 maxDelay
func calculateDelay(attempt int, initialDelay, maxDelay time.Duration, multiplier float64) time.Duration {
	delay := time.Duration(float64(initialDelay) * math.Pow(multiplier, float64(attempt-1)))
	return min(delay, maxDelay)
}
