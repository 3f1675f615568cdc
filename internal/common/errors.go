package common

import (
	"errors"
	"fmt"
	"time"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorCode 实现 coder 接口
func (e *AppError) ErrorCode() string {
	return e.Code
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// 错误码常量
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeNoRepositories      = "NO_REPOSITORIES"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeDatabase            = "DATABASE_ERROR"
	ErrCodeAIProcessing        = "AI_PROCESSING_ERROR"
	ErrCodeNotification        = "NOTIFICATION_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// maxUpstreamMessage 上游错误文本最多保留的字符数
const maxUpstreamMessage = 200

// RateLimitError GitHub 限流，ResetAt 为零值表示上游没有给出恢复时间
type RateLimitError struct {
	ResetAt       time.Time
	Authenticated bool
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "GitHub API rate limit exceeded"
	}
	return fmt.Sprintf("GitHub API rate limit exceeded, resets at %s", e.ResetAt.UTC().Format(time.RFC3339))
}

func (e *RateLimitError) ErrorCode() string {
	return ErrCodeRateLimited
}

// Upstream wraps a transport or server failure. The opaque upstream text is
// truncated so it can be shown to a user as is.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	msg := []rune(err.Error())
	if len(msg) > maxUpstreamMessage {
		msg = append(msg[:maxUpstreamMessage], []rune("...")...)
	}
	return &AppError{Code: ErrCodeUpstreamUnavailable, Message: string(msg), Err: err}
}

type coder interface {
	ErrorCode() string
}

// Code returns the taxonomy code of err, INTERNAL_ERROR when err carries none
// and "" for a nil error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ErrCodeInternal
}

// IsRetryable reports whether err is worth another attempt. Only upstream
// transport failures and unclassified errors are retried.
func IsRetryable(err error) bool {
	switch Code(err) {
	case ErrCodeUpstreamUnavailable, ErrCodeInternal:
		return true
	}
	return false
}

// UserMessage renders err as the single line shown to an end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		msg := "GitHub API rate limit reached."
		if !rl.ResetAt.IsZero() {
			msg += fmt.Sprintf(" Try again after %s.", rl.ResetAt.UTC().Format(time.RFC3339))
		}
		if !rl.Authenticated {
			msg += " Configure GITHUB_TOKEN to raise the limit."
		}
		return msg
	}

	var app *AppError
	if errors.As(err, &app) {
		switch app.Code {
		case ErrCodeInvalidInput:
			return "Invalid GitHub username or profile URL: " + app.Message
		case ErrCodeNotFound:
			return "GitHub user not found: " + app.Message
		case ErrCodeUpstreamUnavailable:
			return "GitHub is unavailable right now: " + app.Message
		}
		return app.Message
	}

	switch Code(err) {
	case ErrCodeNoRepositories:
		return err.Error() + ". Publish a project to get a portfolio score."
	}
	return err.Error()
}
