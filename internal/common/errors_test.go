package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type codedErr struct{}

func (codedErr) Error() string     { return "no repos" }
func (codedErr) ErrorCode() string { return ErrCodeNoRepositories }

func TestAppError(t *testing.T) {
	inner := errors.New("boom")
	err := WrapError(ErrCodeDatabase, "保存失败", inner)

	assert.Equal(t, "[DATABASE_ERROR] 保存失败: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "[NOT_FOUND] ghost", NewError(ErrCodeNotFound, "ghost").Error())
}

func TestCode(t *testing.T) {
	assert.Equal(t, "", Code(nil))
	assert.Equal(t, ErrCodeInternal, Code(errors.New("plain")))
	assert.Equal(t, ErrCodeInvalidInput, Code(fmt.Errorf("wrap: %w", NewError(ErrCodeInvalidInput, "x"))))
	assert.Equal(t, ErrCodeRateLimited, Code(&RateLimitError{}))
	assert.Equal(t, ErrCodeNoRepositories, Code(codedErr{}))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Upstream(errors.New("timeout"))))
	assert.True(t, IsRetryable(errors.New("unknown")))
	assert.False(t, IsRetryable(&RateLimitError{}))
	assert.False(t, IsRetryable(NewError(ErrCodeNotFound, "ghost")))
}

func TestUpstream_TruncatesMessage(t *testing.T) {
	assert.Nil(t, Upstream(nil))

	long := errors.New(strings.Repeat("界", 300))
	var app *AppError
	assert.True(t, errors.As(Upstream(long), &app))
	assert.Equal(t, ErrCodeUpstreamUnavailable, app.Code)
	assert.Equal(t, 203, len([]rune(app.Message)))
	assert.ErrorIs(t, app, long)

	var short *AppError
	assert.True(t, errors.As(Upstream(errors.New("502 bad gateway")), &short))
	assert.Equal(t, "502 bad gateway", short.Message)
}

func TestUserMessage(t *testing.T) {
	reset := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		err      error
		contains []string
		excludes string
	}{
		{
			name:     "unauthenticated rate limit",
			err:      &RateLimitError{ResetAt: reset},
			contains: []string{"rate limit", "2024-01-01T12:00:00Z", "GITHUB_TOKEN"},
		},
		{
			name:     "authenticated rate limit",
			err:      &RateLimitError{Authenticated: true},
			contains: []string{"rate limit"},
			excludes: "GITHUB_TOKEN",
		},
		{
			name:     "invalid input",
			err:      NewError(ErrCodeInvalidInput, "bad/name"),
			contains: []string{"Invalid", "bad/name"},
		},
		{
			name:     "not found",
			err:      NewError(ErrCodeNotFound, "ghost"),
			contains: []string{"not found", "ghost"},
		},
		{
			name:     "no repositories",
			err:      codedErr{},
			contains: []string{"no repos", "Publish"},
		},
		{
			name:     "plain",
			err:      errors.New("something else"),
			contains: []string{"something else"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := UserMessage(tt.err)
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
			if tt.excludes != "" {
				assert.NotContains(t, msg, tt.excludes)
			}
		})
	}

	assert.Equal(t, "", UserMessage(nil))
}
