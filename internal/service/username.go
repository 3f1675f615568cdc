package service

import (
	"regexp"
	"strings"

	"github-portfolio-analyzer/internal/common"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// 不是用户主页的 github.com 一级路径
var reservedPaths = map[string]struct{}{
	"join":          {},
	"login":         {},
	"settings":      {},
	"orgs":          {},
	"explore":       {},
	"topics":        {},
	"trending":      {},
	"marketplace":   {},
	"notifications": {},
}

// ExtractUsername 把用户名或主页 URL 规整成小写用户名
//
//	"octocat"                          -> "octocat"
//	"https://github.com/Octocat/hello" -> "octocat"
//	"github.com/octocat?tab=repos"     -> "octocat"
func ExtractUsername(input string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(input))
	if raw == "" {
		return "", common.NewError(common.ErrCodeInvalidInput, "empty username")
	}

	candidate := raw
	if idx := strings.Index(raw, "github.com/"); idx >= 0 {
		candidate = raw[idx+len("github.com/"):]
		candidate = strings.Trim(candidate, "/")
		if cut := strings.IndexAny(candidate, "/?#"); cut >= 0 {
			candidate = candidate[:cut]
		}
		if _, reserved := reservedPaths[candidate]; reserved {
			return "", common.NewError(common.ErrCodeInvalidInput, input)
		}
	} else if strings.Contains(raw, "://") || strings.Contains(raw, "github.com") {
		return "", common.NewError(common.ErrCodeInvalidInput, input)
	}

	if !usernamePattern.MatchString(candidate) {
		return "", common.NewError(common.ErrCodeInvalidInput, input)
	}
	return candidate, nil
}
