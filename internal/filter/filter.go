package filter

import (
	"time"

	"github-portfolio-analyzer/internal/domain"
)

// 时效窗口
const (
	RecentActivityDays = 30
	StaleAfterDays     = 180
)

// RepoFilter 按推送时间、README、主页等条件筛选仓库
type RepoFilter struct {
	nowFunc func() time.Time
}

// NewRepoFilter 创建新的过滤器实例
func NewRepoFilter() *RepoFilter {
	return &RepoFilter{
		nowFunc: time.Now,
	}
}

// NewRepoFilterAt returns a filter whose clock is fixed by now.
func NewRepoFilterAt(now func() time.Time) *RepoFilter {
	return &RepoFilter{nowFunc: now}
}

func (f *RepoFilter) now() time.Time {
	if f != nil && f.nowFunc != nil {
		return f.nowFunc()
	}
	return time.Now()
}

// IsPushedWithin 最近一次推送是否在窗口内；pushed_at 缺失或无法解析视为不在
func (f *RepoFilter) IsPushedWithin(repo domain.Repository, days int) bool {
	return domain.IsRecent(f.now(), repo.PushedAt, days)
}

// FilterByPushedWithin 保留窗口内有推送的仓库
func (f *RepoFilter) FilterByPushedWithin(repos []domain.Repository, days int) []domain.Repository {
	filtered := []domain.Repository{}
	for _, repo := range repos {
		if f.IsPushedWithin(repo, days) {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// FilterStale 保留窗口内没有推送的仓库
func (f *RepoFilter) FilterStale(repos []domain.Repository, days int) []domain.Repository {
	filtered := []domain.Repository{}
	for _, repo := range repos {
		if !f.IsPushedWithin(repo, days) {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// AnyPushedWithin reports whether at least one repository was pushed inside the window.
func (f *RepoFilter) AnyPushedWithin(repos []domain.Repository, days int) bool {
	for _, repo := range repos {
		if f.IsPushedWithin(repo, days) {
			return true
		}
	}
	return false
}

// FilterForks 只保留 fork 出来的仓库
func FilterForks(repos []domain.Repository) []domain.Repository {
	filtered := []domain.Repository{}
	for _, repo := range repos {
		if repo.IsFork {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// AnyHomepage reports whether any repository links a homepage.
func AnyHomepage(repos []domain.Repository) bool {
	for _, repo := range repos {
		if repo.Homepage != "" {
			return true
		}
	}
	return false
}

// CountReadmes 非空 README 的数量
func CountReadmes(readmes map[string]string) int {
	n := 0
	for _, text := range readmes {
		if text != "" {
			n++
		}
	}
	return n
}
