package domain

import (
	"strings"
	"time"
)

// Profile 代表一个 GitHub 用户的公开资料 (抓取后只读)
type Profile struct {
	Login           string `json:"login"`
	Name            string `json:"name"`
	Bio             string `json:"bio"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Email           string `json:"email"`
	Blog            string `json:"blog"`
	TwitterUsername string `json:"twitter_username"`
	PublicRepos     int    `json:"public_repos"`
	PublicGists     int    `json:"public_gists"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// DisplayName 优先使用真实姓名，没有则回退到 login
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// Repository 代表用户名下的一个公开仓库
type Repository struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"` // 在 owner 下唯一，例如 "hugo"
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	URL             string   `json:"url"`
	Homepage        string   `json:"homepage"`
	Topics          []string `json:"topics"`
	Language        string   `json:"language"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	WatchersCount   int      `json:"watchers_count"`
	Size            int      `json:"size"` // KB
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
	OpenIssuesCount int      `json:"open_issues_count"`
	DefaultBranch   string   `json:"default_branch"`
	IsFork          bool     `json:"is_fork"`
}

// SearchText returns the lowercased description and topics, the text every
// keyword heuristic matches against.
func (r *Repository) SearchText() string {
	return strings.ToLower(r.Description + " " + strings.Join(r.Topics, " "))
}

// Commit 是仓库的一条历史提交，只读
type Commit struct {
	SHA         string `json:"sha"`
	Message     string `json:"message"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
	Date        string `json:"date"` // RFC 3339, 原样保存
	URL         string `json:"url"`
}

// Snapshot is everything fetched for one analysis: the fixed input of every scorer.
type Snapshot struct {
	Profile       Profile
	Repos         []Repository
	Readmes       map[string]string   // repo name -> raw README text
	CommitsByRepo map[string][]Commit // repo name -> commits, repos without commits are absent
}

// ParseTimestamp parses an RFC 3339 timestamp into UTC. The second return value
// is false for empty or malformed input; callers leave such values out of
// every aggregate.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// WithinDays reports whether t falls inside the trailing window of the given
// number of days ending at now. The cutoff instant itself is inside the window.
func WithinDays(now, t time.Time, days int) bool {
	cutoff := now.UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return !t.UTC().Before(cutoff)
}

// IsRecent reports whether the timestamp string parses and lies within the window.
func IsRecent(now time.Time, timestamp string, days int) bool {
	t, ok := ParseTimestamp(timestamp)
	if !ok {
		return false
	}
	return WithinDays(now, t, days)
}

// WholeDays is the number of complete 24h periods in d, floored toward zero.
func WholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
