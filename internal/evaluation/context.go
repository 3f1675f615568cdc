package evaluation

import (
	"fmt"
	"strings"
)

// MaxContextRepos 上下文里最多列出的仓库数
const MaxContextRepos = 10

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// BuildContext 生成喂给大模型的资料摘要：资料字段 + 前 10 个仓库
func BuildContext(data ProfileData) string {
	p := data.Profile

	var b strings.Builder
	b.WriteString("GITHUB PROFILE SUMMARY:\n")
	fmt.Fprintf(&b, "User: %s\n", orDefault(p.Login, "Unknown"))
	fmt.Fprintf(&b, "Name: %s\n", orDefault(p.Name, "Not provided"))
	fmt.Fprintf(&b, "Bio: %s\n", orDefault(p.Bio, "Not provided"))
	fmt.Fprintf(&b, "Followers: %d\n", p.Followers)
	fmt.Fprintf(&b, "Public Repos: %d\n", p.PublicRepos)
	fmt.Fprintf(&b, "Company: %s\n", orDefault(p.Company, "Not specified"))
	b.WriteString("\nREPOSITORIES:\n")

	repos := data.Repos
	if len(repos) > MaxContextRepos {
		repos = repos[:MaxContextRepos]
	}
	for _, repo := range repos {
		fmt.Fprintf(&b, "- %s: %s (%s - %d stars)\n",
			repo.Name,
			orDefault(repo.Description, "No description"),
			orDefault(repo.Language, "Unknown"),
			repo.StargazersCount,
		)
	}
	return b.String()
}
