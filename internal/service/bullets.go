package service

import (
	"fmt"

	"github-portfolio-analyzer/internal/domain"
)

// GenerateResumeBullets 从报告中提炼简历要点，最多 5 条
func GenerateResumeBullets(report *domain.Report) []string {
	bullets := []string{}

	high := report.Impact.Analysis.HighImpactRepos
	for _, repo := range high[:min(len(high), 2)] {
		bullets = append(bullets, fmt.Sprintf("Built %s with %d GitHub stars", repo.Name, repo.Stars))
	}

	if stars := report.TotalStars(); stars > 10 {
		bullets = append(bullets, fmt.Sprintf("Created 10+ repositories with %d combined GitHub stars", stars))
	}

	if commits := report.Activity.Commitment.TotalCommits; commits > 100 {
		bullets = append(bullets, fmt.Sprintf("Made %d+ commits across open-source projects demonstrating consistent contribution", commits))
	}

	if langs := len(report.Languages()); langs >= 3 {
		bullets = append(bullets, fmt.Sprintf("Proficient in %d programming languages and frameworks", langs))
	}

	if business := report.Impact.Analysis.BusinessRelevant; len(business) > 0 {
		bullets = append(bullets, fmt.Sprintf("Developed %d production-ready applications with market relevance", len(business)))
	}

	if followers := report.Profile.Followers; followers > 10 {
		bullets = append(bullets, fmt.Sprintf("Followed by %d developers on GitHub for technical contributions", followers))
	}

	return bullets[:min(len(bullets), MaxResumeBullets)]
}
