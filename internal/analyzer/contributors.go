package analyzer

import (
	"sort"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// maxContributors caps the leaderboard length.
const maxContributors = 10

// Contributors groups commits by the exact name+email identity key,
// accumulates per-contributor totals, and ranks by descending commit count.
// Ties keep first-seen order. Two people sharing a display name and email
// collide; one person with two emails fragments - that weakness is part of
// the contract.
func (e *Engine) Contributors(commits []models.CommitRecord) []models.Contributor {
	byKey := make(map[string]*models.Contributor)
	var order []string

	for _, c := range commits {
		key := c.Author + c.Email
		entry, ok := byKey[key]
		if !ok {
			entry = &models.Contributor{Name: c.Author, Email: c.Email}
			byKey[key] = entry
			order = append(order, key)
		}
		entry.Commits++
		entry.LinesAdded += c.Additions
		entry.LinesDeleted += c.Deletions
		entry.FilesChanged += c.ChangedFiles
	}

	contributors := make([]models.Contributor, 0, len(order))
	for _, key := range order {
		contributors = append(contributors, *byKey[key])
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Commits > contributors[j].Commits
	})

	for i := range contributors {
		contributors[i].Rank = i + 1
	}

	if len(contributors) > maxContributors {
		contributors = contributors[:maxContributors]
	}
	return contributors
}
