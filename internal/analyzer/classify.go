package analyzer

import (
	"github.com/gitgauge/gitgauge-go/internal/models"
)

// Keyword sets for work classification, tested in priority order per commit.
// Innovation is the default bucket when nothing matches, not a positive
// detection.
var (
	bugFixKeywords        = []string{"fix", "bug", "error"}
	maintenanceKeywords   = []string{"refactor", "cleanup", "optimize"}
	documentationKeywords = []string{"doc", "readme", "comment"}
)

// WorkClassification classifies each commit message into one of four work
// categories with a single priority-ordered keyword scan, then converts the
// counts to independently rounded percentages.
func (e *Engine) WorkClassification(commits []models.CommitRecord) models.WorkClassification {
	if len(commits) == 0 {
		return models.WorkClassification{}
	}

	var bugFixes, maintenance, documentation, innovation int
	for _, c := range commits {
		switch {
		case messageContainsAny(c.Message, bugFixKeywords):
			bugFixes++
		case messageContainsAny(c.Message, maintenanceKeywords):
			maintenance++
		case messageContainsAny(c.Message, documentationKeywords):
			documentation++
		default:
			innovation++
		}
	}

	total := len(commits)
	return models.WorkClassification{
		Innovation:    roundPct(innovation, total),
		BugFixes:      roundPct(bugFixes, total),
		Maintenance:   roundPct(maintenance, total),
		Documentation: roundPct(documentation, total),
	}
}
