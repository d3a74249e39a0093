package analyzer

import (
	"fmt"
	"math"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// innovationKeywords flags a commit as fix-related when computing the
// innovation ratio. Narrower than failureKeywords (no "patch") - keep the
// two sets distinct.
var innovationKeywords = []string{"fix", "bug", "error", "revert", "hotfix"}

// largeCommitLines is the additions+deletions threshold past which a commit
// counts toward technical debt.
const largeCommitLines = 500

// HealthMetrics scores a single repository's commit health.
func (e *Engine) HealthMetrics(commits []models.CommitRecord) models.HealthMetrics {
	base := e.healthBase(commits)

	deploymentScore := math.Min(100, float64(base.totalCommits))
	activityScore := math.Min(100, float64(base.contributors)*15)
	qualityScore := math.Max(0, float64(100-base.technicalDebt))
	overall := int(math.Round((deploymentScore + activityScore + qualityScore) / 3))

	return base.build(overall)
}

// UserHealthMetrics scores a user's merged commit stream. The weighting
// differs from the single-repository score (repository count and contributor
// diversity matter, raw commit volume matters less); it is a separate
// function so repository-mode scoring cannot drift by accident.
func (e *Engine) UserHealthMetrics(commits []models.CommitRecord, repos []models.Repository) models.HealthMetrics {
	base := e.healthBase(commits)

	repositoryScore := math.Min(100, float64(len(repos))*10)
	activityScore := math.Min(100, float64(base.totalCommits)/10*5)
	diversityScore := math.Min(100, float64(base.contributors)*20)
	qualityScore := math.Max(0, float64(100-base.technicalDebt))
	overall := int(math.Round((repositoryScore + activityScore + diversityScore + qualityScore) / 4))

	return base.build(overall)
}

// healthFacts carries the sub-metrics shared by both health variants.
type healthFacts struct {
	totalCommits  int
	filesChanged  int
	contributors  int
	linesPerDay   int
	innovation    int
	technicalDebt int
	lastActivity  string
}

func (f healthFacts) build(overall int) models.HealthMetrics {
	return models.HealthMetrics{
		OverallScore:       overall,
		Status:             statusForScore(overall),
		TotalCommits:       f.totalCommits,
		FilesChanged:       f.filesChanged,
		ActiveContributors: f.contributors,
		CodeVelocity:       fmt.Sprintf("%d lines/day", f.linesPerDay),
		InnovationRatio:    f.innovation,
		TechnicalDebt:      f.technicalDebt,
		LastActivity:       f.lastActivity,
	}
}

func (e *Engine) healthBase(commits []models.CommitRecord) healthFacts {
	now := e.now()
	total := len(commits)

	filesChanged := 0
	totalLines := 0
	innovation := 0
	large := 0
	identities := make(map[string]struct{})

	for _, c := range commits {
		filesChanged += c.ChangedFiles
		totalLines += c.Additions + c.Deletions
		identities[c.Author+c.Email] = struct{}{}
		if !messageContainsAny(c.Message, innovationKeywords) {
			innovation++
		}
		if c.Additions+c.Deletions > largeCommitLines {
			large++
		}
	}

	facts := healthFacts{
		totalCommits:  total,
		filesChanged:  filesChanged,
		contributors:  len(identities),
		innovation:    roundPct(innovation, max(1, total)),
		technicalDebt: roundPct(large, max(1, total)),
		lastActivity:  "No activity",
	}

	if total > 0 {
		sorted := sortedByDate(commits)
		daysSinceFirst := now.Sub(sorted[0].Date).Hours() / 24
		if daysSinceFirst < 1 {
			daysSinceFirst = 1
		}
		facts.linesPerDay = int(math.Round(float64(totalLines) / daysSinceFirst))
		facts.lastActivity = formatTimeAgo(sorted[total-1].Date, now)
	}

	return facts
}
