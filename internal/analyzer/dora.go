package analyzer

import (
	"fmt"
	"math"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// failureKeywords flags a commit as failure-related for change-failure-rate
// and recovery-time purposes. This set includes "patch"; the innovation set
// in health.go does not. The asymmetry is intentional, do not unify.
var failureKeywords = []string{"fix", "bug", "error", "revert", "hotfix", "patch"}

// DoraMetrics approximates the four DORA indicators from commit metadata
// alone. An empty list yields the fixed degraded bundle: zero frequency,
// "No data" spans, and a 0% failure rate scored 100 (no data reads as no
// failures, not as unknown).
func (e *Engine) DoraMetrics(commits []models.CommitRecord) models.DoraMetrics {
	if len(commits) == 0 {
		return models.DoraMetrics{
			DeploymentFrequency: models.DoraMetric{Value: "0 commits/day", Score: 0, Rating: models.RatingLow},
			LeadTime:            models.DoraMetric{Value: "No data", Score: 0, Rating: models.RatingLow},
			ChangeFailureRate:   models.DoraMetric{Value: "0%", Score: 100, Rating: models.RatingElite},
			RecoveryTime:        models.DoraMetric{Value: "No data", Score: 0, Rating: models.RatingLow},
			OverallScore:        0,
			OverallRating:       models.RatingLow,
		}
	}

	sorted := sortedByDate(commits)

	deploymentFrequency := deploymentFrequencyMetric(sorted)
	leadTime := leadTimeMetric(sorted)
	changeFailure := changeFailureMetric(sorted)
	recovery := recoveryTimeMetric(sorted)

	overall := int(math.Round((deploymentFrequency.Score + leadTime.Score + changeFailure.Score + recovery.Score) / 4))

	return models.DoraMetrics{
		DeploymentFrequency: deploymentFrequency,
		LeadTime:            leadTime,
		ChangeFailureRate:   changeFailure,
		RecoveryTime:        recovery,
		OverallScore:        overall,
		OverallRating:       ratingForScore(overall),
	}
}

// deploymentFrequencyMetric is commits per day over the commit span, with the
// span clamped to a minimum of one day so single-day histories are not
// overstated.
func deploymentFrequencyMetric(sorted []models.CommitRecord) models.DoraMetric {
	first := sorted[0].Date
	last := sorted[len(sorted)-1].Date

	days := last.Sub(first).Hours() / 24
	if days < 1 {
		days = 1
	}
	perDay := float64(len(sorted)) / days

	var rating models.Rating
	switch {
	case perDay > 1:
		rating = models.RatingElite
	case perDay > 0.5:
		rating = models.RatingHigh
	case perDay > 0.1:
		rating = models.RatingMedium
	default:
		rating = models.RatingLow
	}

	return models.DoraMetric{
		Value:  fmt.Sprintf("%.1f commits/day", perDay),
		Score:  math.Min(100, perDay*20),
		Rating: rating,
	}
}

// leadTimeMetric is the mean inter-commit interval.
func leadTimeMetric(sorted []models.CommitRecord) models.DoraMetric {
	var total float64
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Date.Sub(sorted[i-1].Date).Hours()
	}

	intervals := len(sorted) - 1
	if intervals < 1 {
		intervals = 1
	}
	avgHours := total / float64(intervals)

	return models.DoraMetric{
		Value:  formatSpan(avgHours),
		Score:  math.Max(0, 100-avgHours),
		Rating: rateSpan(avgHours),
	}
}

// changeFailureMetric is the share of commits whose message carries a
// failure keyword.
func changeFailureMetric(commits []models.CommitRecord) models.DoraMetric {
	failures := 0
	for _, c := range commits {
		if messageContainsAny(c.Message, failureKeywords) {
			failures++
		}
	}
	rate := float64(failures) / float64(len(commits)) * 100

	var rating models.Rating
	switch {
	case rate < 15:
		rating = models.RatingElite
	case rate < 20:
		rating = models.RatingHigh
	case rate < 30:
		rating = models.RatingMedium
	default:
		rating = models.RatingLow
	}

	return models.DoraMetric{
		Value:  fmt.Sprintf("%.1f%%", rate),
		Score:  math.Max(0, 100-rate*2),
		Rating: rating,
	}
}

// recoveryTimeMetric averages the gaps between consecutive failure-flagged
// commits. Zero qualifying pairs is a neutral default (score 50, medium),
// not a penalty.
func recoveryTimeMetric(sorted []models.CommitRecord) models.DoraMetric {
	var failures []models.CommitRecord
	for _, c := range sorted {
		if messageContainsAny(c.Message, failureKeywords) {
			failures = append(failures, c)
		}
	}

	var gaps []float64
	for i := 0; i < len(failures)-1; i++ {
		gap := failures[i+1].Date.Sub(failures[i].Date)
		if gap > 0 {
			gaps = append(gaps, gap.Hours())
		}
	}

	if len(gaps) == 0 {
		return models.DoraMetric{Value: "No data", Score: 50, Rating: models.RatingMedium}
	}

	var total float64
	for _, g := range gaps {
		total += g
	}
	avgHours := total / float64(len(gaps))

	return models.DoraMetric{
		Value:  formatSpan(avgHours),
		Score:  math.Max(0, 100-avgHours),
		Rating: rateSpan(avgHours),
	}
}
