// Package analyzer implements the metrics-derivation engine: stateless
// transformations from a normalized commit list (plus repository/user
// metadata) into DORA metrics, health scores, contributor rankings, activity
// timelines and work classification.
package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// Engine computes derived metrics. All methods are pure given the injected
// clock; feeding the same commit list twice yields identical output.
type Engine struct {
	now func() time.Time
}

// New creates an engine on the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock creates an engine with a fixed clock, for deterministic tests
// of any time-relative output (timeline window, lastActivity, account age).
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// sortedByDate returns a copy of commits ordered by author date ascending.
// Temporal calculations must never assume input order.
func sortedByDate(commits []models.CommitRecord) []models.CommitRecord {
	out := make([]models.CommitRecord, len(commits))
	copy(out, commits)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// messageContainsAny reports whether the lowercased message contains any of
// the keywords. Keywords are assumed lowercase.
func messageContainsAny(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// formatSpan renders an hour count as minutes, hours or days. The 24-hour
// point is inclusive on the hours band, so exactly one day reads
// "24.0 hours".
func formatSpan(hours float64) string {
	switch {
	case hours < 1:
		return fmt.Sprintf("%d minutes", int(math.Round(hours*60)))
	case hours <= 24:
		return fmt.Sprintf("%.1f hours", hours)
	default:
		return fmt.Sprintf("%.1f days", hours/24)
	}
}

// rateSpan rates an hour count on the lead-time ladder. Mirrors formatSpan's
// inclusive 24-hour boundary.
func rateSpan(hours float64) models.Rating {
	switch {
	case hours < 1:
		return models.RatingElite
	case hours <= 24:
		return models.RatingHigh
	case hours < 168:
		return models.RatingMedium
	default:
		return models.RatingLow
	}
}

// ratingForScore maps an overall score to a rating on the 90/70/50 ladder.
func ratingForScore(score int) models.Rating {
	switch {
	case score >= 90:
		return models.RatingElite
	case score >= 70:
		return models.RatingHigh
	case score >= 50:
		return models.RatingMedium
	default:
		return models.RatingLow
	}
}

// statusForScore maps a health score to a status on the 90/70/50 ladder.
func statusForScore(score int) models.HealthStatus {
	switch {
	case score >= 90:
		return models.HealthExcellent
	case score >= 70:
		return models.HealthGood
	case score >= 50:
		return models.HealthFair
	default:
		return models.HealthPoor
	}
}

// formatTimeAgo renders a relative-time display string for the most recent
// commit.
func formatTimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case hours < 1:
		return "Less than an hour ago"
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "1 day ago"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("1/2/2006")
	}
}

// roundPct converts a count/total ratio into a rounded percentage.
func roundPct(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
