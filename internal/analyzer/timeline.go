package analyzer

import (
	"time"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// DefaultTimelineDays is the trailing window length, inclusive of today.
const DefaultTimelineDays = 20

// Timeline buckets commits into a trailing window of calendar days. Day
// attribution compares local calendar dates, not UTC day boundaries. A
// non-positive days falls back to DefaultTimelineDays.
func (e *Engine) Timeline(commits []models.CommitRecord, days int) []models.TimelineDay {
	if days <= 0 {
		days = DefaultTimelineDays
	}
	end := e.now()

	timeline := make([]models.TimelineDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)

		count := 0
		lines := 0
		for _, c := range commits {
			if sameLocalDay(c.Date, day) {
				count++
				lines += c.Additions + c.Deletions
			}
		}

		timeline = append(timeline, models.TimelineDay{
			Date:         day.Format("Jan 2"),
			Commits:      count,
			LinesChanged: lines,
			Activity:     activityTier(count),
		})
	}
	return timeline
}

// activityTier is a pure function of the commit count: >=10 very-high, >=5
// high, >=2 medium, >=1 low, else none.
func activityTier(commits int) models.ActivityTier {
	switch {
	case commits >= 10:
		return models.ActivityVeryHigh
	case commits >= 5:
		return models.ActivityHigh
	case commits >= 2:
		return models.ActivityMedium
	case commits >= 1:
		return models.ActivityLow
	default:
		return models.ActivityNone
	}
}

func sameLocalDay(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}
