package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

func TestActivityTierLadder(t *testing.T) {
	tests := []struct {
		commits  int
		expected models.ActivityTier
	}{
		{0, models.ActivityNone},
		{1, models.ActivityLow},
		{2, models.ActivityMedium},
		{4, models.ActivityMedium},
		{5, models.ActivityHigh},
		{9, models.ActivityHigh},
		{10, models.ActivityVeryHigh},
		{37, models.ActivityVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, activityTier(tt.commits), "commits=%d", tt.commits)
	}
}

func TestTimelineWindowAndBuckets(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, time.Local)
	e := NewWithClock(func() time.Time { return now })

	commits := []models.CommitRecord{
		// Same local calendar day as "today", late evening.
		{Message: "a", Date: time.Date(2024, 3, 20, 23, 30, 0, 0, time.Local), Additions: 5, Deletions: 2, ChangedFiles: 1},
		{Message: "b", Date: time.Date(2024, 3, 20, 0, 15, 0, 0, time.Local), Additions: 1, ChangedFiles: 1},
		// Oldest day still inside the 20-day window.
		{Message: "c", Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local), Additions: 3, ChangedFiles: 1},
		// One day outside the window.
		{Message: "d", Date: time.Date(2024, 2, 29, 9, 0, 0, 0, time.Local), Additions: 100, ChangedFiles: 1},
	}

	got := e.Timeline(commits, 0)

	require.Len(t, got, DefaultTimelineDays)
	assert.Equal(t, "Mar 1", got[0].Date)
	assert.Equal(t, 1, got[0].Commits)
	assert.Equal(t, 3, got[0].LinesChanged)
	assert.Equal(t, models.ActivityLow, got[0].Activity)

	last := got[len(got)-1]
	assert.Equal(t, "Mar 20", last.Date)
	assert.Equal(t, 2, last.Commits)
	assert.Equal(t, 8, last.LinesChanged)
	assert.Equal(t, models.ActivityMedium, last.Activity)

	// Feb 29 commit never appears.
	total := 0
	for _, day := range got {
		total += day.Commits
	}
	assert.Equal(t, 3, total)
}

func TestTimelineEmptyCommits(t *testing.T) {
	got := fixedEngine().Timeline(nil, 5)

	require.Len(t, got, 5)
	for _, day := range got {
		assert.Zero(t, day.Commits)
		assert.Equal(t, models.ActivityNone, day.Activity)
	}
}
