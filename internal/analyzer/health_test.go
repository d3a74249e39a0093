package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

func TestHealthMetricsTechnicalDebt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewWithClock(func() time.Time { return now })

	first := now.Add(-10 * 24 * time.Hour)
	commits := []models.CommitRecord{{
		SHA: "big", Message: "rewrite storage layer", Author: "Ada", Email: "ada@example.com",
		Date: first, Additions: 600, Deletions: 0, ChangedFiles: 12, DetailFetched: true,
	}}
	for i := 1; i < 10; i++ {
		commits = append(commits, models.CommitRecord{
			SHA: string(rune('a' + i)), Message: "add widget", Author: "Ada", Email: "ada@example.com",
			Date: first.Add(time.Duration(i) * 12 * time.Hour), Additions: 10, ChangedFiles: 1, DetailFetched: true,
		})
	}

	got := e.HealthMetrics(commits)

	assert.Equal(t, 10, got.TechnicalDebt)
	assert.Equal(t, 10, got.TotalCommits)
	assert.Equal(t, 1, got.ActiveContributors)
	assert.Equal(t, 100, got.InnovationRatio)
	// 690 changed lines over exactly 10 days.
	assert.Equal(t, "69 lines/day", got.CodeVelocity)
	// deployment 10 + activity 15 + quality 90 = 115/3
	assert.Equal(t, 38, got.OverallScore)
	assert.Equal(t, models.HealthPoor, got.Status)
}

func TestHealthMetricsInnovationExcludesPatch(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewWithClock(func() time.Time { return now })

	commits := []models.CommitRecord{
		{Message: "patch dependency versions", Author: "A", Email: "a@x", Date: now.Add(-48 * time.Hour), ChangedFiles: 1},
		{Message: "fix race condition", Author: "A", Email: "a@x", Date: now.Add(-24 * time.Hour), ChangedFiles: 1},
	}

	got := e.HealthMetrics(commits)

	// "patch" flags a DORA failure but is not a fix keyword here, so one of
	// the two commits still counts as innovation.
	assert.Equal(t, 50, got.InnovationRatio)
}

func TestHealthMetricsContributorIdentity(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewWithClock(func() time.Time { return now })

	commits := []models.CommitRecord{
		{Message: "a", Author: "Ada", Email: "ada@example.com", Date: now.Add(-3 * time.Hour), ChangedFiles: 1},
		{Message: "b", Author: "Ada", Email: "ada@work.example", Date: now.Add(-2 * time.Hour), ChangedFiles: 1},
		{Message: "c", Author: "Ada", Email: "ada@example.com", Date: now.Add(-time.Hour), ChangedFiles: 1},
	}

	// Same name under two emails counts as two identities.
	assert.Equal(t, 2, e.HealthMetrics(commits).ActiveContributors)
}

func TestHealthMetricsEmpty(t *testing.T) {
	got := fixedEngine().HealthMetrics(nil)

	assert.Equal(t, 0, got.TotalCommits)
	assert.Equal(t, "No activity", got.LastActivity)
	assert.Equal(t, "0 lines/day", got.CodeVelocity)
	// quality sub-score alone: (0 + 0 + 100) / 3
	assert.Equal(t, 33, got.OverallScore)
	assert.Equal(t, models.HealthPoor, got.Status)
}

func TestHealthMetricsLastActivity(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewWithClock(func() time.Time { return now })

	tests := []struct {
		name     string
		last     time.Time
		expected string
	}{
		{"minutes ago", now.Add(-30 * time.Minute), "Less than an hour ago"},
		{"hours ago", now.Add(-5 * time.Hour), "5 hours ago"},
		{"one day ago", now.Add(-26 * time.Hour), "1 day ago"},
		{"days ago", now.Add(-6 * 24 * time.Hour), "6 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits := []models.CommitRecord{{Message: "x", Author: "A", Email: "a@x", Date: tt.last, ChangedFiles: 1}}
			assert.Equal(t, tt.expected, e.HealthMetrics(commits).LastActivity)
		})
	}
}

func TestUserHealthMetricsDistinctWeighting(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewWithClock(func() time.Time { return now })

	commits := make([]models.CommitRecord, 0, 20)
	for i := 0; i < 20; i++ {
		commits = append(commits, models.CommitRecord{
			Message: "work", Author: "Ada", Email: "ada@example.com",
			Date: now.Add(-time.Duration(i+1) * 24 * time.Hour), ChangedFiles: 1,
		})
	}
	repos := make([]models.Repository, 4)

	repoGot := e.HealthMetrics(commits)
	userGot := e.UserHealthMetrics(commits, repos)

	// repository: (min(100,20) + 15 + 100) / 3 = 45
	assert.Equal(t, 45, repoGot.OverallScore)
	// user: (repos 40 + activity 20/10*5=10 + diversity 20 + quality 100) / 4
	assert.Equal(t, 43, userGot.OverallScore)
}
