package ingestion

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
)

// fakeSource serves a synthetic commit history of totalCommits commits,
// newest first, and counts calls.
type fakeSource struct {
	totalCommits int
	listCalls    int
	detailCalls  int

	failDetailFor map[string]bool
	failListPage  int
	cancelAfter   int
	cancel        context.CancelFunc
}

func (f *fakeSource) ListCommitPage(ctx context.Context, owner, repo string, since time.Time, page, perPage int) ([]models.CommitRecord, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), errors.KindUnknown, "rate limiter")
	}
	f.listCalls++
	if f.failListPage > 0 && page == f.failListPage {
		return nil, errors.New(errors.KindRateLimited, "rate limit exceeded fetching commits")
	}

	start := (page - 1) * perPage
	var records []models.CommitRecord
	for i := start; i < start+perPage && i < f.totalCommits; i++ {
		records = append(records, models.CommitRecord{
			SHA:          fmt.Sprintf("sha-%04d", i),
			Message:      "commit",
			Author:       "Ada",
			Email:        "ada@example.com",
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
			ChangedFiles: 1,
		})
	}
	return records, nil
}

func (f *fakeSource) FetchCommitDetail(ctx context.Context, owner, repo, sha string) (int, int, int, error) {
	if ctx.Err() != nil {
		return 0, 0, 0, errors.Wrap(ctx.Err(), errors.KindUnknown, "rate limiter")
	}
	f.detailCalls++
	if f.failDetailFor[sha] {
		return 0, 0, 0, errors.New(errors.KindUnknown, "secondary rate limit")
	}
	if f.cancelAfter > 0 && f.detailCalls >= f.cancelAfter {
		f.cancel()
	}
	return 7, 3, 2, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestFetchCommitsRespectsCaps(t *testing.T) {
	src := &fakeSource{totalCommits: 700}
	ing := New(src, Options{}, testLogger())

	commits, err := ing.FetchCommits(context.Background(), "octocat", "hello", time.Time{})

	require.NoError(t, err)
	assert.Len(t, commits, DefaultMaxCommits)
	// 500 commits at page size 50.
	assert.Equal(t, 10, src.listCalls)
	assert.Equal(t, DefaultMaxDetailed, src.detailCalls)

	for i, c := range commits {
		if i < DefaultMaxDetailed {
			assert.True(t, c.DetailFetched, "commit %d should carry detail", i)
			assert.Equal(t, 7, c.Additions)
			assert.Equal(t, 2, c.ChangedFiles)
		} else {
			assert.False(t, c.DetailFetched, "commit %d should be degraded", i)
			assert.Zero(t, c.Additions)
			assert.Equal(t, 1, c.ChangedFiles)
		}
	}
}

func TestFetchCommitsStopsOnShortPage(t *testing.T) {
	src := &fakeSource{totalCommits: 73}
	ing := New(src, Options{MaxDetailed: 5}, testLogger())

	commits, err := ing.FetchCommits(context.Background(), "octocat", "hello", time.Time{})

	require.NoError(t, err)
	assert.Len(t, commits, 73)
	// Second page returns 23 < 50, so no third listing call.
	assert.Equal(t, 2, src.listCalls)
	assert.Equal(t, 5, src.detailCalls)
}

func TestFetchCommitsEmptyHistory(t *testing.T) {
	src := &fakeSource{totalCommits: 0}
	ing := New(src, Options{}, testLogger())

	commits, err := ing.FetchCommits(context.Background(), "octocat", "empty", time.Time{})

	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.Equal(t, 1, src.listCalls)
}

func TestFetchCommitsDowngradesFailedDetail(t *testing.T) {
	src := &fakeSource{
		totalCommits:  10,
		failDetailFor: map[string]bool{"sha-0003": true},
	}
	ing := New(src, Options{}, testLogger())

	commits, err := ing.FetchCommits(context.Background(), "octocat", "hello", time.Time{})

	require.NoError(t, err)
	require.Len(t, commits, 10)

	degraded := commits[3]
	assert.False(t, degraded.DetailFetched)
	assert.Zero(t, degraded.Additions)
	assert.Zero(t, degraded.Deletions)
	assert.Equal(t, 1, degraded.ChangedFiles)

	// Neighbors still carry detail.
	assert.True(t, commits[2].DetailFetched)
	assert.True(t, commits[4].DetailFetched)
}

func TestFetchCommitsListFailureIsFatal(t *testing.T) {
	src := &fakeSource{totalCommits: 200, failListPage: 2}
	ing := New(src, Options{MaxDetailed: 1}, testLogger())

	commits, err := ing.FetchCommits(context.Background(), "octocat", "hello", time.Time{})

	require.Error(t, err)
	assert.True(t, errors.IsRateLimited(err))
	assert.Nil(t, commits)
}

func TestFetchCommitsCancellationReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{totalCommits: 200, cancelAfter: 30, cancel: cancel}
	ing := New(src, Options{}, testLogger())

	commits, err := ing.FetchCommits(ctx, "octocat", "hello", time.Time{})

	require.NoError(t, err)
	// The first page was already listed; later pages are aborted.
	assert.NotEmpty(t, commits)
	assert.Less(t, len(commits), 200)
}
