package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerSummary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTrackerWithClock(func() time.Time { return now })

	tr.Track("repos.get", "GET", false)
	tr.Track("repos.get", "GET", true)
	tr.Track("repos.listCommits", "GET", false)

	snap := tr.Stats()

	assert.Equal(t, 3, snap.Summary.TotalCalls)
	assert.Equal(t, 2, snap.Summary.TotalAPICalls)
	assert.Equal(t, 1, snap.Summary.TotalCacheHits)
	assert.InDelta(t, 1.0/3.0, snap.Summary.CacheHitRate, 1e-9)
	assert.Equal(t, 2, snap.Summary.APICallsLastHour)
	assert.Equal(t, 2, snap.Summary.APICallsLastDay)
}

func TestTrackerEndpointOrdering(t *testing.T) {
	tr := NewTracker()
	tr.Track("b", "GET", false)
	tr.Track("a", "GET", false)
	tr.Track("a", "GET", true)

	snap := tr.Stats()

	require.Len(t, snap.Endpoints, 2)
	assert.Equal(t, "a", snap.Endpoints[0].Endpoint)
	assert.Equal(t, 2, snap.Endpoints[0].Count)
	assert.InDelta(t, 0.5, snap.Endpoints[0].CacheHitRate, 1e-9)
}

func TestTrackerBoundsCallLog(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < maxRecordedCalls+50; i++ {
		tr.Track("repos.getCommit", "GET", false)
	}

	snap := tr.Stats()

	assert.Equal(t, maxRecordedCalls, snap.Summary.TotalCalls)
	assert.Len(t, snap.RecentActivity, recentActivityLen)
	// Per-endpoint counters keep the true total.
	assert.Equal(t, maxRecordedCalls+50, snap.Endpoints[0].Count)
}

func TestTrackerConcurrentUse(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Track("users.get", "GET", j%2 == 0)
				_ = tr.Stats()
			}
		}()
	}
	wg.Wait()

	snap := tr.Stats()
	assert.Equal(t, 800, snap.Summary.TotalCalls)
	assert.Equal(t, 400, snap.Summary.TotalCacheHits)
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Track("users.get", "GET", false)
	tr.Reset()

	snap := tr.Stats()
	assert.Zero(t, snap.Summary.TotalCalls)
	assert.Empty(t, snap.Endpoints)
}
