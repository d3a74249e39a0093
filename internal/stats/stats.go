// Package stats tracks upstream API call volume. It is purely observational:
// nothing in the analysis flow depends on it.
package stats

import (
	"sort"
	"sync"
	"time"
)

// maxRecordedCalls bounds the in-memory call log.
const maxRecordedCalls = 1000

// recentActivityLen is how many trailing calls the snapshot exposes.
const recentActivityLen = 20

// Call is one recorded upstream request.
type Call struct {
	Endpoint  string    `json:"endpoint"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
	FromCache bool      `json:"fromCache"`
}

// EndpointStats aggregates calls per endpoint.
type EndpointStats struct {
	Endpoint     string    `json:"endpoint"`
	Count        int       `json:"count"`
	CacheHits    int       `json:"cacheHits"`
	CacheHitRate float64   `json:"cacheHitRate"`
	LastCalled   time.Time `json:"lastCalled"`
}

// Summary is the top-level call accounting.
type Summary struct {
	TotalCalls       int     `json:"totalCalls"`
	TotalAPICalls    int     `json:"totalApiCalls"`
	TotalCacheHits   int     `json:"totalCacheHits"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	APICallsLastHour int     `json:"apiCallsLastHour"`
	APICallsLastDay  int     `json:"apiCallsLastDay"`
}

// Snapshot is the full observational view handed to the stats endpoint.
type Snapshot struct {
	Summary        Summary         `json:"summary"`
	Endpoints      []EndpointStats `json:"endpoints"`
	RecentActivity []Call          `json:"recentActivity"`
}

// Tracker records API calls and cache hits. Safe for concurrent use; counts
// are eventually consistent under concurrent snapshots, which is all the
// contract requires.
type Tracker struct {
	mu        sync.Mutex
	calls     []Call
	endpoints map[string]*EndpointStats
	now       func() time.Time
}

// NewTracker creates an empty tracker on the wall clock.
func NewTracker() *Tracker {
	return &Tracker{
		endpoints: make(map[string]*EndpointStats),
		now:       time.Now,
	}
}

// NewTrackerWithClock creates a tracker with a fixed clock for tests.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	t := NewTracker()
	t.now = now
	return t
}

// Track records one call against an endpoint. fromCache marks calls resolved
// by the local response cache without touching the upstream API.
func (t *Tracker) Track(endpoint, method string, fromCache bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	call := Call{Endpoint: endpoint, Method: method, Timestamp: t.now(), FromCache: fromCache}
	t.calls = append(t.calls, call)
	if len(t.calls) > maxRecordedCalls {
		t.calls = t.calls[len(t.calls)-maxRecordedCalls:]
	}

	ep, ok := t.endpoints[endpoint]
	if !ok {
		ep = &EndpointStats{Endpoint: endpoint}
		t.endpoints[endpoint] = ep
	}
	ep.Count++
	if fromCache {
		ep.CacheHits++
	}
	ep.LastCalled = call.Timestamp
}

// Stats assembles the current snapshot.
func (t *Tracker) Stats() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	hourAgo := now.Add(-time.Hour)
	dayAgo := now.Add(-24 * time.Hour)

	var cacheHits, lastHour, lastDay int
	for _, c := range t.calls {
		if c.FromCache {
			cacheHits++
			continue
		}
		if c.Timestamp.After(hourAgo) {
			lastHour++
		}
		if c.Timestamp.After(dayAgo) {
			lastDay++
		}
	}

	total := len(t.calls)
	summary := Summary{
		TotalCalls:       total,
		TotalAPICalls:    total - cacheHits,
		TotalCacheHits:   cacheHits,
		APICallsLastHour: lastHour,
		APICallsLastDay:  lastDay,
	}
	if total > 0 {
		summary.CacheHitRate = float64(cacheHits) / float64(total)
	}

	endpoints := make([]EndpointStats, 0, len(t.endpoints))
	for _, ep := range t.endpoints {
		stat := *ep
		if stat.Count > 0 {
			stat.CacheHitRate = float64(stat.CacheHits) / float64(stat.Count)
		}
		endpoints = append(endpoints, stat)
	}
	sortEndpoints(endpoints)

	recent := t.calls
	if len(recent) > recentActivityLen {
		recent = recent[len(recent)-recentActivityLen:]
	}
	activity := make([]Call, len(recent))
	copy(activity, recent)

	return Snapshot{Summary: summary, Endpoints: endpoints, RecentActivity: activity}
}

// Reset clears all recorded calls.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
	t.endpoints = make(map[string]*EndpointStats)
}

// sortEndpoints orders by call count descending, endpoint name ascending on
// ties, so snapshots are stable.
func sortEndpoints(endpoints []EndpointStats) {
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Count != endpoints[j].Count {
			return endpoints[i].Count > endpoints[j].Count
		}
		return endpoints[i].Endpoint < endpoints[j].Endpoint
	})
}
