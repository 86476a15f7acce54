package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched      int64
	FeedFailures      int64
	ArticlesCollected int64
	GroupsMatched     int64
	SnapshotRefreshes int64
	RefreshFailures   int64

	// Timings
	LastRefreshDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
}

func (m *Metrics) IncrementFeedFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFailures++
}

func (m *Metrics) AddArticlesCollected(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesCollected += n
}

func (m *Metrics) AddGroupsMatched(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GroupsMatched += n
}

func (m *Metrics) RecordRefresh(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotRefreshes++
	m.LastRefreshDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) RecordRefreshFailure(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshFailures++
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":            m.FeedsFetched,
		"feed_failures":            m.FeedFailures,
		"articles_collected":       m.ArticlesCollected,
		"groups_matched":           m.GroupsMatched,
		"snapshot_refreshes":       m.SnapshotRefreshes,
		"refresh_failures":         m.RefreshFailures,
		"last_refresh_duration_ms": m.LastRefreshDuration.Milliseconds(),
		"last_run_time":            m.LastRunTime.Format(time.RFC3339),
		"last_error_time":          m.LastErrorTime.Format(time.RFC3339),
		"last_error":               m.LastError,
		"is_healthy":               m.IsHealthy,
	}
}
