package storage

import (
	"sync/atomic"
	"time"
)

// Statistics tracks database statistics
type Statistics struct {
	NodeCount    uint64
	EdgeCount    uint64
	LastSnapshot time.Time
	TotalQueries uint64
}

// GetStatistics returns a consistent snapshot of the counters
func (gs *GraphStorage) GetStatistics() Statistics {
	gs.mu.RLock()
	lastSnapshot := gs.stats.LastSnapshot
	gs.mu.RUnlock()

	return Statistics{
		NodeCount:    atomic.LoadUint64(&gs.stats.NodeCount),
		EdgeCount:    atomic.LoadUint64(&gs.stats.EdgeCount),
		LastSnapshot: lastSnapshot,
		TotalQueries: atomic.LoadUint64(&gs.stats.TotalQueries),
	}
}

// RecordQuery bumps the query counter. The query executor calls this once
// per executed statement.
func (gs *GraphStorage) RecordQuery() {
	atomic.AddUint64(&gs.stats.TotalQueries, 1)
}
