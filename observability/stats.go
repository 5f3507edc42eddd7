// Package observability aggregates runtime counters for logs and the
// debug endpoint.
package observability

import (
	"sync/atomic"
	"time"
)

// Stats is safe for concurrent use; every field is atomic.
type Stats struct {
	startTime         time.Time
	connectionsTotal  atomic.Uint64
	connectionsActive atomic.Int64
	messagesRelayed   atomic.Uint64
	savesFailed       atomic.Uint64
	backfillsServed   atomic.Uint64
}

func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) ConnectionOpened() {
	s.connectionsTotal.Add(1)
	s.connectionsActive.Add(1)
}

func (s *Stats) ConnectionClosed() {
	s.connectionsActive.Add(-1)
}

func (s *Stats) MessageRelayed() {
	s.messagesRelayed.Add(1)
}

func (s *Stats) SaveFailed() {
	s.savesFailed.Add(1)
}

func (s *Stats) BackfillServed() {
	s.backfillsServed.Add(1)
}

func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"uptime_seconds":     int64(time.Since(s.startTime).Seconds()),
		"connections_total":  s.connectionsTotal.Load(),
		"connections_active": s.connectionsActive.Load(),
		"messages_relayed":   s.messagesRelayed.Load(),
		"saves_failed":       s.savesFailed.Load(),
		"backfills_served":   s.backfillsServed.Load(),
	}
}
