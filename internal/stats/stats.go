// Package stats tracks per-client request counters. Counters are
// atomic so batch fan-out can record concurrently.
package stats

import (
	"sync/atomic"
	"time"
)

// Standard tier pricing: $2 per 1M characters, billed in 1000-character
// text records.
const costPerTextRecordUSD = 0.002

// Tracker accumulates request outcomes for one service client.
type Tracker struct {
	total     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	chars     atomic.Int64
	elapsedNs atomic.Int64
}

// Snapshot is a point-in-time view of a Tracker.
type Snapshot struct {
	TotalRequests       int64
	SuccessfulRequests  int64
	FailedRequests      int64
	CharactersProcessed int64
	SuccessRatePercent  float64
	AverageSeconds      float64
	EstimatedCostUSD    float64
}

// Record registers one finished request.
func (t *Tracker) Record(characters int, elapsed time.Duration, ok bool) {
	t.total.Add(1)
	t.chars.Add(int64(characters))
	t.elapsedNs.Add(int64(elapsed))
	if ok {
		t.succeeded.Add(1)
	} else {
		t.failed.Add(1)
	}
}

// Snapshot returns current totals plus the derived rate, latency, and
// cost figures.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		TotalRequests:       t.total.Load(),
		SuccessfulRequests:  t.succeeded.Load(),
		FailedRequests:      t.failed.Load(),
		CharactersProcessed: t.chars.Load(),
	}
	if s.TotalRequests > 0 {
		s.SuccessRatePercent = float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
		s.AverageSeconds = (time.Duration(t.elapsedNs.Load()) / time.Duration(s.TotalRequests)).Seconds()
	}
	records := float64(s.CharactersProcessed) / 1000
	s.EstimatedCostUSD = records * costPerTextRecordUSD
	return s
}
