package evtactor

import (
	"sync"
	"sync/atomic"
	"time"
)

// ThreadMetrics tracks low-overhead, thread-safe runtime statistics for a
// [Thread]. Queue-full drops are silent on the enqueue path; these
// counters are the only place they become observable. Metrics collection
// is opt-in via [WithMetrics]; a Thread created without it returns a
// zero-valued, always-empty snapshot from [Thread.Metrics].
type ThreadMetrics struct {
	// Dropped counts events rejected on enqueue because the queue was at
	// its configured bound.
	Dropped uint64

	// Drained counts events that have completed execution across all
	// drain batches.
	Drained uint64

	// Batches counts completed drain batches (each outermost call to
	// Thread.Drain that executed at least one event; nested reentrant
	// Drain calls are folded into the enclosing batch).
	Batches uint64

	// Latency reports the distribution of per-batch drain durations, i.e.
	// how long Thread.Drain spent executing a reserved batch of closures.
	Latency LatencyQuantiles
}

// LatencyQuantiles is a point-in-time snapshot of a P-Square-estimated
// latency distribution.
type LatencyQuantiles struct {
	P50, P90, P99 time.Duration
	Max           time.Duration
	Count         int
}

// metrics is the mutable, concurrency-safe state backing ThreadMetrics;
// held by Thread and updated from the draining goroutine and enqueue
// callers alike.
type metrics struct {
	enabled bool

	dropped atomic.Uint64
	drained atomic.Uint64
	batches atomic.Uint64

	latencyMu sync.Mutex
	latency   *pSquareMultiQuantile
}

func newMetrics(enabled bool) *metrics {
	m := &metrics{enabled: enabled}
	if enabled {
		m.latency = newPSquareMultiQuantile(0.50, 0.90, 0.99)
	}
	return m
}

func (m *metrics) recordDropped() {
	if m == nil || !m.enabled {
		return
	}
	m.dropped.Add(1)
}

func (m *metrics) recordBatch(n int, took time.Duration) {
	if m == nil || !m.enabled || n == 0 {
		return
	}
	m.batches.Add(1)
	m.drained.Add(uint64(n))
	m.latencyMu.Lock()
	m.latency.Update(float64(took))
	m.latencyMu.Unlock()
}

func (m *metrics) snapshot() ThreadMetrics {
	if m == nil || !m.enabled {
		return ThreadMetrics{}
	}
	out := ThreadMetrics{
		Dropped: m.dropped.Load(),
		Drained: m.drained.Load(),
		Batches: m.batches.Load(),
	}
	m.latencyMu.Lock()
	defer m.latencyMu.Unlock()
	out.Latency = LatencyQuantiles{
		P50:   time.Duration(m.latency.Quantile(0)),
		P90:   time.Duration(m.latency.Quantile(1)),
		P99:   time.Duration(m.latency.Quantile(2)),
		Max:   time.Duration(m.latency.Max()),
		Count: m.latency.Count(),
	}
	return out
}
