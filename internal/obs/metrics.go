// Package obs collects lightweight counters and latency stats for the
// decision loop.
package obs

import (
	"sync/atomic"
	"time"

	"marketmaker/internal/schema"
)

// SkipReason classifies why a product produced no orders in a tick.
type SkipReason uint16

const (
	SkipNone SkipReason = iota
	SkipNoStrategy
	SkipEmptyLadder
	SkipNoFairValue
	SkipNoCapacity
	SkipInvalidLadder
)

const maxSkipReason = int(SkipInvalidLadder)

// Metrics aggregates decision-loop counters.
type Metrics struct {
	ticks          uint64
	ordersEmitted  uint64
	buyQty         uint64
	sellQty        uint64
	skipCounts     [maxSkipReason + 1]uint64
	limitViolation uint64

	tickLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Ticks           uint64
	OrdersEmitted   uint64
	BuyQty          uint64
	SellQty         uint64
	SkipCounts      map[SkipReason]uint64
	LimitViolations uint64
	TickLatency     LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveTick records one completed engine tick and its duration.
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ticks, 1)
	m.tickLatency.Observe(d)
}

// ObserveOrder counts an emitted order and its traded quantity.
func (m *Metrics) ObserveOrder(o schema.Order) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersEmitted, 1)
	if o.Qty >= 0 {
		atomic.AddUint64(&m.buyQty, uint64(o.Qty))
	} else {
		atomic.AddUint64(&m.sellQty, uint64(-o.Qty))
	}
}

// IncSkip counts a skipped product.
func (m *Metrics) IncSkip(reason SkipReason) {
	if m == nil {
		return
	}
	idx := int(reason)
	if idx >= 0 && idx < len(m.skipCounts) {
		atomic.AddUint64(&m.skipCounts[idx], 1)
	}
}

// IncLimitViolation counts a discarded order that would have breached the
// position limit.
func (m *Metrics) IncLimitViolation() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.limitViolation, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	skips := make(map[SkipReason]uint64)
	for i := range m.skipCounts {
		if v := atomic.LoadUint64(&m.skipCounts[i]); v > 0 {
			skips[SkipReason(i)] = v
		}
	}
	return Snapshot{
		Ticks:           atomic.LoadUint64(&m.ticks),
		OrdersEmitted:   atomic.LoadUint64(&m.ordersEmitted),
		BuyQty:          atomic.LoadUint64(&m.buyQty),
		SellQty:         atomic.LoadUint64(&m.sellQty),
		SkipCounts:      skips,
		LimitViolations: atomic.LoadUint64(&m.limitViolation),
		TickLatency:     m.tickLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
