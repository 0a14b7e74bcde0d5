// Package bus provides a bounded, non-blocking queue for decision events,
// decoupling the engine tick loop from sink latency.
package bus

import (
	"context"
	"errors"
	"sync/atomic"

	"marketmaker/internal/schema"
)

var (
	ErrQueueFull   = errors.New("event queue full")
	ErrQueueClosed = errors.New("event queue closed")
)

// Queue is a bounded, non-blocking event queue. It implements the engine
// sink interface; events that do not fit are dropped and counted.
type Queue struct {
	ch     chan schema.TradeEvent
	closed uint32
	drops  uint64
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan schema.TradeEvent, capacity)}
}

// Record enqueues an event without blocking, dropping it when full.
func (q *Queue) Record(e schema.TradeEvent) {
	if err := q.TryPublish(e); err != nil {
		atomic.AddUint64(&q.drops, 1)
	}
}

// TryPublish enqueues an event without blocking.
func (q *Queue) TryPublish(e schema.TradeEvent) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drops returns the number of events rejected because the queue was full.
func (q *Queue) Drops() uint64 {
	return atomic.LoadUint64(&q.drops)
}

// Close stops the queue from accepting new events.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes events until the context is done or the queue is closed.
func (q *Queue) Run(ctx context.Context, handler func(schema.TradeEvent)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.ch:
			if !ok {
				return
			}
			handler(e)
		}
	}
}
