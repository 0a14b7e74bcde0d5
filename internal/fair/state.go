package fair

import "marketmaker/internal/schema"

// State is the per-product fair value state carried across ticks. It is
// owned by the engine: created at startup, updated once per tick, and
// never read by any other component.
type State struct {
	Last       schema.Price
	Known      bool
	LastTraded schema.Price
	History    *Ring
}

// Ring is a fixed-capacity history of recent reference prices. Pushing
// beyond capacity evicts the oldest entry.
type Ring struct {
	buf   []schema.Price
	head  int
	count int
}

// NewRing allocates a ring holding up to n prices.
func NewRing(n int) *Ring {
	if n < 1 {
		n = 1
	}
	return &Ring{buf: make([]schema.Price, n)}
}

// Push appends a price, evicting the oldest once full.
func (r *Ring) Push(p schema.Price) {
	r.buf[r.head] = p
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Len returns the number of held prices.
func (r *Ring) Len() int { return r.count }

// Average returns the mean of the held prices, zero when empty.
func (r *Ring) Average() schema.Price {
	if r.count == 0 {
		return 0
	}
	var sum int64
	for i := 0; i < r.count; i++ {
		idx := (r.head - r.count + i + len(r.buf)) % len(r.buf)
		sum += int64(r.buf[idx])
	}
	return schema.Price(sum / int64(r.count))
}
