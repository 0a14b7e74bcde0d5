// Package risk tracks signed inventory per product against configured
// position limits.
package risk

import (
	"errors"

	"marketmaker/internal/schema"
)

// ErrLimitExceeded reports an attempted position update that would breach
// the configured limit. Correct capacity computation upstream makes this
// unreachable; hitting it is an invariant violation.
var ErrLimitExceeded = errors.New("position limit exceeded")

// Ledger holds the current signed position and limit per product.
// The limit invariant abs(position) <= limit holds after every Apply.
type Ledger struct {
	positions map[schema.SymbolID]schema.Quantity
	limits    map[schema.SymbolID]schema.Quantity
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		positions: make(map[schema.SymbolID]schema.Quantity),
		limits:    make(map[schema.SymbolID]schema.Quantity),
	}
}

// SetLimit configures the maximum position magnitude for a product.
func (l *Ledger) SetLimit(sym schema.SymbolID, limit schema.Quantity) {
	if limit < 0 {
		limit = 0
	}
	l.limits[sym] = limit
}

// Limit returns the configured limit for a product, zero when unset.
func (l *Ledger) Limit(sym schema.SymbolID) schema.Quantity {
	return l.limits[sym]
}

// Position returns the current signed position for a product.
func (l *Ledger) Position(sym schema.SymbolID) schema.Quantity {
	return l.positions[sym]
}

// Sync adopts the harness-supplied position from a snapshot.
func (l *Ledger) Sync(sym schema.SymbolID, pos schema.Quantity) {
	l.positions[sym] = pos
}

// Remaining answers how much more the engine may buy or sell:
// limit - abs(position), floored at zero.
func (l *Ledger) Remaining(sym schema.SymbolID) schema.Quantity {
	limit := l.limits[sym]
	pos := l.positions[sym]
	if pos < 0 {
		pos = -pos
	}
	if pos >= limit {
		return 0
	}
	return limit - pos
}

// Apply updates the position by a signed quantity. The position is left
// unchanged when the update would breach the limit.
func (l *Ledger) Apply(sym schema.SymbolID, qty schema.Quantity) error {
	next := l.positions[sym] + qty
	magnitude := next
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > l.limits[sym] {
		return ErrLimitExceeded
	}
	l.positions[sym] = next
	return nil
}
