package schema

import "errors"

var (
	ErrBidsNotDescending = errors.New("ladder bids not strictly descending")
	ErrAsksNotAscending  = errors.New("ladder asks not strictly ascending")
	ErrCrossedBook       = errors.New("ladder price on both sides")
	ErrNegativeQuantity  = errors.New("ladder level quantity negative")
)

// PriceLevel is resting interest at one price. Qty is the quantity
// available to trade and is non-negative once the ladder is normalized.
type PriceLevel struct {
	Price Price
	Qty   Quantity
}

// Ladder is the resting buy/sell interest for one product at one tick.
// Bids are sorted by price descending (best bid first), asks ascending
// (best ask first).
type Ladder struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

// Normalize folds the source convention of negative sell-side quantities
// into plain magnitudes.
func (l *Ladder) Normalize() {
	for i := range l.Asks {
		if l.Asks[i].Qty < 0 {
			l.Asks[i].Qty = -l.Asks[i].Qty
		}
	}
	for i := range l.Bids {
		if l.Bids[i].Qty < 0 {
			l.Bids[i].Qty = -l.Bids[i].Qty
		}
	}
}

// Validate checks ladder ordering invariants on a normalized ladder.
func (l *Ladder) Validate() error {
	for i := range l.Bids {
		if l.Bids[i].Qty < 0 {
			return ErrNegativeQuantity
		}
		if i > 0 && l.Bids[i].Price >= l.Bids[i-1].Price {
			return ErrBidsNotDescending
		}
	}
	askPrices := make(map[Price]struct{}, len(l.Asks))
	for i := range l.Asks {
		if l.Asks[i].Qty < 0 {
			return ErrNegativeQuantity
		}
		if i > 0 && l.Asks[i].Price <= l.Asks[i-1].Price {
			return ErrAsksNotAscending
		}
		askPrices[l.Asks[i].Price] = struct{}{}
	}
	for i := range l.Bids {
		if _, ok := askPrices[l.Bids[i].Price]; ok {
			return ErrCrossedBook
		}
	}
	return nil
}

// BestBid returns the highest resting buy level.
func (l *Ladder) BestBid() (PriceLevel, bool) {
	if len(l.Bids) == 0 {
		return PriceLevel{}, false
	}
	return l.Bids[0], true
}

// BestAsk returns the lowest resting sell level.
func (l *Ladder) BestAsk() (PriceLevel, bool) {
	if len(l.Asks) == 0 {
		return PriceLevel{}, false
	}
	return l.Asks[0], true
}

// Empty reports whether both sides are without resting interest.
func (l *Ladder) Empty() bool {
	return len(l.Bids) == 0 && len(l.Asks) == 0
}

// HasBid reports whether a bid rests at exactly the given price.
func (l *Ladder) HasBid(p Price) bool {
	for i := range l.Bids {
		if l.Bids[i].Price == p {
			return true
		}
		if l.Bids[i].Price < p {
			return false
		}
	}
	return false
}

// HasAsk reports whether an ask rests at exactly the given price.
func (l *Ladder) HasAsk(p Price) bool {
	for i := range l.Asks {
		if l.Asks[i].Price == p {
			return true
		}
		if l.Asks[i].Price > p {
			return false
		}
	}
	return false
}

// Order is a decision to trade: positive Qty buys, negative sells.
// Additive marks a quantity merge into resting interest already quoted at
// the same price, which downstream accounting records as ADD.
type Order struct {
	Symbol   SymbolID
	Price    Price
	Qty      Quantity
	Additive bool
}

// Book is the per-product slice of a tick snapshot.
type Book struct {
	Ladder    Ladder
	Position  Quantity
	LastPrice Price
}

// Tick is one snapshot presented to the engine. The engine treats it as
// read-only input.
type Tick struct {
	Time  int64
	Books map[SymbolID]Book
}
