// Package fair turns a ladder into a single reference price per product.
package fair

import (
	"errors"
	"fmt"

	"marketmaker/internal/schema"
)

// ErrNoFairValue reports that no reference price can be produced from the
// current inputs. It is not fatal; the product is skipped for the tick.
var ErrNoFairValue = errors.New("no fair value")

// Kind selects a fair value strategy.
type Kind uint16

const (
	KindUnknown Kind = iota
	KindFixed
	KindMidPrice
	KindRollingAverage
)

// Descriptor is a tagged strategy selection resolved once at startup.
type Descriptor struct {
	Kind   Kind
	Price  schema.Price // KindFixed
	Window int          // KindRollingAverage
}

// Estimator computes a reference price from a ladder and carried state.
// On success it updates the state with the new value.
type Estimator interface {
	Estimate(ladder *schema.Ladder, st *State) (schema.Price, error)
	Name() string
}

// Build returns the estimator matching a descriptor.
func Build(d Descriptor) (Estimator, error) {
	switch d.Kind {
	case KindFixed:
		if d.Price <= 0 {
			return nil, fmt.Errorf("fixed fair value must be positive, got %d", d.Price)
		}
		return Fixed{Price: d.Price}, nil
	case KindMidPrice:
		return MidPrice{}, nil
	case KindRollingAverage:
		if d.Window <= 0 {
			return nil, fmt.Errorf("rolling window must be positive, got %d", d.Window)
		}
		return RollingAverage{Window: d.Window}, nil
	default:
		return nil, fmt.Errorf("unknown fair value kind: %d", d.Kind)
	}
}

// Fixed returns a constant configured price.
type Fixed struct {
	Price schema.Price
}

func (f Fixed) Name() string { return "fixed" }

func (f Fixed) Estimate(_ *schema.Ladder, st *State) (schema.Price, error) {
	st.Last = f.Price
	st.Known = true
	return f.Price, nil
}

// MidPrice averages the best bid and best ask. A one-sided or empty book
// has no mid, so estimation fails with ErrNoFairValue.
type MidPrice struct{}

func (m MidPrice) Name() string { return "mid" }

func (m MidPrice) Estimate(ladder *schema.Ladder, st *State) (schema.Price, error) {
	mid, err := mid(ladder)
	if err != nil {
		return 0, err
	}
	st.Last = mid
	st.Known = true
	return mid, nil
}

// RollingAverage averages the last Window mid-prices held in the state's
// history ring, falling back to the plain mid while history is empty.
type RollingAverage struct {
	Window int
}

func (r RollingAverage) Name() string { return "rolling" }

func (r RollingAverage) Estimate(ladder *schema.Ladder, st *State) (schema.Price, error) {
	current, err := mid(ladder)
	if err != nil {
		return 0, err
	}
	if st.History == nil {
		st.History = NewRing(r.Window)
	}
	st.History.Push(current)

	value := st.History.Average()
	st.Last = value
	st.Known = true
	return value, nil
}

func mid(ladder *schema.Ladder) (schema.Price, error) {
	bid, okBid := ladder.BestBid()
	ask, okAsk := ladder.BestAsk()
	if !okBid || !okAsk {
		return 0, ErrNoFairValue
	}
	return (bid.Price + ask.Price) / 2, nil
}
