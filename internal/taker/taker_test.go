package taker

import (
	"testing"

	"marketmaker/internal/schema"
)

const sym = schema.SymbolID(1)

func TestTakeBuysCheapAsksThenSellsRichBids(t *testing.T) {
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 995, Qty: 5}, {Price: 999, Qty: 10}, {Price: 1001, Qty: 50}},
		Bids: []schema.PriceLevel{{Price: 1005, Qty: 8}},
	}
	orders := Take(sym, ladder, 1000, 0, 20)

	want := []schema.Order{
		{Symbol: sym, Price: 995, Qty: 5},
		{Symbol: sym, Price: 999, Qty: 10},
		{Symbol: sym, Price: 1005, Qty: -5},
	}
	assertOrders(t, orders, want)
}

func TestTakeStopsAtFairValue(t *testing.T) {
	// A level at exactly fair value must not trade in either direction.
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 1000, Qty: 5}},
		Bids: []schema.PriceLevel{{Price: 1000, Qty: 5}},
	}
	if orders := Take(sym, ladder, 1000, 0, 20); len(orders) != 0 {
		t.Fatalf("expected no orders, got %+v", orders)
	}
}

func TestTakeNoTradeThrough(t *testing.T) {
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 990, Qty: 2}, {Price: 996, Qty: 2}, {Price: 1004, Qty: 2}},
		Bids: []schema.PriceLevel{{Price: 1010, Qty: 2}, {Price: 1002, Qty: 2}, {Price: 998, Qty: 2}},
	}
	for _, o := range Take(sym, ladder, 1000, 0, 100) {
		if o.Qty > 0 && o.Price >= 1000 {
			t.Fatalf("buy at %d not below fair", o.Price)
		}
		if o.Qty < 0 && o.Price <= 1000 {
			t.Fatalf("sell at %d not above fair", o.Price)
		}
	}
}

func TestTakeCrossSideCapacityCoupling(t *testing.T) {
	// Buys consume 5, leaving limit-|5| = 15 for the sell pass.
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 995, Qty: 5}},
		Bids: []schema.PriceLevel{{Price: 1005, Qty: 40}},
	}
	orders := Take(sym, ladder, 1000, 0, 20)
	want := []schema.Order{
		{Symbol: sym, Price: 995, Qty: 5},
		{Symbol: sym, Price: 1005, Qty: -15},
	}
	assertOrders(t, orders, want)
}

func TestTakeBuySideExhaustsSharedCapacity(t *testing.T) {
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 995, Qty: 30}},
		Bids: []schema.PriceLevel{{Price: 1005, Qty: 8}},
	}
	orders := Take(sym, ladder, 1000, 0, 20)
	want := []schema.Order{{Symbol: sym, Price: 995, Qty: 20}}
	assertOrders(t, orders, want)
}

func TestTakeEmptySidesSkipSilently(t *testing.T) {
	onlyAsks := &schema.Ladder{Asks: []schema.PriceLevel{{Price: 995, Qty: 5}}}
	orders := Take(sym, onlyAsks, 1000, 0, 20)
	assertOrders(t, orders, []schema.Order{{Symbol: sym, Price: 995, Qty: 5}})

	onlyBids := &schema.Ladder{Bids: []schema.PriceLevel{{Price: 1005, Qty: 5}}}
	orders = Take(sym, onlyBids, 1000, 0, 20)
	assertOrders(t, orders, []schema.Order{{Symbol: sym, Price: 1005, Qty: -5}})

	if orders := Take(sym, &schema.Ladder{}, 1000, 0, 20); len(orders) != 0 {
		t.Fatalf("empty ladder produced orders: %+v", orders)
	}
}

func TestTakeZeroCapacityEmitsNothing(t *testing.T) {
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 995, Qty: 5}},
		Bids: []schema.PriceLevel{{Price: 1005, Qty: 5}},
	}
	if orders := Take(sym, ladder, 1000, 20, 20); len(orders) != 0 {
		t.Fatalf("long-at-limit produced orders: %+v", orders)
	}
	if orders := Take(sym, ladder, 1000, -20, 20); len(orders) != 0 {
		t.Fatalf("short-at-limit produced orders: %+v", orders)
	}
	if orders := Take(sym, ladder, 1000, 0, 0); len(orders) != 0 {
		t.Fatalf("zero limit produced orders: %+v", orders)
	}
}

func TestTakeCapacityUsesPositionMagnitude(t *testing.T) {
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 995, Qty: 50}},
	}
	orders := Take(sym, ladder, 1000, -10, 20)
	// Capacity is limit - |position| = 10, even though buying reduces the
	// short first.
	assertOrders(t, orders, []schema.Order{{Symbol: sym, Price: 995, Qty: 10}})
}

func TestTakeLimitInvariantHolds(t *testing.T) {
	ladder := &schema.Ladder{
		Asks: []schema.PriceLevel{{Price: 990, Qty: 7}, {Price: 992, Qty: 9}, {Price: 994, Qty: 11}},
		Bids: []schema.PriceLevel{{Price: 1010, Qty: 13}, {Price: 1006, Qty: 17}},
	}
	for pos := schema.Quantity(-20); pos <= 20; pos += 5 {
		position := pos
		for _, o := range Take(sym, ladder, 1000, position, 20) {
			position += o.Qty
			if position > 20 || position < -20 {
				t.Fatalf("start %d: position %d breaches limit", pos, position)
			}
		}
	}
}

func assertOrders(t *testing.T, got, want []schema.Order) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d orders %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}
