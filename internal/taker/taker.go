// Package taker walks a ladder against a fair value and emits the orders
// that take favorably priced resting liquidity.
package taker

import "marketmaker/internal/schema"

// Take produces the orders for one product in one tick. It buys ask levels
// priced strictly below fair and sells into bid levels priced strictly
// above it, never letting the hypothetical position magnitude exceed limit.
//
// The two passes share one position budget: the sell-side capacity is
// recomputed from the position left after the buy-side fills, so a tick
// that exhausts capacity buying emits no sell orders. Emission order is
// buy levels ascending, then sell levels descending.
func Take(sym schema.SymbolID, ladder *schema.Ladder, fairValue schema.Price, position, limit schema.Quantity) []schema.Order {
	if limit <= 0 {
		return nil
	}

	var orders []schema.Order

	capacity := remaining(position, limit)
	hypothetical := position
	for i := range ladder.Asks {
		if capacity <= 0 {
			break
		}
		level := ladder.Asks[i]
		if level.Price >= fairValue {
			// Asks ascend, so no later level qualifies either.
			break
		}
		qty := level.Qty
		if qty > capacity {
			qty = capacity
		}
		if qty <= 0 {
			continue
		}
		orders = appendOrder(orders, schema.Order{
			Symbol:   sym,
			Price:    level.Price,
			Qty:      qty,
			Additive: ladder.HasBid(level.Price),
		})
		capacity -= qty
		hypothetical += qty
	}

	capacity = remaining(hypothetical, limit)
	for i := range ladder.Bids {
		if capacity <= 0 {
			break
		}
		level := ladder.Bids[i]
		if level.Price <= fairValue {
			// Bids descend, so no later level qualifies either.
			break
		}
		qty := level.Qty
		if qty > capacity {
			qty = capacity
		}
		if qty <= 0 {
			continue
		}
		orders = appendOrder(orders, schema.Order{
			Symbol:   sym,
			Price:    level.Price,
			Qty:      -qty,
			Additive: ladder.HasAsk(level.Price),
		})
		capacity -= qty
		hypothetical -= qty
	}

	return orders
}

// appendOrder merges same-priced generated orders for the same direction
// instead of emitting duplicates.
func appendOrder(orders []schema.Order, o schema.Order) []schema.Order {
	for i := range orders {
		if orders[i].Price == o.Price && sameDirection(orders[i].Qty, o.Qty) {
			orders[i].Qty += o.Qty
			orders[i].Additive = orders[i].Additive || o.Additive
			return orders
		}
	}
	return append(orders, o)
}

func sameDirection(a, b schema.Quantity) bool {
	return (a >= 0) == (b >= 0)
}

func remaining(position, limit schema.Quantity) schema.Quantity {
	if position < 0 {
		position = -position
	}
	if position >= limit {
		return 0
	}
	return limit - position
}
