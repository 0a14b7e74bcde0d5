package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmaker/internal/fair"
	"marketmaker/internal/obs"
	"marketmaker/internal/schema"
)

type captureSink struct {
	events []schema.TradeEvent
}

func (c *captureSink) Record(e schema.TradeEvent) {
	c.events = append(c.events, e)
}

func newTestEngine(t *testing.T, sink Sink) (*Engine, schema.SymbolID, schema.SymbolID) {
	t.Helper()
	reg := schema.NewRegistry()
	pearls, err := reg.AddSymbol("PEARLS", schema.ScaleSpec{})
	require.NoError(t, err)
	bananas, err := reg.AddSymbol("BANANAS", schema.ScaleSpec{})
	require.NoError(t, err)

	specs := map[schema.SymbolID]Spec{
		pearls:  {Limit: 20, Fair: fair.Descriptor{Kind: fair.KindFixed, Price: 1000}},
		bananas: {Limit: 20, Fair: fair.Descriptor{Kind: fair.KindMidPrice}},
	}
	eng, err := New(reg, specs, sink, obs.NewMetrics())
	require.NoError(t, err)
	return eng, pearls, bananas
}

func TestRunTakesFavorableLiquidity(t *testing.T) {
	sink := &captureSink{}
	eng, pearls, _ := newTestEngine(t, sink)

	batch := eng.Run(schema.Tick{
		Time: 10,
		Books: map[schema.SymbolID]schema.Book{
			pearls: {Ladder: schema.Ladder{
				Asks: []schema.PriceLevel{{Price: 995, Qty: -5}, {Price: 999, Qty: -10}},
				Bids: []schema.PriceLevel{{Price: 1005, Qty: 8}},
			}},
		},
	})

	require.Len(t, batch, 1)
	orders := batch[pearls]
	require.Len(t, orders, 3)
	assert.Equal(t, schema.Order{Symbol: pearls, Price: 995, Qty: 5}, orders[0])
	assert.Equal(t, schema.Order{Symbol: pearls, Price: 999, Qty: 10}, orders[1])
	assert.Equal(t, schema.Order{Symbol: pearls, Price: 1005, Qty: -5}, orders[2])

	assert.Equal(t, schema.Quantity(10), eng.Ledger().Position(pearls))

	require.Len(t, sink.events, 3)
	assert.Equal(t, schema.TradeEvent{Time: 10, Symbol: "PEARLS", Action: schema.ActionBuy, Qty: 5, Price: 995}, sink.events[0])
	assert.Equal(t, schema.ActionBuy, sink.events[1].Action)
	assert.Equal(t, schema.TradeEvent{Time: 10, Symbol: "PEARLS", Action: schema.ActionSell, Qty: 5, Price: 1005}, sink.events[2])
}

func TestRunSkipsWithoutMapEntry(t *testing.T) {
	eng, pearls, bananas := newTestEngine(t, nil)

	unconfigured := schema.SymbolID(99)
	batch := eng.Run(schema.Tick{
		Time: 1,
		Books: map[schema.SymbolID]schema.Book{
			// No configured strategy.
			unconfigured: {Ladder: schema.Ladder{Bids: []schema.PriceLevel{{Price: 10, Qty: 1}}}},
			// Empty ladder.
			pearls: {},
			// One-sided book: mid-price strategy has no fair value.
			bananas: {Ladder: schema.Ladder{Bids: []schema.PriceLevel{{Price: 1005, Qty: 8}}}},
		},
	})

	assert.Empty(t, batch)
	_, known := eng.FairValue(bananas)
	assert.False(t, known)
}

func TestRunNoOrdersAtCapacity(t *testing.T) {
	eng, pearls, _ := newTestEngine(t, nil)

	batch := eng.Run(schema.Tick{
		Time: 1,
		Books: map[schema.SymbolID]schema.Book{
			pearls: {
				Position: 20,
				Ladder: schema.Ladder{
					Asks: []schema.PriceLevel{{Price: 990, Qty: 50}},
					Bids: []schema.PriceLevel{{Price: 1010, Qty: 50}},
				},
			},
		},
	})

	assert.Empty(t, batch)
	assert.Equal(t, schema.Quantity(20), eng.Ledger().Position(pearls))
}

func TestRunLimitInvariantAcrossTicks(t *testing.T) {
	eng, pearls, _ := newTestEngine(t, nil)

	position := schema.Quantity(0)
	for tick := int64(1); tick <= 50; tick++ {
		batch := eng.Run(schema.Tick{
			Time: tick,
			Books: map[schema.SymbolID]schema.Book{
				pearls: {
					Position: position,
					Ladder: schema.Ladder{
						Asks: []schema.PriceLevel{{Price: 995, Qty: 9}},
						Bids: []schema.PriceLevel{{Price: 1004, Qty: 4}},
					},
				},
			},
		})
		for _, o := range batch[pearls] {
			position += o.Qty
		}
		require.Equal(t, position, eng.Ledger().Position(pearls))
		require.LessOrEqual(t, position, schema.Quantity(20))
		require.GreaterOrEqual(t, position, schema.Quantity(-20))
	}
}

func TestRunInvalidLadderSkipsProductOnly(t *testing.T) {
	eng, pearls, bananas := newTestEngine(t, nil)

	batch := eng.Run(schema.Tick{
		Time: 1,
		Books: map[schema.SymbolID]schema.Book{
			pearls: {Ladder: schema.Ladder{
				Bids: []schema.PriceLevel{{Price: 90, Qty: 1}, {Price: 95, Qty: 1}},
			}},
			bananas: {Ladder: schema.Ladder{
				Bids: []schema.PriceLevel{{Price: 998, Qty: 3}},
				Asks: []schema.PriceLevel{{Price: 1000, Qty: 3}},
			}},
		},
	})

	// The broken pearls ladder is skipped; bananas still trades nothing
	// because no level beats its own mid, but its fair value is computed.
	assert.NotContains(t, batch, pearls)
	mid, known := eng.FairValue(bananas)
	assert.True(t, known)
	assert.Equal(t, schema.Price(999), mid)
}

func TestRunSnapshotNotMutated(t *testing.T) {
	eng, pearls, _ := newTestEngine(t, nil)

	asks := []schema.PriceLevel{{Price: 995, Qty: -5}}
	eng.Run(schema.Tick{
		Time: 1,
		Books: map[schema.SymbolID]schema.Book{
			pearls: {Ladder: schema.Ladder{Asks: asks}},
		},
	})
	assert.Equal(t, schema.Quantity(-5), asks[0].Qty)
}
