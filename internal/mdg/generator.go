// Package mdg creates synthetic tick snapshots for the simulator.
package mdg

import (
	"fmt"
	"math/rand"

	"marketmaker/internal/schema"
)

// Config controls ladder synthesis.
type Config struct {
	Seed      int64
	BasePrice int64
	Spread    int64
	Depth     int
	MaxQty    int64
	Drift     int64
}

func (c Config) withDefaults() Config {
	if c.BasePrice <= 0 {
		c.BasePrice = 10_000
	}
	if c.Spread <= 0 {
		c.Spread = 2
	}
	if c.Depth <= 0 {
		c.Depth = 3
	}
	if c.MaxQty <= 0 {
		c.MaxQty = 10
	}
	if c.Drift <= 0 {
		c.Drift = 3
	}
	return c
}

type walk struct {
	symbol schema.Symbol
	mid    int64
}

// Generator produces a random-walk ladder per symbol per tick. A fixed
// seed yields a reproducible snapshot sequence.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	walks []walk
	tick  int64
}

// NewGenerator creates a generator covering every symbol in the registry.
func NewGenerator(reg *schema.Registry, cfg Config) (*Generator, error) {
	if reg == nil || reg.SymbolCount() == 0 {
		return nil, fmt.Errorf("registry has no symbols")
	}
	cfg = cfg.withDefaults()
	walks := make([]walk, 0, reg.SymbolCount())
	for i := 0; i < reg.SymbolCount(); i++ {
		symbol, ok := reg.SymbolAt(i)
		if !ok {
			continue
		}
		walks = append(walks, walk{symbol: symbol, mid: cfg.BasePrice})
	}
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		walks: walks,
	}, nil
}

// Next creates the next tick snapshot in sequence.
func (g *Generator) Next() schema.Tick {
	g.tick++
	books := make(map[schema.SymbolID]schema.Book, len(g.walks))
	for i := range g.walks {
		w := &g.walks[i]
		w.mid += g.rng.Int63n(2*g.cfg.Drift+1) - g.cfg.Drift
		if w.mid < g.cfg.Spread+int64(g.cfg.Depth) {
			w.mid = g.cfg.Spread + int64(g.cfg.Depth)
		}
		books[w.symbol.ID] = schema.Book{
			Ladder:    g.ladder(w.mid),
			LastPrice: schema.Price(w.mid),
		}
	}
	return schema.Tick{Time: g.tick, Books: books}
}

func (g *Generator) ladder(mid int64) schema.Ladder {
	half := g.cfg.Spread / 2
	if half < 1 {
		half = 1
	}
	var l schema.Ladder
	for d := 0; d < g.cfg.Depth; d++ {
		bid := mid - half - int64(d)
		ask := mid + half + int64(d)
		l.Bids = append(l.Bids, schema.PriceLevel{
			Price: schema.Price(bid),
			Qty:   schema.Quantity(1 + g.rng.Int63n(g.cfg.MaxQty)),
		})
		// Sell-side quantities use the source convention of negative
		// magnitudes, exercising snapshot normalization downstream.
		l.Asks = append(l.Asks, schema.PriceLevel{
			Price: schema.Price(ask),
			Qty:   schema.Quantity(-(1 + g.rng.Int63n(g.cfg.MaxQty))),
		})
	}
	return l
}
