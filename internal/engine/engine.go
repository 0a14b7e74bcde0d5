// Package engine orchestrates the per-tick decision loop: estimate fair
// value, compute capacity, take liquidity, settle the ledger.
package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/yanun0323/logs"

	"marketmaker/internal/fair"
	"marketmaker/internal/obs"
	"marketmaker/internal/risk"
	"marketmaker/internal/schema"
	"marketmaker/internal/taker"
)

// Sink receives one structured event per emitted order.
type Sink interface {
	Record(schema.TradeEvent)
}

// Spec is the static per-product configuration.
type Spec struct {
	Limit schema.Quantity
	Fair  fair.Descriptor
}

type product struct {
	estimator fair.Estimator
	state     *fair.State
}

// Engine is the per-tick decision engine. It owns all carried state (fair
// value history, position ledger) and must not be shared across
// concurrently running ticks.
type Engine struct {
	registry *schema.Registry
	products map[schema.SymbolID]*product
	ledger   *risk.Ledger
	sink     Sink
	metrics  *obs.Metrics
}

// New builds an engine from resolved product specs. Symbols absent from
// specs are never traded.
func New(registry *schema.Registry, specs map[schema.SymbolID]Spec, sink Sink, metrics *obs.Metrics) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("engine registry is nil")
	}
	ledger := risk.NewLedger()
	products := make(map[schema.SymbolID]*product, len(specs))
	for sym, spec := range specs {
		estimator, err := fair.Build(spec.Fair)
		if err != nil {
			return nil, err
		}
		products[sym] = &product{estimator: estimator, state: &fair.State{}}
		ledger.SetLimit(sym, spec.Limit)
	}
	return &Engine{
		registry: registry,
		products: products,
		ledger:   ledger,
		sink:     sink,
		metrics:  metrics,
	}, nil
}

// Ledger exposes the engine's position view for harness verification.
func (e *Engine) Ledger() *risk.Ledger { return e.ledger }

// FairValue returns the last computed fair value for a product.
func (e *Engine) FairValue(sym schema.SymbolID) (schema.Price, bool) {
	p, ok := e.products[sym]
	if !ok || !p.state.Known {
		return 0, false
	}
	return p.state.Last, true
}

// Run processes one tick snapshot and returns the order batch keyed by
// product. Products that yield no orders contribute no map entry. One
// product's failure never aborts the others.
func (e *Engine) Run(tick schema.Tick) map[schema.SymbolID][]schema.Order {
	start := time.Now()
	result := make(map[schema.SymbolID][]schema.Order, len(tick.Books))

	symbols := make([]schema.SymbolID, 0, len(tick.Books))
	for sym := range tick.Books {
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	for _, sym := range symbols {
		orders := e.runProduct(tick.Time, sym, tick.Books[sym])
		if len(orders) > 0 {
			result[sym] = orders
		}
	}

	e.metrics.ObserveTick(time.Since(start))
	return result
}

func (e *Engine) runProduct(now int64, sym schema.SymbolID, book schema.Book) []schema.Order {
	p, ok := e.products[sym]
	if !ok {
		e.metrics.IncSkip(obs.SkipNoStrategy)
		return nil
	}

	// The snapshot is caller-owned; normalization works on a copy.
	ladder := cloneLadder(book.Ladder)
	ladder.Normalize()
	if err := ladder.Validate(); err != nil {
		logs.Errorf("invalid ladder for %s: %v", e.registry.Name(sym), err)
		e.metrics.IncSkip(obs.SkipInvalidLadder)
		return nil
	}
	if ladder.Empty() {
		e.metrics.IncSkip(obs.SkipEmptyLadder)
		return nil
	}

	e.ledger.Sync(sym, book.Position)
	if book.LastPrice != 0 {
		p.state.LastTraded = book.LastPrice
	}

	fairValue, err := p.estimator.Estimate(&ladder, p.state)
	if err != nil {
		if !errors.Is(err, fair.ErrNoFairValue) {
			logs.Errorf("estimate %s: %v", e.registry.Name(sym), err)
		}
		e.metrics.IncSkip(obs.SkipNoFairValue)
		return nil
	}

	limit := e.ledger.Limit(sym)
	if e.ledger.Remaining(sym) == 0 {
		e.metrics.IncSkip(obs.SkipNoCapacity)
		return nil
	}

	orders := taker.Take(sym, &ladder, fairValue, e.ledger.Position(sym), limit)
	applied := orders[:0]
	for _, o := range orders {
		if err := e.ledger.Apply(sym, o.Qty); err != nil {
			// Capacity math upstream makes this unreachable; treat it as
			// fatal for the product, drop the order, keep earlier fills.
			logs.Errorf("apply order %s qty=%d: %v", e.registry.Name(sym), o.Qty, err)
			e.metrics.IncLimitViolation()
			break
		}
		applied = append(applied, o)
		e.metrics.ObserveOrder(o)
		e.record(now, sym, o)
	}
	return applied
}

func (e *Engine) record(now int64, sym schema.SymbolID, o schema.Order) {
	if e.sink == nil {
		return
	}
	qty := o.Qty
	action := schema.ActionBuy
	if qty < 0 {
		qty = -qty
		action = schema.ActionSell
	}
	if o.Additive {
		action = schema.ActionAdd
	}
	e.sink.Record(schema.TradeEvent{
		Time:   now,
		Symbol: e.registry.Name(sym),
		Action: action,
		Qty:    qty,
		Price:  o.Price,
	})
}

func cloneLadder(l schema.Ladder) schema.Ladder {
	out := schema.Ladder{}
	if len(l.Bids) > 0 {
		out.Bids = make([]schema.PriceLevel, len(l.Bids))
		copy(out.Bids, l.Bids)
	}
	if len(l.Asks) > 0 {
		out.Asks = make([]schema.PriceLevel, len(l.Asks))
		copy(out.Asks, l.Asks)
	}
	return out
}
