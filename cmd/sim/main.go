package main

import (
	"context"
	"flag"
	"log"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"marketmaker/internal/bus"
	"marketmaker/internal/engine"
	"marketmaker/internal/mdg"
	"marketmaker/internal/obs"
	"marketmaker/internal/ops"
	"marketmaker/internal/schema"
	"marketmaker/internal/tracelog"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	ticks := flag.Int("ticks", 1000, "Number of ticks to simulate")
	seed := flag.Int64("seed", 1, "Random walk seed")
	out := flag.String("out", "sim.log", "Trace log output path")
	basePrice := flag.Int64("base-price", 10_000, "Starting mid price for generated ladders")
	spread := flag.Int64("spread", 2, "Generated bid/ask spread")
	depth := flag.Int("depth", 3, "Generated ladder depth per side")
	queueSize := flag.Int("queue", 1024, "Decision event queue capacity")
	profileAddr := flag.String("profile-addr", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	if *configPath == "" {
		log.Fatalf("config is required")
	}
	if *ticks <= 0 {
		log.Fatalf("ticks must be > 0")
	}

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "marketmaker.sim",
			ServerAddress:   *profileAddr,
			Logger:          emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	writer, err := tracelog.OpenFile(*out)
	if err != nil {
		log.Fatalf("trace log open failed: %v", err)
	}

	metrics := obs.NewMetrics()
	queue := bus.NewQueue(*queueSize)
	ctx := context.Background()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		queue.Run(ctx, writer.Record)
	}()

	eng, err := engine.New(loaded.Registry, loaded.Specs, queue, metrics)
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}
	gen, err := mdg.NewGenerator(loaded.Registry, mdg.Config{
		Seed:      *seed,
		BasePrice: *basePrice,
		Spread:    *spread,
		Depth:     *depth,
	})
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}

	var processed, ordered int
loop:
	for i := 0; i < *ticks; i++ {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown requested")
			break loop
		default:
		}

		tick := gen.Next()
		carryPositions(eng, tick)
		batch := eng.Run(tick)
		processed++
		for _, orders := range batch {
			ordered += len(orders)
		}
	}

	queue.Close()
	<-drained
	if err := writer.Close(); err != nil {
		log.Fatalf("trace log close failed: %v", err)
	}

	snap := metrics.Snapshot()
	logs.Infof("sim done: ticks=%d orders=%d bought=%d sold=%d drops=%d tick_avg=%s",
		processed, ordered, snap.BuyQty, snap.SellQty, queue.Drops(), snap.TickLatency.Avg)
	for reason, count := range snap.SkipCounts {
		logs.Infof("skips reason=%d count=%d", reason, count)
	}
	for i := 0; i < loaded.Registry.SymbolCount(); i++ {
		symbol, ok := loaded.Registry.SymbolAt(i)
		if !ok {
			continue
		}
		logs.Infof("position %s=%d", symbol.Name, eng.Ledger().Position(symbol.ID))
	}
}

// carryPositions feeds the engine's own ledger back into the snapshot,
// standing in for the harness that would normally report fills.
func carryPositions(eng *engine.Engine, tick schema.Tick) {
	for sym, book := range tick.Books {
		book.Position = eng.Ledger().Position(sym)
		tick.Books[sym] = book
	}
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
