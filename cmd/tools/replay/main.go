package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"marketmaker/internal/engine"
	"marketmaker/internal/feed"
	"marketmaker/internal/obs"
	"marketmaker/internal/ops"
	"marketmaker/internal/schema"
	"marketmaker/internal/tracelog"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	snapshotPath := flag.String("snapshots", "", "Tick snapshot fixture (JSON lines)")
	out := flag.String("out", "", "Trace log output path (empty=disabled)")
	flag.Parse()

	if *configPath == "" {
		log.Fatalf("config is required")
	}
	if *snapshotPath == "" {
		log.Fatalf("snapshots is required")
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	var sink engine.Sink
	var writer *tracelog.Writer
	if *out != "" {
		writer, err = tracelog.OpenFile(*out)
		if err != nil {
			log.Fatalf("trace log open failed: %v", err)
		}
		sink = writer
	}

	metrics := obs.NewMetrics()
	eng, err := engine.New(loaded.Registry, loaded.Specs, sink, metrics)
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}

	f, err := os.Open(*snapshotPath)
	if err != nil {
		log.Fatalf("open snapshots failed: %v", err)
	}
	defer f.Close()

	decoder := feed.NewDecoder(f, loaded.Registry)
	var ticks, orders int
	for {
		tick, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("decode snapshot failed: %v", err)
		}
		ticks++
		batch := eng.Run(tick)
		printBatch(loaded.Registry, tick.Time, batch)
		for _, o := range batch {
			orders += len(o)
		}
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			log.Fatalf("trace log close failed: %v", err)
		}
	}

	snap := metrics.Snapshot()
	fmt.Printf("ticks=%d orders=%d bought=%d sold=%d limit_violations=%d\n",
		ticks, orders, snap.BuyQty, snap.SellQty, snap.LimitViolations)
}

func printBatch(reg *schema.Registry, now int64, batch map[schema.SymbolID][]schema.Order) {
	for sym, orders := range batch {
		for _, o := range orders {
			fmt.Printf("%06d %s price=%d qty=%+d additive=%t\n", now, reg.Name(sym), o.Price, o.Qty, o.Additive)
		}
	}
}
