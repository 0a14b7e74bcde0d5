package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"marketmaker/internal/tracelog"
)

func main() {
	logPath := flag.String("log", "", "Trace log path")
	csvPath := flag.String("csv", "", "Write the profit curve as CSV (empty=stdout listing)")
	quiet := flag.Bool("quiet", false, "Only print the final summary")
	flag.Parse()

	if *logPath == "" {
		log.Fatalf("log is required")
	}

	f, err := os.Open(*logPath)
	if err != nil {
		log.Fatalf("open trace log failed: %v", err)
	}
	defer f.Close()

	events, skipped, err := tracelog.ReadAll(f)
	if err != nil {
		log.Fatalf("read trace log failed: %v", err)
	}
	points := tracelog.Profit(events)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, points); err != nil {
			log.Fatalf("write csv failed: %v", err)
		}
	} else if !*quiet {
		for i, p := range points {
			fmt.Printf("%06d time=%d spend=%d profit=%d\n", i+1, p.Time, p.Spend, p.Profit)
		}
	}

	var final int64
	if len(points) > 0 {
		final = points[len(points)-1].Profit
	}
	fmt.Printf("events=%d skipped=%d final_profit=%d\n", len(events), skipped, final)
}

func writeCSV(path string, points []tracelog.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "time,profit"); err != nil {
		return err
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(f, "%d,%d\n", p.Time, p.Profit); err != nil {
			return err
		}
	}
	return nil
}
