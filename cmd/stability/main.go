// Command stability runs repeated seasons under a frozen tuning snapshot
// and reports league KPIs, benchmark deltas, and any drift between the
// first and second half of the run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jcbarr81/NexGen-BBPro-Win/harness"
	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/simulation"
	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

func main() {
	seasons := flag.Int("seasons", 10, "number of seasons to simulate")
	teams := flag.Int("teams", 8, "teams per season")
	rounds := flag.Int("rounds", 2, "times each ordered matchup plays")
	seed := flag.Int64("seed", 1, "run seed")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel game workers")
	tuningFile := flag.String("tuning", "", "tuning snapshot yaml, default coefficients when empty")
	benchFile := flag.String("benchmark", "", "benchmark yaml, MLB reference when empty")
	drift := flag.Float64("drift-tolerance", 0.008, "half-to-half KPI shift that triggers a warning")
	flag.Parse()

	cfg := tuning.Default()
	if *tuningFile != "" {
		var err error
		cfg, err = tuning.Load(*tuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning: %v", err)
		}
	}

	bench := stats.MLBBenchmark()
	if *benchFile != "" {
		var err error
		bench, err = stats.LoadBenchmark(*benchFile)
		if err != nil {
			log.Fatalf("Failed to load benchmark: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	park := models.NeutralPark()
	report, err := harness.Run(ctx, harness.Config{
		Seasons:        *seasons,
		Teams:          simulation.NeutralLeague(*teams),
		Rounds:         *rounds,
		Seed:           *seed,
		Workers:        *workers,
		Tuning:         cfg,
		Park:           &park,
		Benchmark:      bench,
		DriftTolerance: *drift,
	})
	if err != nil {
		log.Fatalf("Stability run failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if !stats.AllWithin(report.KPIDeltas) {
		log.Println("One or more KPIs outside benchmark tolerance")
		os.Exit(1)
	}
}
