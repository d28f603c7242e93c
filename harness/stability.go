// Package harness runs many seasons under one frozen tuning snapshot and
// watches the league-level rates for drift. A stable engine produces
// season KPIs that scatter around a flat mean; a trend between the first
// and second half of the run means some state is leaking across seasons.
package harness

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/simulation"
	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// Config drives one stability run.
type Config struct {
	Seasons   int
	Teams     []*simulation.Team
	Rounds    int
	Seed      int64
	Workers   int
	Tuning    *tuning.Config
	Park      *models.ParkGeometry
	Benchmark *stats.Benchmark

	// DriftTolerance is the allowed absolute difference between first-half
	// and second-half KPI means before a drift warning fires.
	DriftTolerance float64
}

// SeasonKPIs is one season's league rates.
type SeasonKPIs struct {
	Season int     `json:"season"`
	AVG    float64 `json:"avg"`
	OBP    float64 `json:"obp"`
	SLG    float64 `json:"slg"`
	KPct   float64 `json:"k_pct"`
	BBPct  float64 `json:"bb_pct"`
	HRFB   float64 `json:"hr_per_fb"`
}

// DriftWarning flags one KPI whose mean moved between run halves.
type DriftWarning struct {
	KPI        string  `json:"kpi"`
	FirstHalf  float64 `json:"first_half_mean"`
	SecondHalf float64 `json:"second_half_mean"`
	Shift      float64 `json:"shift"`
}

// Report is the stability run's output. Drift never fails the run; the
// warnings are for the operator to judge.
type Report struct {
	Seasons   []SeasonKPIs   `json:"seasons"`
	Combined  stats.StatLine `json:"combined"`
	KPIDeltas []stats.KPIDelta `json:"kpi_deltas,omitempty"`
	Warnings  []DriftWarning `json:"warnings,omitempty"`
}

const defaultDriftTolerance = 0.008

// Run simulates cfg.Seasons consecutive seasons. Every season gets a
// distinct derived seed but the identical tuning snapshot, rosters, and
// park; season order must not matter beyond sampling noise.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Seasons < 1 {
		return nil, fmt.Errorf("harness: at least one season required")
	}
	if cfg.Tuning == nil {
		return nil, fmt.Errorf("harness: tuning snapshot is required")
	}
	tol := cfg.DriftTolerance
	if tol <= 0 {
		tol = defaultDriftTolerance
	}

	report := &Report{}
	combined := stats.StatLine{}

	for season := 0; season < cfg.Seasons; season++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("harness: canceled during season %d: %w", season, err)
		}

		result, err := simulation.RunSeason(ctx, simulation.SeasonConfig{
			RunID:   fmt.Sprintf("stability-s%03d", season),
			Teams:   cfg.Teams,
			Rounds:  cfg.Rounds,
			Seed:    cfg.Seed + int64(season)*1_000_003,
			Workers: cfg.Workers,
			Tuning:  cfg.Tuning,
			Park:    cfg.Park,
		})
		if err != nil {
			return nil, fmt.Errorf("harness: season %d: %w", season, err)
		}

		league := result.Snapshot.League
		report.Seasons = append(report.Seasons, SeasonKPIs{
			Season: season,
			AVG:    league.AVG(),
			OBP:    league.OBP(),
			SLG:    league.SLG(),
			KPct:   league.KPct(),
			BBPct:  league.BBPct(),
			HRFB:   league.HRPerFB(),
		})
		combined.Merge(&league)
		log.Printf("harness: season %d done: avg=%.3f obp=%.3f slg=%.3f k%%=%.3f bb%%=%.3f",
			season, league.AVG(), league.OBP(), league.SLG(), league.KPct(), league.BBPct())
	}

	report.Combined = combined
	if cfg.Benchmark != nil {
		report.KPIDeltas = cfg.Benchmark.Compare(&combined)
	}
	report.Warnings = detectDrift(report.Seasons, tol)
	for _, w := range report.Warnings {
		log.Printf("harness: drift warning: %s moved %.4f (%.4f -> %.4f)",
			w.KPI, w.Shift, w.FirstHalf, w.SecondHalf)
	}
	return report, nil
}

// detectDrift compares first-half and second-half means of each KPI
// series. Needs at least four seasons to say anything.
func detectDrift(seasons []SeasonKPIs, tolerance float64) []DriftWarning {
	if len(seasons) < 4 {
		return nil
	}

	series := map[string]func(SeasonKPIs) float64{
		"AVG":   func(s SeasonKPIs) float64 { return s.AVG },
		"OBP":   func(s SeasonKPIs) float64 { return s.OBP },
		"SLG":   func(s SeasonKPIs) float64 { return s.SLG },
		"K%":    func(s SeasonKPIs) float64 { return s.KPct },
		"BB%":   func(s SeasonKPIs) float64 { return s.BBPct },
		"HR/FB": func(s SeasonKPIs) float64 { return s.HRFB },
	}

	half := len(seasons) / 2
	var warnings []DriftWarning
	for _, name := range []string{"AVG", "OBP", "SLG", "K%", "BB%", "HR/FB"} {
		get := series[name]
		first, second := 0.0, 0.0
		for _, s := range seasons[:half] {
			first += get(s)
		}
		for _, s := range seasons[half:] {
			second += get(s)
		}
		first /= float64(half)
		second /= float64(len(seasons) - half)

		shift := second - first
		if math.Abs(shift) > tolerance {
			warnings = append(warnings, DriftWarning{
				KPI:        name,
				FirstHalf:  first,
				SecondHalf: second,
				Shift:      shift,
			})
		}
	}
	return warnings
}
