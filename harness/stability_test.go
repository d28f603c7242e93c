package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcbarr81/NexGen-BBPro-Win/simulation"
	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

func flatSeasons(n int, avg float64) []SeasonKPIs {
	seasons := make([]SeasonKPIs, 0, n)
	for i := 0; i < n; i++ {
		seasons = append(seasons, SeasonKPIs{
			Season: i, AVG: avg, OBP: 0.315, SLG: 0.400,
			KPct: 0.225, BBPct: 0.085, HRFB: 0.125,
		})
	}
	return seasons
}

// TestDetectDriftFlatSeries tests a flat KPI series raises nothing
func TestDetectDriftFlatSeries(t *testing.T) {
	assert.Empty(t, detectDrift(flatSeasons(10, 0.248), 0.008))
}

// TestDetectDriftTrendingSeries tests a trending KPI is flagged with the
// half-to-half shift
func TestDetectDriftTrendingSeries(t *testing.T) {
	seasons := flatSeasons(10, 0.248)
	for i := range seasons {
		seasons[i].AVG = 0.240 + 0.003*float64(i)
	}

	warnings := detectDrift(seasons, 0.008)
	require.Len(t, warnings, 1)
	assert.Equal(t, "AVG", warnings[0].KPI)
	assert.InDelta(t, 0.015, warnings[0].Shift, 1e-9)
	assert.Greater(t, warnings[0].SecondHalf, warnings[0].FirstHalf)
}

// TestDetectDriftNeedsSample tests fewer than four seasons yields no
// verdict
func TestDetectDriftNeedsSample(t *testing.T) {
	seasons := flatSeasons(3, 0.248)
	seasons[2].AVG = 0.400 // wild swing, sample still too small
	assert.Nil(t, detectDrift(seasons, 0.008))
}

// TestRunValidation tests the harness preconditions
func TestRunValidation(t *testing.T) {
	_, err := Run(context.Background(), Config{Seasons: 0, Tuning: tuning.Default()})
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Seasons: 1, Teams: simulation.NeutralLeague(2)})
	assert.Error(t, err)
}

// TestRunSmallStabilityPass tests a short run produces per-season KPIs and
// combined totals that agree
func TestRunSmallStabilityPass(t *testing.T) {
	report, err := Run(context.Background(), Config{
		Seasons:   4,
		Teams:     simulation.NeutralLeague(2),
		Rounds:    2,
		Seed:      15,
		Workers:   2,
		Tuning:    tuning.Default(),
		Benchmark: stats.MLBBenchmark(),
	})
	require.NoError(t, err)

	require.Len(t, report.Seasons, 4)
	for i, s := range report.Seasons {
		assert.Equal(t, i, s.Season)
		assert.Greater(t, s.AVG, 0.0)
	}
	assert.Greater(t, report.Combined.PA, 4*4*45)
	assert.Len(t, report.KPIDeltas, 7)
}

// TestRunCanceled tests cancellation surfaces instead of a partial report
func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{
		Seasons: 2,
		Teams:   simulation.NeutralLeague(2),
		Rounds:  1,
		Tuning:  tuning.Default(),
	})
	assert.Error(t, err)
}
