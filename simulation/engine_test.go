package simulation

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

func gameConfig(seed int64) GameConfig {
	return GameConfig{
		GameID: "g1",
		RunID:  "r1",
		Home:   NeutralTeam("home"),
		Away:   NeutralTeam("away"),
		Tuning: tuning.Default(),
		Seed:   seed,
	}
}

// TestSimulateGameDeterministic tests the same seed replays the identical
// game
func TestSimulateGameDeterministic(t *testing.T) {
	a, err := SimulateGame(gameConfig(42))
	require.NoError(t, err)
	b, err := SimulateGame(gameConfig(42))
	require.NoError(t, err)

	assert.Equal(t, a.HomeScore, b.HomeScore)
	assert.Equal(t, a.AwayScore, b.AwayScore)
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Recorder.Snapshot(), b.Recorder.Snapshot())
}

// TestSimulateGameShape tests a finished game has a coherent score and
// plausible stat volume
func TestSimulateGameShape(t *testing.T) {
	result, err := SimulateGame(gameConfig(7))
	require.NoError(t, err)

	snap := result.Recorder.Snapshot()
	// Both lineups bat most of the game; caught stealings can shave a few
	// plate appearances off the 27-out floor.
	assert.GreaterOrEqual(t, snap.League.PA, 45)
	assert.Len(t, snap.Batters, 18)

	switch result.Winner {
	case "home":
		assert.Greater(t, result.HomeScore, result.AwayScore)
	case "away":
		assert.Greater(t, result.AwayScore, result.HomeScore)
	case "tie":
		assert.Equal(t, result.HomeScore, result.AwayScore)
	default:
		t.Fatalf("unknown winner %q", result.Winner)
	}
}

// TestSimulateGameValidation tests roster and config preconditions
func TestSimulateGameValidation(t *testing.T) {
	short := NeutralTeam("x")
	short.Lineup = short.Lineup[:8]

	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"short lineup", func(c *GameConfig) { c.Home = short }},
		{"no pitchers", func(c *GameConfig) {
			team := NeutralTeam("y")
			team.Pitchers = nil
			c.Away = team
		}},
		{"missing tuning", func(c *GameConfig) { c.Tuning = nil }},
		{"invalid rating", func(c *GameConfig) {
			team := NeutralTeam("z")
			team.Lineup[0].Contact = 200
			c.Home = team
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := gameConfig(1)
			tt.mutate(&cfg)
			_, err := SimulateGame(cfg)
			assert.Error(t, err)
		})
	}
}

// TestRunSeasonSchedule tests the round-robin produces the expected game
// count and a consistent ledger
func TestRunSeasonSchedule(t *testing.T) {
	teams := NeutralLeague(4)
	result, err := RunSeason(context.Background(), SeasonConfig{
		RunID:   "season-test",
		Teams:   teams,
		Rounds:  2,
		Seed:    11,
		Workers: 3,
		Tuning:  tuning.Default(),
	})
	require.NoError(t, err)

	// 4 teams, every ordered pair, twice.
	assert.Equal(t, 24, result.Games)

	totalWins := 0
	for _, w := range result.Wins {
		totalWins += w
	}
	assert.LessOrEqual(t, totalWins, result.Games)
	assert.Greater(t, totalWins, 0)
	assert.Greater(t, result.Snapshot.League.PA, 24*45)
	assert.Nil(t, result.KPIDeltas)
}

// TestRunSeasonDeterministicAcrossWorkerCounts tests worker scheduling
// cannot change the season totals
func TestRunSeasonDeterministicAcrossWorkerCounts(t *testing.T) {
	run := func(workers int) *SeasonResult {
		result, err := RunSeason(context.Background(), SeasonConfig{
			RunID:   "season-det",
			Teams:   NeutralLeague(3),
			Rounds:  1,
			Seed:    5,
			Workers: workers,
			Tuning:  tuning.Default(),
		})
		require.NoError(t, err)
		return result
	}

	serial := run(1)
	parallel := run(8)
	assert.Equal(t, serial.Snapshot, parallel.Snapshot)
	assert.Equal(t, serial.Wins, parallel.Wins)
}

// TestRunSeasonBenchmarkComparison tests a benchmark on the config yields
// one delta per KPI
func TestRunSeasonBenchmarkComparison(t *testing.T) {
	result, err := RunSeason(context.Background(), SeasonConfig{
		RunID:     "season-kpi",
		Teams:     NeutralLeague(2),
		Rounds:    1,
		Seed:      9,
		Workers:   2,
		Tuning:    tuning.Default(),
		Benchmark: stats.MLBBenchmark(),
	})
	require.NoError(t, err)
	assert.Len(t, result.KPIDeltas, 7)
}

// TestRunSeasonCanceled tests cancellation discards unfinished games
// without corrupting totals
func TestRunSeasonCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := RunSeason(ctx, SeasonConfig{
		RunID:   "season-cancel",
		Teams:   NeutralLeague(6),
		Rounds:  4,
		Seed:    3,
		Workers: 2,
		Tuning:  tuning.Default(),
	})
	require.NoError(t, err)
	assert.Less(t, result.Games, 120)
}

// TestRunSeasonRejectsTinyLeague tests the two-team minimum
func TestRunSeasonRejectsTinyLeague(t *testing.T) {
	_, err := RunSeason(context.Background(), SeasonConfig{
		RunID:  "season-one",
		Teams:  NeutralLeague(1),
		Tuning: tuning.Default(),
	})
	assert.Error(t, err)
}

// TestGenerateLeagueDeterministic tests roster generation is reproducible
// from the rng
func TestGenerateLeagueDeterministic(t *testing.T) {
	a := GenerateLeague(4, rand.New(rand.NewSource(77)))
	b := GenerateLeague(4, rand.New(rand.NewSource(77)))
	require.Len(t, a, 4)
	for i := range a {
		assert.NoError(t, a[i].Validate())
		assert.Equal(t, a[i].Lineup, b[i].Lineup)
		assert.Equal(t, a[i].Pitchers, b[i].Pitchers)
	}
}
