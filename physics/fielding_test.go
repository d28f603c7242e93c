package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

func runner(id string) *models.BaseRunner {
	return &models.BaseRunner{PlayerID: id, Speed: 0.5}
}

func basesFromMask(mask int) models.BaseState {
	var bs models.BaseState
	if mask&1 != 0 {
		bs.First = runner("r1")
	}
	if mask&2 != 0 {
		bs.Second = runner("r2")
	}
	if mask&4 != 0 {
		bs.Third = runner("r3")
	}
	return bs
}

func testBatter() *models.PhysicalParameters {
	return &models.PhysicalParameters{PlayerID: "batter", RunSpeed: 0.5}
}

// TestAdvanceRunnersTotal tests every (occupancy, outcome, outs) combination
// resolves to a legal state with a bounded run count
func TestAdvanceRunnersTotal(t *testing.T) {
	outcomes := []models.OutcomeType{
		models.Strikeout, models.Walk, models.HitByPitch, models.InPlayOut,
		models.Single, models.Double, models.Triple, models.HomeRun,
		models.ReachedOnError,
	}

	for mask := 0; mask < 8; mask++ {
		for _, ot := range outcomes {
			for outs := 0; outs < 3; outs++ {
				bases := basesFromMask(mask)
				before := bases.RunnerCount()
				outcome := models.AtBatOutcome{Type: ot}
				if ot == models.InPlayOut {
					outcome.OutType = models.FlyOut
				}

				runs := AdvanceRunners(&bases, &outcome, testBatter(), outs)

				assert.GreaterOrEqual(t, runs, 0, "mask=%d outcome=%v outs=%d", mask, ot, outs)
				assert.LessOrEqual(t, runs, 4, "mask=%d outcome=%v outs=%d", mask, ot, outs)

				// Nobody vanishes: every runner (plus the batter, when he
				// reaches) either scores or stands on a base.
				after := bases.RunnerCount()
				reached := 0
				switch ot {
				case models.Walk, models.HitByPitch, models.Single, models.Double,
					models.Triple, models.ReachedOnError:
					reached = 1
				}
				if ot == models.HomeRun {
					assert.Equal(t, before+1, runs)
					assert.True(t, bases.IsEmpty())
				} else if ot == models.Strikeout || ot == models.InPlayOut {
					assert.Equal(t, before-runs, after)
				} else {
					assert.Equal(t, before+reached-runs, after)
				}
			}
		}
	}
}

// TestAdvanceRunnersPlacement tests where the batter ends up on each hit
func TestAdvanceRunnersPlacement(t *testing.T) {
	tests := []struct {
		name    string
		mask    int
		outcome models.OutcomeType
		outs    int
		runs    int
		check   func(*testing.T, *models.BaseState)
	}{
		{"single scores second and third", 7, models.Single, 0, 2,
			func(t *testing.T, bs *models.BaseState) {
				assert.Equal(t, "batter", bs.First.PlayerID)
				assert.Equal(t, "r1", bs.Second.PlayerID)
				assert.Nil(t, bs.Third)
			}},
		{"bases loaded two out double scores three", 7, models.Double, 2, 3,
			func(t *testing.T, bs *models.BaseState) {
				assert.Nil(t, bs.First)
				assert.Equal(t, "batter", bs.Second.PlayerID)
				assert.Nil(t, bs.Third)
			}},
		{"triple clears the bases", 7, models.Triple, 1, 3,
			func(t *testing.T, bs *models.BaseState) {
				assert.Nil(t, bs.First)
				assert.Nil(t, bs.Second)
				assert.Equal(t, "batter", bs.Third.PlayerID)
			}},
		{"walk forces only the forced runners", 5, models.Walk, 0, 0,
			func(t *testing.T, bs *models.BaseState) {
				assert.Equal(t, "batter", bs.First.PlayerID)
				assert.Equal(t, "r1", bs.Second.PlayerID)
				assert.Equal(t, "r3", bs.Third.PlayerID)
			}},
		{"bases loaded walk forces in a run", 7, models.Walk, 2, 1,
			func(t *testing.T, bs *models.BaseState) {
				// Every forced runner moves up: r3 scores, r2 takes third.
				assert.Equal(t, "batter", bs.First.PlayerID)
				assert.Equal(t, "r1", bs.Second.PlayerID)
				assert.Equal(t, "r2", bs.Third.PlayerID)
			}},
		{"error moves everyone up one", 3, models.ReachedOnError, 0, 0,
			func(t *testing.T, bs *models.BaseState) {
				assert.Equal(t, "batter", bs.First.PlayerID)
				assert.Equal(t, "r1", bs.Second.PlayerID)
				assert.Equal(t, "r2", bs.Third.PlayerID)
			}},
		{"walk with second only does not advance him", 2, models.Walk, 0, 0,
			func(t *testing.T, bs *models.BaseState) {
				assert.Equal(t, "batter", bs.First.PlayerID)
				assert.Equal(t, "r2", bs.Second.PlayerID)
				assert.Nil(t, bs.Third)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bases := basesFromMask(tt.mask)
			outcome := models.AtBatOutcome{Type: tt.outcome}
			runs := AdvanceRunners(&bases, &outcome, testBatter(), tt.outs)
			assert.Equal(t, tt.runs, runs)
			tt.check(t, &bases)
		})
	}
}

// TestSacrificeFly tests the tag-up rule fires only on fly outs with fewer
// than two outs and a runner on third
func TestSacrificeFly(t *testing.T) {
	bases := basesFromMask(4)
	outcome := models.AtBatOutcome{Type: models.InPlayOut, OutType: models.FlyOut}
	runs := AdvanceRunners(&bases, &outcome, testBatter(), 1)
	assert.Equal(t, 1, runs)
	assert.True(t, outcome.SacFly)
	assert.True(t, bases.IsEmpty())

	bases = basesFromMask(4)
	outcome = models.AtBatOutcome{Type: models.InPlayOut, OutType: models.FlyOut}
	runs = AdvanceRunners(&bases, &outcome, testBatter(), 2)
	assert.Zero(t, runs)
	assert.False(t, outcome.SacFly)
	assert.NotNil(t, bases.Third)

	bases = basesFromMask(4)
	outcome = models.AtBatOutcome{Type: models.InPlayOut, OutType: models.LineOut}
	runs = AdvanceRunners(&bases, &outcome, testBatter(), 0)
	assert.Zero(t, runs)
	assert.NotNil(t, bases.Third)
}

// TestResolvePlayWallClearIsHomeRun tests a wall-clearing ball is a home run
// regardless of the defense
func TestResolvePlayWallClearIsHomeRun(t *testing.T) {
	cfg := tuning.Default()
	rng := rand.New(rand.NewSource(1))

	state := models.NewGameState("g1", "r1")
	state.InningHalf = "bottom"
	state.Bases = basesFromMask(7)
	traj := models.Trajectory{Carry: 410, HangTime: 5.2, LandY: 410, LaunchAngle: 28, ExitVelocity: 106, ClearsWall: true}

	outcome := ResolvePlay(&traj, NeutralDefense(), testBatter(), state, rng, cfg)
	assert.Equal(t, models.HomeRun, outcome.Type)
	assert.Equal(t, 4, outcome.RunsBatted)
	assert.Equal(t, 4, state.HomeScore)
	assert.True(t, state.Bases.IsEmpty())
}

// TestResolvePlayTotality tests every trajectory class yields a defined
// outcome and a consistent state
func TestResolvePlayTotality(t *testing.T) {
	cfg := tuning.Default()
	rng := rand.New(rand.NewSource(5))
	defense := NeutralDefense()

	valid := map[models.OutcomeType]bool{
		models.InPlayOut: true, models.Single: true, models.Double: true,
		models.Triple: true, models.HomeRun: true, models.ReachedOnError: true,
	}

	for i := 0; i < 5000; i++ {
		ev := 40 + rng.Float64()*75
		la := -30 + rng.Float64()*80
		spray := -45 + rng.Float64()*90
		traj, err := ProjectFlight(inPlay(ev, la, spray), nil, cfg)
		require.NoError(t, err)

		state := models.NewGameState("g1", "r1")
		state.Bases = basesFromMask(rng.Intn(8))
		state.Outs = rng.Intn(3)

		outcome := ResolvePlay(&traj, defense, testBatter(), state, rng, cfg)
		assert.True(t, valid[outcome.Type], "outcome %v", outcome.Type)
		assert.True(t, outcome.WasInPlay)
		assert.LessOrEqual(t, state.Outs, 3)
	}
}

// TestGrounderOutRateTracksRunnerSpeed tests fast runners beat out more
// grounders than slow ones
func TestGrounderOutRateTracksRunnerSpeed(t *testing.T) {
	cfg := tuning.Default()
	defense := NeutralDefense()
	traj, err := ProjectFlight(inPlay(88, 4, 10), nil, cfg)
	require.NoError(t, err)

	outRate := func(speed float64, seed int64) float64 {
		rng := rand.New(rand.NewSource(seed))
		batter := &models.PhysicalParameters{PlayerID: "b", RunSpeed: speed}
		outs := 0
		const n = 20000
		for i := 0; i < n; i++ {
			if out := resolveGrounder(&traj, defense, batter, rng, cfg); out.Type == models.InPlayOut {
				outs++
			}
		}
		return float64(outs) / n
	}

	assert.Greater(t, outRate(0.1, 31), outRate(0.9, 31)+0.05)
}

// TestAirBallCatchRateTracksRange tests rangier outfields convert more fly
// balls
func TestAirBallCatchRateTracksRange(t *testing.T) {
	cfg := tuning.Default()
	traj, err := ProjectFlight(inPlay(97, 33, 20), nil, cfg)
	require.NoError(t, err)

	catchRate := func(fieldRange float64) float64 {
		defense := NeutralDefense()
		for pos, f := range defense {
			f.FieldRange = fieldRange
			defense[pos] = f
		}
		rng := rand.New(rand.NewSource(13))
		outs := 0
		const n = 20000
		for i := 0; i < n; i++ {
			if out := resolveAirBall(&traj, defense, testBatter(), rng, cfg); out.Type == models.InPlayOut {
				outs++
			}
		}
		return float64(outs) / n
	}

	assert.Greater(t, catchRate(0.9), catchRate(0.1)+0.05)
}

// TestResolveStealRespectsFrequencyScale tests the attempt gate
func TestResolveStealRespectsFrequencyScale(t *testing.T) {
	cfg := tuning.Default()
	cfg.StealFreqScale = 0
	rng := rand.New(rand.NewSource(2))
	fast := &models.BaseRunner{PlayerID: "r", Speed: 0.95}

	for i := 0; i < 1000; i++ {
		assert.Nil(t, ResolveSteal(fast, NeutralDefense()["C"], rng, cfg))
	}
}

// TestResolveStealSuccessRate tests an average runner succeeds at roughly
// the league break-even rate
func TestResolveStealSuccessRate(t *testing.T) {
	cfg := tuning.Default()
	cfg.StealFreqScale = 20 // force attempts so the sample is the success rate
	rng := rand.New(rand.NewSource(9))
	avg := &models.BaseRunner{PlayerID: "r", Speed: 0.5}
	catcher := NeutralDefense()["C"]

	attempts, successes := 0, 0
	for i := 0; i < 40000; i++ {
		ev := ResolveSteal(avg, catcher, rng, cfg)
		if ev == nil {
			continue
		}
		attempts++
		if ev.Success {
			successes++
		}
	}
	require.Greater(t, attempts, 8000)
	rate := float64(successes) / float64(attempts)
	assert.InDelta(t, 0.74, rate, 0.05)
}
