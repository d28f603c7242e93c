package physics

import (
	"fmt"
	"math/rand"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// AtBatInput bundles everything one at-bat resolution needs. Physical
// parameters are recomputed by the caller for every at-bat; nothing here
// survives past the at-bat.
type AtBatInput struct {
	Batter  *models.PhysicalParameters
	Pitcher *models.PhysicalParameters
	Defense Defense
	Park    *models.ParkGeometry // nil means park factors are disabled
}

// SimulateAtBat runs the pitch-by-pitch loop for one at-bat and produces
// exactly one outcome. Balls, strikes and fouls accumulate per standard
// rules; contact sends the ball through flight projection and fielding
// resolution. Deterministic given rng.
func SimulateAtBat(in AtBatInput, state *models.GameState, rng *rand.Rand, cfg *tuning.Config) (models.AtBatOutcome, error) {
	if in.Batter == nil || in.Pitcher == nil {
		return models.AtBatOutcome{}, fmt.Errorf("physics: at-bat requires batter and pitcher parameters")
	}
	if !in.Batter.Finite() || !in.Pitcher.Finite() {
		return models.AtBatOutcome{}, fmt.Errorf("physics: non-finite physical parameters entering at-bat (batter=%s pitcher=%s)",
			in.Batter.PlayerID, in.Pitcher.PlayerID)
	}
	defense := in.Defense
	if defense == nil {
		defense = NeutralDefense()
	}

	state.Count = models.Count{}
	pitches := 0

	for {
		pitches++
		if pitches > 30 {
			return models.AtBatOutcome{}, fmt.Errorf("physics: at-bat failed to resolve after %d pitches (batter=%s pitcher=%s)",
				pitches, in.Batter.PlayerID, in.Pitcher.PlayerID)
		}

		pitch := ThrowPitch(in.Pitcher, state.Count, rng, cfg)
		contact := ResolveContact(in.Batter, &pitch, state.Count, rng, cfg)

		switch contact.Kind {
		case models.NoSwing:
			if calledStrike(&pitch, cfg) {
				state.Count.Strikes++
			} else {
				// A pitch well inside can clip the batter.
				if hitsBatter(&pitch, in.Batter, rng, cfg) {
					outcome := models.AtBatOutcome{Type: models.HitByPitch, Pitches: pitches}
					runs := AdvanceRunners(&state.Bases, &outcome, in.Batter, state.Outs)
					outcome.RunsBatted = runs
					state.AddRuns(runs)
					return outcome, nil
				}
				state.Count.Balls++
			}

		case models.SwingMiss:
			state.Count.Strikes++

		case models.FoulBall:
			if state.Count.Strikes < 2 {
				state.Count.Strikes++
			}

		case models.InPlay:
			traj, err := ProjectFlight(&contact, in.Park, cfg)
			if err != nil {
				return models.AtBatOutcome{}, err
			}
			outcome := ResolvePlay(&traj, defense, in.Batter, state, rng, cfg)
			outcome.Pitches = pitches
			return outcome, nil
		}

		if state.Count.Strikes >= 3 {
			state.Outs++
			return models.AtBatOutcome{Type: models.Strikeout, Pitches: pitches}, nil
		}
		if state.Count.Balls >= 4 {
			outcome := models.AtBatOutcome{Type: models.Walk, Pitches: pitches}
			runs := AdvanceRunners(&state.Bases, &outcome, in.Batter, state.Outs)
			outcome.RunsBatted = runs
			state.AddRuns(runs)
			return outcome, nil
		}
	}
}

// calledStrike applies the umpire's zone to a taken pitch. walk_scale
// shrinks the effective called zone (more balls, more walks) without
// touching the swing-and-miss path.
func calledStrike(pitch *models.PitchEvent, cfg *tuning.Config) bool {
	edge := 1.0 + 0.10*(1.0-cfg.WalkScale)
	return absFloat(pitch.LocX) <= edge && absFloat(pitch.LocZ) <= edge
}

// hitsBatter checks a taken ball for plunking the batter. Only pitches
// well off the plate qualify.
func hitsBatter(pitch *models.PitchEvent, batter *models.PhysicalParameters, rng *rand.Rand, cfg *tuning.Config) bool {
	inside := pitch.LocX
	if batter.Hand == models.LeftHanded {
		inside = -pitch.LocX
	}
	if inside > -1.5 {
		return false
	}
	return rng.Float64() < cfg.HBPRate*12
}

// ResolveSteal resolves one stolen-base attempt of second by the runner on
// first: whether the runner goes, and whether they beat the throw.
// Returns nil when no attempt happens. Deterministic given rng.
func ResolveSteal(runner *models.BaseRunner, catcher models.PhysicalParameters, rng *rand.Rand, cfg *tuning.Config) *models.BaseEvent {
	attemptProb := cfg.StealFreqScale * 0.05 * runner.Speed * runner.Speed
	if rng.Float64() >= attemptProb {
		return nil
	}
	successProb := 0.62 + 0.42*runner.Speed - 0.18*catcher.FieldArm
	if successProb > 0.97 {
		successProb = 0.97
	}
	if successProb < 0.10 {
		successProb = 0.10
	}
	return &models.BaseEvent{
		RunnerID: runner.PlayerID,
		Success:  rng.Float64() < successProb,
	}
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
