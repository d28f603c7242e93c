package physics

import (
	"math"
	"math/rand"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// Position names follow standard scorekeeping abbreviations.
var positionNames = []string{"P", "C", "1B", "2B", "SS", "3B", "LF", "CF", "RF"}

// fielderSpot is a starting position in field coordinates: X toward the
// first-base line, Y toward center field, feet from home plate.
type fielderSpot struct {
	x, y float64
}

// Standard defensive alignment. No shift modeling.
var fielderSpots = map[string]fielderSpot{
	"P":  {0, 60},
	"C":  {0, -3},
	"1B": {spotX(28, 110), spotY(28, 110)},
	"2B": {spotX(12, 150), spotY(12, 150)},
	"SS": {spotX(-12, 150), spotY(-12, 150)},
	"3B": {spotX(-28, 110), spotY(-28, 110)},
	"LF": {spotX(-26, 285), spotY(-26, 285)},
	"CF": {spotX(0, 315), spotY(0, 315)},
	"RF": {spotX(26, 285), spotY(26, 285)},
}

func spotX(angleDeg, dist float64) float64 { return dist * math.Sin(angleDeg*math.Pi/180) }
func spotY(angleDeg, dist float64) float64 { return dist * math.Cos(angleDeg*math.Pi/180) }

// Defense is the nine fielders' physical parameters keyed by position.
type Defense map[string]models.PhysicalParameters

// NeutralDefense builds a league-average defense, used by the harness and
// by tests.
func NeutralDefense() Defense {
	d := make(Defense, len(positionNames))
	for _, pos := range positionNames {
		d[pos] = models.PhysicalParameters{
			PlayerID:   "avg-" + pos,
			RunSpeed:   0.5,
			FieldRange: 0.5,
			FieldArm:   0.5,
			FieldHands: 0.5,
		}
	}
	return d
}

// nearestFielder returns the position and distance of the closest fielder
// to a landing point, restricted to the given candidates.
func nearestFielder(traj *models.Trajectory, candidates []string) (string, float64) {
	best := ""
	bestDist := math.MaxFloat64
	for _, pos := range candidates {
		spot := fielderSpots[pos]
		d := math.Hypot(traj.LandX-spot.x, traj.LandY-spot.y)
		if d < bestDist {
			best = pos
			bestDist = d
		}
	}
	return best, bestDist
}

var infieldPositions = []string{"P", "1B", "2B", "SS", "3B"}
var outfieldPositions = []string{"LF", "CF", "RF"}

// ResolvePlay converts a ball in play into a final outcome and advances
// the baserunners on state. Wall-clearing fair balls are home runs
// unconditionally; everything else runs through the fielding model.
// Deterministic given rng.
func ResolvePlay(traj *models.Trajectory, defense Defense, batter *models.PhysicalParameters, state *models.GameState, rng *rand.Rand, cfg *tuning.Config) models.AtBatOutcome {
	if traj.ClearsWall {
		outcome := models.AtBatOutcome{Type: models.HomeRun, WasInPlay: true, BallClass: traj.Class()}
		runs := AdvanceRunners(&state.Bases, &outcome, batter, state.Outs)
		outcome.RunsBatted = runs
		state.AddRuns(runs)
		return outcome
	}

	var outcome models.AtBatOutcome
	if traj.Class() == models.GroundBall {
		outcome = resolveGrounder(traj, defense, batter, rng, cfg)
	} else {
		outcome = resolveAirBall(traj, defense, batter, rng, cfg)
	}
	outcome.WasInPlay = true
	outcome.BallClass = traj.Class()

	runs := AdvanceRunners(&state.Bases, &outcome, batter, state.Outs)
	outcome.RunsBatted = runs
	state.AddRuns(runs)
	if outcome.Type == models.InPlayOut {
		state.Outs++
	}
	return outcome
}

// resolveGrounder handles balls hit into the ground: an infielder must
// intercept the ball along its path, then the throw must beat the runner.
func resolveGrounder(traj *models.Trajectory, defense Defense, batter *models.PhysicalParameters, rng *rand.Rand, cfg *tuning.Config) models.AtBatOutcome {
	sprayRad := traj.SprayAngle * math.Pi / 180
	ux, uy := math.Sin(sprayRad), math.Cos(sprayRad)

	// Friction-averaged ball speed along the ground.
	ballSpeed := traj.ExitVelocity * mphToFtPerS * math.Cos(traj.LaunchAngle*math.Pi/180) * 0.65
	if ballSpeed < 25 {
		ballSpeed = 25
	}

	// Best intercept margin across the infield: lateral distance to the
	// ball's line against ground covered by the time the ball arrives.
	bestMargin := math.Inf(-1)
	bestPos := "SS"
	timeToFielder := 1.0
	for _, pos := range infieldPositions {
		spot := fielderSpots[pos]
		along := spot.x*ux + spot.y*uy
		if along < 10 {
			continue
		}
		lateral := math.Abs(-spot.x*uy + spot.y*ux)
		t := along / ballSpeed
		cover := (t - 0.25) * (9.0 + 14.0*defense[pos].FieldRange)
		if cover < 0 {
			cover = 0
		}
		if margin := cover - lateral; margin > bestMargin {
			bestMargin = margin
			bestPos = pos
			timeToFielder = t
		}
	}
	fielder := defense[bestPos]
	fieldProb := logistic((bestMargin + 0.6) / 3.5)

	// Throw race: release plus ball flight against the runner's 90 feet.
	throwTime := 0.55 + timeToFielder + 127.0/(95.0+55.0*fielder.FieldArm)
	runnerTime := 4.35 - 1.05*batter.RunSpeed
	outProb := fieldProb * logistic((runnerTime-throwTime)/0.22)
	outProb /= cfg.BABIPScale

	if rng.Float64() < outProb {
		if rng.Float64() < errorProbability(fielder, cfg) {
			return models.AtBatOutcome{Type: models.ReachedOnError, FielderID: fielder.PlayerID}
		}
		return models.AtBatOutcome{Type: models.InPlayOut, OutType: models.GroundOut, FielderID: fielder.PlayerID}
	}

	// Through the infield. Grounders down the lines go for extra bases
	// rarely; nearly all grounder hits are singles.
	if traj.Carry > 210 && math.Abs(traj.SprayAngle) > 30 && rng.Float64() < 0.30*cfg.XBHLift {
		return models.AtBatOutcome{Type: models.Double}
	}
	return models.AtBatOutcome{Type: models.Single}
}

// resolveAirBall handles line drives, fly balls, and popups with a
// range-versus-hang-time catch model.
func resolveAirBall(traj *models.Trajectory, defense Defense, batter *models.PhysicalParameters, rng *rand.Rand, cfg *tuning.Config) models.AtBatOutcome {
	pos, dist := nearestFielder(traj, positionNames[1:]) // catcher rarely, pitcher excluded
	fielder := defense[pos]

	// Ground covered while the ball is in the air, after a reaction delay.
	// Liners give the least time to read; popups hang over someone's head.
	reaction := 0.60
	switch traj.Class() {
	case models.LineDrive:
		reaction = 1.00
	case models.PopUp:
		reaction = 0.30
	}
	speed := 13.0 + 15.0*fielder.FieldRange
	coverage := math.Max(0, traj.HangTime-reaction) * speed
	catchProb := logistic((coverage + 7.0 - dist) / 8.0)
	catchProb /= cfg.BABIPScale
	if catchProb > 0.995 {
		catchProb = 0.995
	}

	if rng.Float64() < catchProb {
		if rng.Float64() < errorProbability(fielder, cfg) {
			return models.AtBatOutcome{Type: models.ReachedOnError, FielderID: fielder.PlayerID}
		}
		outType := models.FlyOut
		switch traj.Class() {
		case models.LineDrive:
			outType = models.LineOut
		case models.PopUp:
			outType = models.PopOut
		}
		return models.AtBatOutcome{Type: models.InPlayOut, OutType: outType, FielderID: fielder.PlayerID}
	}

	return classifyHit(traj, batter, rng, cfg)
}

// classifyHit buckets an uncaught air ball into single/double/triple from
// landing depth, spray, and batter speed.
func classifyHit(traj *models.Trajectory, batter *models.PhysicalParameters, rng *rand.Rand, cfg *tuning.Config) models.AtBatOutcome {
	carry := traj.Carry
	nearLine := math.Abs(traj.SprayAngle) > 30
	inGap := math.Abs(traj.SprayAngle) > 12 && math.Abs(traj.SprayAngle) < 35

	tripleProb := 0.0
	doubleProb := 0.0
	switch {
	case carry > 320:
		doubleProb = 0.84
		tripleProb = 0.06 + 0.16*batter.RunSpeed
	case carry > 255:
		doubleProb = 0.58
		if inGap || nearLine {
			doubleProb = 0.78
		}
		tripleProb = 0.02 + 0.08*batter.RunSpeed
		if !nearLine && !inGap {
			tripleProb = 0
		}
	case carry > 200 && (inGap || nearLine):
		doubleProb = 0.52
	}
	doubleProb *= cfg.XBHLift
	tripleProb *= cfg.XBHLift

	roll := rng.Float64()
	if roll < tripleProb {
		return models.AtBatOutcome{Type: models.Triple}
	}
	if roll < tripleProb+doubleProb {
		return models.AtBatOutcome{Type: models.Double}
	}
	return models.AtBatOutcome{Type: models.Single}
}

// errorProbability is the chance a makeable play is booted, governed by the
// tuned error rate and the fielder's hands.
func errorProbability(fielder models.PhysicalParameters, cfg *tuning.Config) float64 {
	return 0.016 * cfg.ErrorRateScale * (1.35 - fielder.FieldHands)
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
