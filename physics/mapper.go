// Package physics implements the at-bat resolution pipeline: rating
// mapping, pitch generation, swing and contact resolution, ball flight, and
// fielding/outcome resolution. Every stochastic step draws from an explicit
// *rand.Rand supplied by the caller; given the same ratings, park, tuning
// and seed the pipeline produces bit-identical outcome sequences.
package physics

import (
	"fmt"
	"math"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// paramFloor and paramCeil bound every mapped parameter. Situational
// modifiers are clamped here; because the modifiers never depend on the
// rating being mapped, clamping cannot invert monotonicity.
const (
	paramFloor = 0.02
	paramCeil  = 0.98
)

// normalize maps a 0-99 rating onto [0.08, 0.92] linearly. Affine in the
// rating, so better ratings always map to a better parameter.
func normalize(rating int) float64 {
	return 0.08 + 0.84*float64(rating)/float64(models.RatingScale)
}

func clampParam(v float64) float64 {
	if v < paramFloor {
		return paramFloor
	}
	if v > paramCeil {
		return paramCeil
	}
	return v
}

// platoonFactor is the matchup multiplier applied to a batter's contact and
// discipline. Same-hand matchups play slightly down, opposite-hand slightly
// up. Independent of the batter's own ratings.
func platoonFactor(batter, pitcher models.Hand) float64 {
	if batter == pitcher {
		return 0.96
	}
	return 1.02
}

// fatigueFactor degrades a pitcher's control and velocity once the pitch
// count passes the tuned fatigue start. The penalty grows linearly through
// the fatigue limit window and is floored so a gassed pitcher still
// functions.
func fatigueFactor(pitches int, cfg *tuning.Config) float64 {
	excess := float64(pitches) - cfg.FatigueStartBase
	if excess <= 0 {
		return 1.0
	}
	window := cfg.FatigueLimitBase
	if window < 1 {
		window = 1
	}
	penalty := 0.12 * cfg.FatigueDecayScale * excess / window
	if penalty > 0.20 {
		penalty = 0.20
	}
	return 1.0 - penalty
}

// MapBatter derives a batter's physical parameters for one at-bat. Pure:
// same inputs, same outputs. Each output is monotonic non-decreasing in the
// corresponding rating.
func MapBatter(r *models.PlayerRatings, sit models.Situation, cfg *tuning.Config) (models.PhysicalParameters, error) {
	if err := r.Validate(); err != nil {
		return models.PhysicalParameters{}, err
	}
	pf := platoonFactor(r.Bats, sit.OpponentHand)
	p := models.PhysicalParameters{
		PlayerID:   r.PlayerID,
		Hand:       r.Bats,
		BatContact: clampParam(normalize(r.Contact) * pf),
		BatPower:   clampParam(normalize(r.Power)),
		Discipline: clampParam(normalize(r.Eye) * pf),
		RunSpeed:   clampParam(normalize(r.Speed) * cfg.SpeedScale),
	}
	if !p.Finite() {
		return models.PhysicalParameters{}, fmt.Errorf("physics: mapper produced non-finite batter parameters for %s", r.PlayerID)
	}
	return p, nil
}

// MapPitcher derives a pitcher's physical parameters for one at-bat,
// applying accumulated fatigue to control and velocity.
func MapPitcher(r *models.PlayerRatings, sit models.Situation, cfg *tuning.Config) (models.PhysicalParameters, error) {
	if err := r.Validate(); err != nil {
		return models.PhysicalParameters{}, err
	}
	ff := fatigueFactor(sit.PitchesThrown, cfg)
	velo := clampParam(normalize(r.Velocity) * ff)
	p := models.PhysicalParameters{
		PlayerID:      r.PlayerID,
		Hand:          r.Throws,
		PitchVelocity: velo,
		VelocityMPH:   (86.0 + 12.0*velo) * cfg.VelocityScale,
		PitchMovement: clampParam(normalize(r.Movement) * cfg.MovementScale),
		PitchControl:  clampParam(normalize(r.Control) * ff),
		Role:          r.Role,
	}
	if !p.Finite() || math.IsNaN(p.VelocityMPH) {
		return models.PhysicalParameters{}, fmt.Errorf("physics: mapper produced non-finite pitcher parameters for %s", r.PlayerID)
	}
	return p, nil
}

// MapFielder derives a fielder's physical parameters.
func MapFielder(r *models.PlayerRatings, cfg *tuning.Config) (models.PhysicalParameters, error) {
	if err := r.Validate(); err != nil {
		return models.PhysicalParameters{}, err
	}
	p := models.PhysicalParameters{
		PlayerID:   r.PlayerID,
		Hand:       r.Throws,
		RunSpeed:   clampParam(normalize(r.Speed) * cfg.SpeedScale),
		FieldRange: clampParam(normalize(r.Range) * cfg.RangeScale),
		FieldArm:   clampParam(normalize(r.Arm) * cfg.ArmStrengthScale),
		FieldHands: clampParam(normalize(r.Hands)),
	}
	if !p.Finite() {
		return models.PhysicalParameters{}, fmt.Errorf("physics: mapper produced non-finite fielder parameters for %s", r.PlayerID)
	}
	return p, nil
}
