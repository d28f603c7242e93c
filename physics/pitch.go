package physics

import (
	"math"
	"math/rand"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// countLeverage is the explicit count-pressure policy. It returns a bias in
// [-1, 1]: positive when the pitcher is behind and must come into the zone,
// negative when ahead and free to work the edges. Linear in the count
// differential, with a surge at three balls and an easing at two strikes
// (a waste pitch costs nothing).
func countLeverage(count models.Count) float64 {
	l := float64(count.Balls-count.Strikes) / 3.0
	if count.Balls == 3 {
		l += 0.35
	}
	if count.Strikes == 2 && count.Balls < 3 {
		l -= 0.20
	}
	if l > 1 {
		l = 1
	}
	if l < -1 {
		l = -1
	}
	return l
}

// pitchMix returns selection weights per pitch type. Starters carry the
// full mix; relievers and unknown-role pitchers lean fastball/slider.
// Behind in the count everyone leans on the fastball.
func pitchMix(role models.PitcherRole, leverage float64) [6]float64 {
	var mix [6]float64
	switch role {
	case models.RoleStarter:
		mix = [6]float64{0.36, 0.10, 0.08, 0.18, 0.14, 0.14}
	default:
		mix = [6]float64{0.44, 0.08, 0.08, 0.24, 0.08, 0.08}
	}
	if leverage > 0 {
		// Shift weight toward the fastball when behind.
		shift := 0.18 * leverage
		mix[models.Fastball] += shift
		mix[models.Slider] -= shift * 0.5
		mix[models.Curveball] -= shift * 0.25
		mix[models.Changeup] -= shift * 0.25
	}
	for i := range mix {
		if mix[i] < 0.01 {
			mix[i] = 0.01
		}
	}
	return mix
}

// veloDelta is the velocity offset from the pitcher's fastball, per type.
var veloDelta = [6]float64{0, -1.5, -3, -7, -12, -9}

// ThrowPitch draws one pitch. The location distribution is a 2D normal
// around a count-dependent target: its spread narrows as control rises and
// its center pulls toward the heart of the zone as leverage demands
// strikes. Deterministic given rng.
func ThrowPitch(pitcher *models.PhysicalParameters, count models.Count, rng *rand.Rand, cfg *tuning.Config) models.PitchEvent {
	lev := countLeverage(count)

	mix := pitchMix(pitcher.Role, lev)
	total := 0.0
	for _, w := range mix {
		total += w
	}
	roll := rng.Float64() * total
	pt := models.Fastball
	for i, w := range mix {
		if roll < w {
			pt = models.PitchType(i)
			break
		}
		roll -= w
	}

	// Target: a point at radius r from the zone center, angle uniform.
	// Behind in the count the target collapses toward the middle.
	targetRadius := 1.00 - 0.45*lev
	if targetRadius < 0.15 {
		targetRadius = 0.15
	}
	theta := rng.Float64() * 2 * math.Pi
	tx := targetRadius * math.Cos(theta)
	tz := targetRadius * math.Sin(theta)

	// Command spread shrinks with control.
	sigma := cfg.CommandVarianceScale * (0.80 - 0.60*pitcher.PitchControl)
	if sigma < 0.10 {
		sigma = 0.10
	}
	locX := tx + rng.NormFloat64()*sigma
	locZ := tz + rng.NormFloat64()*sigma

	velo := pitcher.VelocityMPH + veloDelta[pt] + rng.NormFloat64()*0.8
	breakScale := pitcher.PitchMovement * (6 + 10*typeBreak(pt))
	breakX := breakScale * (0.4 + 0.6*rng.Float64())
	breakZ := breakScale * (0.3 + 0.7*rng.Float64())

	ev := models.PitchEvent{
		Type:     pt,
		LocX:     locX,
		LocZ:     locZ,
		Velocity: velo,
		BreakX:   breakX,
		BreakZ:   breakZ,
	}
	ev.Quality = pitchQuality(&ev, pitcher, cfg)
	return ev
}

// typeBreak scales movement by pitch type; breaking balls move most.
func typeBreak(pt models.PitchType) float64 {
	switch pt {
	case models.Slider, models.Curveball:
		return 1.0
	case models.Sinker, models.Cutter, models.Changeup:
		return 0.6
	default:
		return 0.25
	}
}

// pitchQuality scores a pitch in [0,1] from velocity, movement, and
// proximity to a zone edge. Edge pitches are hard to square up; pitches
// down the middle or far off the plate score low on location.
func pitchQuality(ev *models.PitchEvent, pitcher *models.PhysicalParameters, cfg *tuning.Config) float64 {
	veloNorm := (ev.Velocity - 72.0) / 30.0
	if veloNorm < 0 {
		veloNorm = 0
	}
	if veloNorm > 1 {
		veloNorm = 1
	}
	edge := ev.EdgeDistance()
	locScore := math.Exp(-2.2 * edge)
	q := (0.34*veloNorm + 0.28*pitcher.PitchMovement + 0.38*locScore) * cfg.PitchingDomScale
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	return q
}
