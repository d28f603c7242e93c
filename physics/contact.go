package physics

import (
	"math"
	"math/rand"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// swingProbability models the batter's swing decision. Discipline works in
// both directions: a disciplined batter swings more at strikes and chases
// less out of the zone. With two strikes, aggression rises in the zone and
// the protect coefficient expands defensive swings on close pitches.
func swingProbability(batter *models.PhysicalParameters, pitch *models.PitchEvent, count models.Count, cfg *tuning.Config) float64 {
	var p float64
	if pitch.InZone() {
		p = cfg.ZoneSwingScale * (0.58 + 0.22*batter.Discipline)
		if count.Strikes == 2 {
			p *= cfg.TwoStrikeAggression
		}
	} else {
		// Distance beyond the nearest zone edge, in zone units.
		outside := pitch.EdgeDistance()
		p = cfg.ChaseScale * (0.62 - 0.42*batter.Discipline) * math.Exp(-1.8*outside)
		if count.Strikes == 2 {
			// Protect the zone: defensive swings on borderline pitches.
			p += (1 - p) * cfg.TwoStrikeZoneProtect * 0.28 * math.Exp(-3.0*outside)
		}
	}
	if p < 0 {
		p = 0
	}
	if p > 0.97 {
		p = 0.97
	}
	return p
}

// contactProbability is the chance a swing touches the ball, from the gap
// between the batter's contact skill and the pitch's quality. Chased
// pitches are harder to reach.
func contactProbability(batter *models.PhysicalParameters, pitch *models.PitchEvent, cfg *tuning.Config) float64 {
	p := cfg.ContactProbScale * (0.80 + 0.26*(batter.BatContact-0.5) - 0.30*(pitch.Quality-0.5))
	if !pitch.InZone() {
		p *= 0.72
	}
	// k_scale operates on the whiff side so raising it raises strikeouts
	// without touching the called-strike path.
	p = 1 - (1-p)*cfg.KScale
	if p < 0.05 {
		p = 0.05
	}
	if p > 0.99 {
		p = 0.99
	}
	return p
}

// exitParameters draws the batted-ball vector. Means rise with power and
// contact; variance shrinks as skill rises, so high-skill batters are more
// consistent, not just stronger. The spread policy is linear in skill.
func exitParameters(batter *models.PhysicalParameters, pitch *models.PitchEvent, rng *rand.Rand, cfg *tuning.Config) (ev, la, spray float64) {
	quality := pitch.Quality

	evMu := (90.5 + 14.0*(batter.BatPower-0.5)*2 + 5.0*(batter.BatContact-0.5) - 7.0*(quality-0.5)) * cfg.OffenseScale
	evSigma := 13.5 * (1 - 0.40*batter.BatContact) * cfg.ContactQualityScale
	ev = evMu + rng.NormFloat64()*evSigma
	if ev < 30 {
		ev = 30
	}
	if ev > 121 {
		ev = 121
	}

	laMu := cfg.LaunchAngleBase + 10.0*(batter.BatPower-0.5)
	laSigma := 27.0 * (1 - 0.30*batter.BatContact) * cfg.ContactQualityScale
	la = laMu + rng.NormFloat64()*laSigma
	if la < -80 {
		la = -80
	}
	if la > 85 {
		la = 85
	}

	// Pull bias: right-handed batters pull toward left field (negative
	// spray), left-handed batters mirror.
	pull := 9.0
	if batter.Hand == models.LeftHanded {
		pull = -9.0
	}
	spray = -pull + rng.NormFloat64()*19.0

	return ev, la, spray
}

// ResolveContact resolves the batter's response to one pitch: the swing
// decision, whether the swing touches the ball, and if so the exit
// parameters. The foul/fair split is resolved after the exit draw so a
// mishit vector can hook foul. Deterministic given rng.
func ResolveContact(batter *models.PhysicalParameters, pitch *models.PitchEvent, count models.Count, rng *rand.Rand, cfg *tuning.Config) models.ContactResult {
	if rng.Float64() >= swingProbability(batter, pitch, count, cfg) {
		return models.ContactResult{Kind: models.NoSwing}
	}
	if rng.Float64() >= contactProbability(batter, pitch, cfg) {
		return models.ContactResult{Kind: models.SwingMiss}
	}

	ev, la, spray := exitParameters(batter, pitch, rng, cfg)

	if rng.Float64() < foulProbability(ev, la, spray, cfg) {
		return models.ContactResult{Kind: models.FoulBall}
	}
	// Fair territory: fold the spray back inside the lines.
	if spray > 45 {
		spray = 45 - (spray-45)*0.5
	}
	if spray < -45 {
		spray = -45 - (spray+45)*0.5
	}
	return models.ContactResult{
		Kind:         models.InPlay,
		ExitVelocity: ev,
		LaunchAngle:  la,
		SprayAngle:   spray,
	}
}

// foulProbability rises for mishits: topped balls, skied balls, and vectors
// sprayed near or past the lines.
func foulProbability(ev, la, spray float64, cfg *tuning.Config) float64 {
	p := cfg.FoulRate
	if la < -20 || la > 55 {
		p += 0.14
	}
	if math.Abs(spray) > 38 {
		p += 0.22
	}
	if ev < 70 {
		p += 0.05
	}
	if p > 0.92 {
		p = 0.92
	}
	return p
}
