package physics

import (
	"fmt"
	"math"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// Flight integration constants. Drag is quadratic in speed; lift is a
// Magnus approximation whose strength follows the backspin implied by the
// launch angle. Values are in feet/seconds and were calibrated so a
// 105 mph / 28 degree ball carries about 400 feet in neutral air.
const (
	gravity     = 32.174  // ft/s^2
	dragCoeff   = 0.00215 // 1/ft
	liftCoeff   = 0.00115 // 1/ft
	releaseH    = 3.0     // ft, contact height
	flightStep  = 0.004   // s
	maxFlightT  = 12.0    // s, sanity cutoff
	mphToFtPerS = 1.46667
)

// ProjectFlight integrates the ball's flight from contact under gravity,
// quadratic drag, and launch-dependent lift. hr_scale multiplies effective
// carry before the wall comparison. A nil park means park factors are
// disabled and the neutral geometry applies; that is a documented default,
// never an error. Any non-finite intermediate is a defect in the physics
// core and aborts the at-bat with a diagnostic.
func ProjectFlight(contact *models.ContactResult, park *models.ParkGeometry, cfg *tuning.Config) (models.Trajectory, error) {
	if contact.Kind != models.InPlay {
		return models.Trajectory{}, fmt.Errorf("physics: flight projection requires an in-play contact, got %v", contact.Kind)
	}
	geometry := models.NeutralPark()
	if park != nil && park.Enabled {
		if err := park.Validate(); err != nil {
			return models.Trajectory{}, fmt.Errorf("physics: flight: %w", err)
		}
		geometry = *park
	}

	laRad := contact.LaunchAngle * math.Pi / 180
	v0 := contact.ExitVelocity * mphToFtPerS
	vr := v0 * math.Cos(laRad) // horizontal
	vz := v0 * math.Sin(laRad) // vertical

	// Backspin factor: balls launched upward carry lift, topped balls none.
	spin := (contact.LaunchAngle + 10) / 45
	if spin < 0 {
		spin = 0
	}
	if spin > 1 {
		spin = 1
	}
	lift := liftCoeff * spin

	r, z := 0.0, releaseH
	peak := z
	t := 0.0
	for z > 0 && t < maxFlightT {
		speed := math.Hypot(vr, vz)
		// Drag opposes velocity; lift acts perpendicular, rotated upward.
		ar := -dragCoeff*speed*vr - lift*speed*vz
		az := -gravity - dragCoeff*speed*vz + lift*speed*vr
		vr += ar * flightStep
		vz += az * flightStep
		r += vr * flightStep
		z += vz * flightStep
		if z > peak {
			peak = z
		}
		t += flightStep
	}

	if math.IsNaN(r) || math.IsInf(r, 0) || math.IsNaN(t) || math.IsInf(t, 0) {
		return models.Trajectory{}, fmt.Errorf(
			"physics: flight integration diverged (ev=%.1f la=%.1f spray=%.1f)",
			contact.ExitVelocity, contact.LaunchAngle, contact.SprayAngle)
	}
	if r < 0 {
		r = 0
	}

	sprayRad := contact.SprayAngle * math.Pi / 180
	traj := models.Trajectory{
		Carry:        r,
		HangTime:     t,
		LandX:        r * math.Sin(sprayRad),
		LandY:        r * math.Cos(sprayRad),
		PeakHeight:   peak,
		SprayAngle:   contact.SprayAngle,
		LaunchAngle:  contact.LaunchAngle,
		ExitVelocity: contact.ExitVelocity,
	}

	// Wall clearance: effective carry scaled by hr_scale against the wall
	// distance at this spray angle, with a margin for wall height. Only
	// balls hit in the air can clear.
	if traj.Class() == models.FlyBall || traj.Class() == models.LineDrive {
		wallDist, wallHeight := geometry.WallAt(contact.SprayAngle)
		effective := r * cfg.HRScale
		if effective >= wallDist+0.25*wallHeight {
			traj.ClearsWall = true
		}
	}
	return traj, nil
}
