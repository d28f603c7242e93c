package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

func ratingsWith(mutate func(*models.PlayerRatings)) *models.PlayerRatings {
	r := &models.PlayerRatings{
		PlayerID: "p1", Bats: models.RightHanded, Throws: models.RightHanded,
		Contact: 50, Power: 50, Eye: 50, Speed: 50,
		Velocity: 50, Movement: 50, Control: 50,
		Range: 50, Arm: 50, Hands: 50,
	}
	if mutate != nil {
		mutate(r)
	}
	return r
}

// TestMapBatterMonotonic tests that raising a rating never lowers the
// mapped parameter, over the full rating range
func TestMapBatterMonotonic(t *testing.T) {
	cfg := tuning.Default()
	sit := models.Situation{OpponentHand: models.LeftHanded}

	prevContact, prevPower := -1.0, -1.0
	for rating := 0; rating <= 99; rating++ {
		p, err := MapBatter(ratingsWith(func(r *models.PlayerRatings) {
			r.Contact = rating
			r.Power = rating
		}), sit, cfg)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.BatContact, prevContact, "contact rating %d", rating)
		assert.GreaterOrEqual(t, p.BatPower, prevPower, "power rating %d", rating)
		prevContact, prevPower = p.BatContact, p.BatPower
	}
}

// TestMapBatterBounds tests every parameter stays inside the clamp range
func TestMapBatterBounds(t *testing.T) {
	cfg := tuning.Default()
	for _, rating := range []int{0, 1, 50, 98, 99} {
		p, err := MapBatter(ratingsWith(func(r *models.PlayerRatings) {
			r.Contact, r.Power, r.Eye, r.Speed = rating, rating, rating, rating
		}), models.Situation{OpponentHand: models.RightHanded}, cfg)
		require.NoError(t, err)
		for name, v := range map[string]float64{
			"contact": p.BatContact, "power": p.BatPower,
			"discipline": p.Discipline, "speed": p.RunSpeed,
		} {
			assert.GreaterOrEqual(t, v, 0.02, name)
			assert.LessOrEqual(t, v, 0.98, name)
		}
	}
}

// TestMapBatterRejectsInvalidRatings tests fail-fast at the boundary
func TestMapBatterRejectsInvalidRatings(t *testing.T) {
	cfg := tuning.Default()
	_, err := MapBatter(ratingsWith(func(r *models.PlayerRatings) { r.Contact = -4 }),
		models.Situation{}, cfg)
	assert.Error(t, err)

	_, err = MapPitcher(ratingsWith(func(r *models.PlayerRatings) { r.Control = 120 }),
		models.Situation{}, cfg)
	assert.Error(t, err)

	_, err = MapFielder(ratingsWith(func(r *models.PlayerRatings) { r.PlayerID = "" }), cfg)
	assert.Error(t, err)
}

// TestPlatoonFactor tests opposite-hand matchups play up
func TestPlatoonFactor(t *testing.T) {
	cfg := tuning.Default()
	same, err := MapBatter(ratingsWith(nil), models.Situation{OpponentHand: models.RightHanded}, cfg)
	require.NoError(t, err)
	opp, err := MapBatter(ratingsWith(nil), models.Situation{OpponentHand: models.LeftHanded}, cfg)
	require.NoError(t, err)

	assert.Greater(t, opp.BatContact, same.BatContact)
	assert.Greater(t, opp.Discipline, same.Discipline)
	// Power and speed are matchup-independent.
	assert.Equal(t, opp.BatPower, same.BatPower)
	assert.Equal(t, opp.RunSpeed, same.RunSpeed)
}

// TestFatigueDegradesPitcher tests control and velocity decay past the
// fatigue window and are floored
func TestFatigueDegradesPitcher(t *testing.T) {
	cfg := tuning.Default()
	fresh, err := MapPitcher(ratingsWith(nil), models.Situation{PitchesThrown: 0}, cfg)
	require.NoError(t, err)
	atStart, err := MapPitcher(ratingsWith(nil), models.Situation{PitchesThrown: int(cfg.FatigueStartBase)}, cfg)
	require.NoError(t, err)
	gassed, err := MapPitcher(ratingsWith(nil), models.Situation{PitchesThrown: 110}, cfg)
	require.NoError(t, err)
	exhausted, err := MapPitcher(ratingsWith(nil), models.Situation{PitchesThrown: 400}, cfg)
	require.NoError(t, err)

	assert.Equal(t, fresh.PitchControl, atStart.PitchControl)
	assert.Less(t, gassed.PitchControl, fresh.PitchControl)
	assert.Less(t, gassed.VelocityMPH, fresh.VelocityMPH)
	// The penalty is capped: an absurd pitch count still yields a usable arm.
	assert.InDelta(t, gassed.PitchControl, exhausted.PitchControl, 1e-9)
	assert.Greater(t, exhausted.PitchControl, 0.0)
}

// TestMapPitcherVelocityBand tests mapped velocity lands in a plausible mph
// range
func TestMapPitcherVelocityBand(t *testing.T) {
	cfg := tuning.Default()
	slow, err := MapPitcher(ratingsWith(func(r *models.PlayerRatings) { r.Velocity = 0 }), models.Situation{}, cfg)
	require.NoError(t, err)
	fast, err := MapPitcher(ratingsWith(func(r *models.PlayerRatings) { r.Velocity = 99 }), models.Situation{}, cfg)
	require.NoError(t, err)

	assert.Greater(t, slow.VelocityMPH, 85.0)
	assert.Less(t, fast.VelocityMPH, 99.0)
	assert.Greater(t, fast.VelocityMPH, slow.VelocityMPH)
}
