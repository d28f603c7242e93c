package models

import (
	"fmt"
	"math"
)

// Hand identifies which side a player bats or throws from.
type Hand string

const (
	LeftHanded  Hand = "L"
	RightHanded Hand = "R"
)

// PitcherRole is a closed enumeration of pitching roles. Source rosters
// historically carried free-form role text; anything unrecognized maps to
// RoleUnknown and is treated as a reliever for usage purposes.
type PitcherRole int

const (
	RoleUnknown PitcherRole = iota
	RoleStarter
	RoleReliever
)

// ParsePitcherRole maps roster role text onto the closed role set.
// Unrecognized text is a known data-quality risk in imported leagues and
// falls back to RoleUnknown rather than being reinterpreted.
func ParsePitcherRole(raw string) PitcherRole {
	switch raw {
	case "SP", "sp", "starter", "Starter":
		return RoleStarter
	case "RP", "rp", "reliever", "Reliever", "CL", "closer", "Closer":
		return RoleReliever
	default:
		return RoleUnknown
	}
}

func (r PitcherRole) String() string {
	switch r {
	case RoleStarter:
		return "SP"
	case RoleReliever:
		return "RP"
	default:
		return "unknown"
	}
}

// RatingScale is the maximum raw skill rating. Ratings run 0-99.
const RatingScale = 99

// PlayerRatings is an immutable view of a player's raw skill ratings on the
// 0-99 scale. The roster subsystem owns these records; the physics core
// borrows one per at-bat and never mutates it.
type PlayerRatings struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Bats     Hand   `json:"bats"`
	Throws   Hand   `json:"throws"`

	// Batting
	Contact int `json:"contact"`
	Power   int `json:"power"`
	Eye     int `json:"eye"` // plate discipline
	Speed   int `json:"speed"`

	// Pitching
	Velocity int         `json:"velocity"`
	Movement int         `json:"movement"`
	Control  int         `json:"control"`
	Role     PitcherRole `json:"role"`

	// Fielding
	Range int `json:"range"`
	Arm   int `json:"arm"`
	Hands int `json:"hands"`
}

// Validate fails fast on out-of-range ratings. Bad inputs are data-entry
// bugs and must surface at the boundary, never be clamped into silence.
func (pr *PlayerRatings) Validate() error {
	if pr.PlayerID == "" {
		return fmt.Errorf("ratings: missing player id")
	}
	checks := []struct {
		name  string
		value int
	}{
		{"contact", pr.Contact},
		{"power", pr.Power},
		{"eye", pr.Eye},
		{"speed", pr.Speed},
		{"velocity", pr.Velocity},
		{"movement", pr.Movement},
		{"control", pr.Control},
		{"range", pr.Range},
		{"arm", pr.Arm},
		{"hands", pr.Hands},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > RatingScale {
			return fmt.Errorf("ratings: player %s: %s rating %d out of range [0,%d]",
				pr.PlayerID, c.name, c.value, RatingScale)
		}
	}
	switch pr.Bats {
	case LeftHanded, RightHanded:
	default:
		return fmt.Errorf("ratings: player %s: invalid batting hand %q", pr.PlayerID, pr.Bats)
	}
	switch pr.Throws {
	case LeftHanded, RightHanded:
	default:
		return fmt.Errorf("ratings: player %s: invalid throwing hand %q", pr.PlayerID, pr.Throws)
	}
	return nil
}

// Situation carries the per-at-bat context that modifies physical
// parameters: the opposing hand and accumulated in-game fatigue.
type Situation struct {
	OpponentHand Hand
	// PitchesThrown is the pitcher's pitch count this game. Zero for batters.
	PitchesThrown int
}

// PhysicalParameters are the normalized [0,1] physical capabilities derived
// from ratings for a single at-bat. They are ephemeral: recomputed every
// at-bat so fatigue and matchup context never leak forward.
type PhysicalParameters struct {
	PlayerID string
	Hand     Hand

	// Batting
	BatContact float64
	BatPower   float64
	Discipline float64
	RunSpeed   float64

	// Pitching
	PitchVelocity float64 // normalized
	VelocityMPH   float64
	PitchMovement float64
	PitchControl  float64
	Role          PitcherRole

	// Fielding
	FieldRange float64
	FieldArm   float64
	FieldHands float64
}

// Finite reports whether every parameter is a finite number. A non-finite
// parameter is a defect in the mapper, not a playable state.
func (pp *PhysicalParameters) Finite() bool {
	vals := []float64{
		pp.BatContact, pp.BatPower, pp.Discipline, pp.RunSpeed,
		pp.PitchVelocity, pp.VelocityMPH, pp.PitchMovement, pp.PitchControl,
		pp.FieldRange, pp.FieldArm, pp.FieldHands,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
