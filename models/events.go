package models

import "fmt"

// PitchType identifies the pitch thrown.
type PitchType int

const (
	Fastball PitchType = iota
	Sinker
	Cutter
	Slider
	Curveball
	Changeup
)

func (pt PitchType) String() string {
	switch pt {
	case Fastball:
		return "fastball"
	case Sinker:
		return "sinker"
	case Cutter:
		return "cutter"
	case Slider:
		return "slider"
	case Curveball:
		return "curveball"
	case Changeup:
		return "changeup"
	default:
		return "unknown"
	}
}

// PitchEvent is one resolved pitch. Location is in normalized zone
// coordinates: the strike zone is the square [-1,1]x[-1,1], positive X
// toward the third-base side, positive Z up. Created by the pitch model,
// consumed immediately by the swing model, then discarded.
type PitchEvent struct {
	Type     PitchType
	LocX     float64
	LocZ     float64
	Velocity float64 // mph at release
	BreakX   float64 // inches of horizontal movement
	BreakZ   float64 // inches of induced vertical movement
	Quality  float64 // [0,1]
}

// InZone reports whether the pitch crossed within the strike zone.
func (pe *PitchEvent) InZone() bool {
	return pe.LocX >= -1 && pe.LocX <= 1 && pe.LocZ >= -1 && pe.LocZ <= 1
}

// EdgeDistance is the distance from the pitch location to the nearest
// zone edge. Zero on the edge, growing inward or outward.
func (pe *PitchEvent) EdgeDistance() float64 {
	dx := 1 - absf(pe.LocX)
	dz := 1 - absf(pe.LocZ)
	if dx < dz {
		return absf(dx)
	}
	return absf(dz)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ContactKind tags the swing/contact resolution.
type ContactKind int

const (
	NoSwing ContactKind = iota
	SwingMiss
	FoulBall
	InPlay
)

// ContactResult is the outcome of the batter's response to one pitch.
// Exit parameters are meaningful only when Kind == InPlay.
type ContactResult struct {
	Kind         ContactKind
	ExitVelocity float64 // mph
	LaunchAngle  float64 // degrees, negative is into the ground
	SprayAngle   float64 // degrees, 0 = straightaway center, negative = pull side for RHB
}

// Trajectory is the projected flight of a ball in play.
type Trajectory struct {
	Carry        float64 // feet of horizontal travel at first ground contact
	HangTime     float64 // seconds
	LandX        float64 // feet, first-base line positive
	LandY        float64 // feet toward center field
	PeakHeight   float64 // feet
	SprayAngle   float64 // degrees
	LaunchAngle  float64 // degrees
	ExitVelocity float64 // mph
	ClearsWall   bool
}

// BattedBallClass buckets a trajectory by launch angle.
type BattedBallClass int

const (
	GroundBall BattedBallClass = iota
	LineDrive
	FlyBall
	PopUp
)

// Class buckets the trajectory using standard launch-angle cuts.
func (tr *Trajectory) Class() BattedBallClass {
	switch {
	case tr.LaunchAngle < 10:
		return GroundBall
	case tr.LaunchAngle < 25:
		return LineDrive
	case tr.LaunchAngle < 50:
		return FlyBall
	default:
		return PopUp
	}
}

// OutcomeType enumerates every way an at-bat can resolve. An at-bat
// produces exactly one outcome and it is never retracted.
type OutcomeType int

const (
	Strikeout OutcomeType = iota
	Walk
	HitByPitch
	InPlayOut
	Single
	Double
	Triple
	HomeRun
	ReachedOnError
)

func (ot OutcomeType) String() string {
	switch ot {
	case Strikeout:
		return "strikeout"
	case Walk:
		return "walk"
	case HitByPitch:
		return "hit_by_pitch"
	case InPlayOut:
		return "in_play_out"
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	case HomeRun:
		return "home_run"
	case ReachedOnError:
		return "reached_on_error"
	default:
		return "unknown"
	}
}

// IsHit reports whether the outcome counts as a base hit.
func (ot OutcomeType) IsHit() bool {
	switch ot {
	case Single, Double, Triple, HomeRun:
		return true
	}
	return false
}

// OutType subdivides in-play outs for advancement and scoring purposes.
type OutType int

const (
	OutNone OutType = iota
	GroundOut
	FlyOut
	LineOut
	PopOut
)

func (ot OutType) String() string {
	switch ot {
	case GroundOut:
		return "groundout"
	case FlyOut:
		return "flyout"
	case LineOut:
		return "lineout"
	case PopOut:
		return "popout"
	default:
		return "none"
	}
}

// AtBatOutcome is the immutable final result of one at-bat. It is the sole
// contract between the physics core and every downstream consumer.
type AtBatOutcome struct {
	Type       OutcomeType
	OutType    OutType // set when Type == InPlayOut
	FielderID  string  // fielder credited with the play, if any
	RunsBatted int
	Pitches    int
	// WasInPlay and BallClass describe the batted ball for outcomes that
	// came off the bat; HR/FB accounting depends on them.
	WasInPlay bool
	BallClass BattedBallClass
	// SacFly marks a fly out that scored a runner; it is excluded from
	// at-bats but charged to the OBP denominator.
	SacFly bool
}

func (o AtBatOutcome) String() string {
	if o.Type == InPlayOut {
		return fmt.Sprintf("%s(%s)", o.Type, o.OutType)
	}
	return o.Type.String()
}

// BaseEvent records a stolen-base attempt resolved between pitches.
type BaseEvent struct {
	RunnerID string
	Success  bool
}
