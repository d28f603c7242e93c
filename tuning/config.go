// Package tuning holds the versioned scalar coefficients that calibrate the
// physics engine. A Config is an immutable snapshot: it is loaded once at
// run start, shared read-only by every physics component, and never mutated
// mid-season. Retuning means binding a new snapshot to a new run.
package tuning

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is one tuning snapshot. Each coefficient scales one behavior
// without changing model structure; the comment on each field documents its
// qualitative effect direction so operators can retune without reading the
// implementation.
type Config struct {
	// Label identifies the snapshot for reproducibility.
	Label     string    `yaml:"label"`
	CreatedAt time.Time `yaml:"created_at"`

	// Run environment.
	OffenseScale     float64 `yaml:"offense_scale"`      // >1 lifts contact quality league-wide
	PitchingDomScale float64 `yaml:"pitching_dom_scale"` // >1 sharpens pitch quality, suppressing offense
	HRScale          float64 `yaml:"hr_scale"`           // >1 multiplies carry distance, raising HR rate
	BABIPScale       float64 `yaml:"babip_scale"`        // >1 turns more balls in play into hits
	WalkScale        float64 `yaml:"walk_scale"`         // >1 shrinks the called zone, raising BB rate
	KScale           float64 `yaml:"k_scale"`            // >1 raises whiff rate, raising K rate
	// Plate discipline.
	ZoneSwingScale       float64 `yaml:"zone_swing_scale"`            // >1 means more swings at strikes
	ChaseScale           float64 `yaml:"chase_scale"`                 // >1 means more swings at balls
	TwoStrikeAggression  float64 `yaml:"two_strike_aggression_scale"` // >1 means more two-strike swings in zone
	TwoStrikeZoneProtect float64 `yaml:"two_strike_zone_protect"`     // >0 expands defensive two-strike swings
	// Contact and batted ball.
	ContactProbScale    float64 `yaml:"contact_prob_scale"`    // >1 means more contact per swing
	ContactQualityScale float64 `yaml:"contact_quality_scale"` // >1 widens exit-parameter variance
	FoulRate            float64 `yaml:"foul_rate"`             // base share of contact that goes foul
	LaunchAngleBase     float64 `yaml:"launch_angle_base"`     // baseline launch angle, degrees
	// Pitching and fatigue.
	VelocityScale        float64 `yaml:"velocity_scale"`         // >1 raises pitch velocity
	MovementScale        float64 `yaml:"movement_scale"`         // >1 raises pitch movement
	CommandVarianceScale float64 `yaml:"command_variance_scale"` // >1 means wilder pitch locations
	FatigueDecayScale    float64 `yaml:"fatigue_decay_scale"`    // >1 means fatigue penalties grow faster
	FatigueStartBase     float64 `yaml:"fatigue_start_base"`     // pitch count before fatigue begins
	FatigueLimitBase     float64 `yaml:"fatigue_limit_base"`     // extra pitches after fatigue starts
	// Defense and running.
	RangeScale       float64 `yaml:"range_scale"`        // >1 means fielders cover more ground
	ArmStrengthScale float64 `yaml:"arm_strength_scale"` // >1 means stronger infield throws
	ErrorRateScale   float64 `yaml:"error_rate_scale"`   // >1 means more fielding errors
	SpeedScale       float64 `yaml:"speed_scale"`        // >1 means faster baserunners
	StealFreqScale   float64 `yaml:"steal_freq_scale"`   // >1 means more steal attempts
	// Hit-type shaping.
	XBHLift float64 `yaml:"xbh_lift"` // >1 converts more non-HR hits to extra bases
	HBPRate float64 `yaml:"hbp_rate"` // per-pitch hit-by-pitch chance on inside misses
}

// Default returns the baseline snapshot calibrated against MLB league
// benchmarks.
func Default() *Config {
	return &Config{
		Label:     "default",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),

		OffenseScale:     1.00,
		PitchingDomScale: 1.00,
		HRScale:          1.00,
		BABIPScale:       1.00,
		WalkScale:        1.00,
		KScale:           1.00,

		ZoneSwingScale:       1.00,
		ChaseScale:           0.60,
		TwoStrikeAggression:  1.15,
		TwoStrikeZoneProtect: 0.65,

		ContactProbScale:    1.00,
		ContactQualityScale: 1.00,
		FoulRate:            0.40,
		LaunchAngleBase:     12.0,

		VelocityScale:        1.00,
		MovementScale:        1.00,
		CommandVarianceScale: 1.00,
		FatigueDecayScale:    1.00,
		FatigueStartBase:     60,
		FatigueLimitBase:     15,

		RangeScale:       1.00,
		ArmStrengthScale: 1.00,
		ErrorRateScale:   1.00,
		SpeedScale:       1.00,
		StealFreqScale:   1.8,

		XBHLift: 1.00,
		HBPRate: 0.0030,
	}
}

// Load reads a snapshot file and merges it over the defaults. Unknown keys
// are rejected so a typoed coefficient cannot silently fall back to its
// default, and non-finite values are rejected outright.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tuning: read snapshot: %w", err)
	}
	return Parse(raw)
}

// Parse merges YAML snapshot bytes over the defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("tuning: parse snapshot: %w", err)
	}
	if cfg.Label == "" {
		return nil, fmt.Errorf("tuning: snapshot missing label")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects non-finite or non-positive coefficients.
func (c *Config) Validate() error {
	for name, v := range c.coefficients() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("tuning: %s: coefficient %s is not finite", c.Label, name)
		}
		if v < 0 {
			return fmt.Errorf("tuning: %s: coefficient %s is negative", c.Label, name)
		}
	}
	if c.FoulRate >= 1 {
		return fmt.Errorf("tuning: %s: foul_rate must be below 1", c.Label)
	}
	return nil
}

// Coefficients exposes the snapshot as a name -> value map for the tuning
// API surface and for persistence alongside run results.
func (c *Config) Coefficients() map[string]float64 {
	return c.coefficients()
}

func (c *Config) coefficients() map[string]float64 {
	return map[string]float64{
		"offense_scale":               c.OffenseScale,
		"pitching_dom_scale":          c.PitchingDomScale,
		"hr_scale":                    c.HRScale,
		"babip_scale":                 c.BABIPScale,
		"walk_scale":                  c.WalkScale,
		"k_scale":                     c.KScale,
		"zone_swing_scale":            c.ZoneSwingScale,
		"chase_scale":                 c.ChaseScale,
		"two_strike_aggression_scale": c.TwoStrikeAggression,
		"two_strike_zone_protect":     c.TwoStrikeZoneProtect,
		"contact_prob_scale":          c.ContactProbScale,
		"contact_quality_scale":       c.ContactQualityScale,
		"foul_rate":                   c.FoulRate,
		"launch_angle_base":           c.LaunchAngleBase,
		"velocity_scale":              c.VelocityScale,
		"movement_scale":              c.MovementScale,
		"command_variance_scale":      c.CommandVarianceScale,
		"fatigue_decay_scale":         c.FatigueDecayScale,
		"fatigue_start_base":          c.FatigueStartBase,
		"fatigue_limit_base":          c.FatigueLimitBase,
		"range_scale":                 c.RangeScale,
		"arm_strength_scale":          c.ArmStrengthScale,
		"error_rate_scale":            c.ErrorRateScale,
		"speed_scale":                 c.SpeedScale,
		"steal_freq_scale":            c.StealFreqScale,
		"xbh_lift":                    c.XBHLift,
		"hbp_rate":                    c.HBPRate,
	}
}

