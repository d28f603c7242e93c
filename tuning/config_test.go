package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultIsValid guards the shipped baseline snapshot
func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "default", cfg.Label)
	assert.Equal(t, 1.0, cfg.HRScale)
}

// TestParseMergesOverDefaults tests partial snapshots inherit default
// coefficients
func TestParseMergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
label: "juiced-ball"
hr_scale: 1.25
walk_scale: 1.1
`))
	require.NoError(t, err)
	assert.Equal(t, "juiced-ball", cfg.Label)
	assert.Equal(t, 1.25, cfg.HRScale)
	assert.Equal(t, 1.1, cfg.WalkScale)
	// Untouched coefficients keep the default values.
	assert.Equal(t, Default().KScale, cfg.KScale)
	assert.Equal(t, Default().ChaseScale, cfg.ChaseScale)
}

// TestParseRejectsBadSnapshots tests fail-fast on operator error
func TestParseRejectsBadSnapshots(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "label: x\nhr_sclae: 1.2\n"},
		{"missing label", "hr_scale: 1.2\n"},
		{"negative coefficient", "label: x\nk_scale: -0.5\n"},
		{"non-finite coefficient", "label: x\nbabip_scale: .nan\n"},
		{"foul rate at one", "label: x\nfoul_rate: 1.0\n"},
		{"malformed yaml", "label: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

// TestLoadRoundTrip tests loading a snapshot file from disk
func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("label: disk\noffense_scale: 1.05\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "disk", cfg.Label)
	assert.Equal(t, 1.05, cfg.OffenseScale)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestCoefficientsComplete tests the exported map names every knob
func TestCoefficientsComplete(t *testing.T) {
	coeffs := Default().Coefficients()
	for _, name := range []string{
		"offense_scale", "hr_scale", "babip_scale", "walk_scale", "k_scale",
		"chase_scale", "two_strike_aggression_scale", "foul_rate",
		"fatigue_start_base", "steal_freq_scale", "xbh_lift", "hbp_rate",
	} {
		assert.Contains(t, coeffs, name)
	}
	assert.Len(t, coeffs, 27)
}
