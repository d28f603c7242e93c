package stats

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Benchmark holds the real-world reference rates the simulated league is
// calibrated against and the tolerance band allowed around each.
type Benchmark struct {
	Label string `yaml:"label"`

	AVG     Target `yaml:"avg"`
	OBP     Target `yaml:"obp"`
	SLG     Target `yaml:"slg"`
	KPct    Target `yaml:"k_pct"`
	BBPct   Target `yaml:"bb_pct"`
	HRPerFB Target `yaml:"hr_per_fb"`
	SBPct   Target `yaml:"sb_pct"`
}

// Target is one reference value with its allowed absolute deviation.
type Target struct {
	Value     float64 `yaml:"value"`
	Tolerance float64 `yaml:"tolerance"`
}

// MLBBenchmark returns the reference targets for a modern MLB season. The
// tolerance bands are the calibration contract: the neutral-league harness
// must land inside them.
func MLBBenchmark() *Benchmark {
	return &Benchmark{
		Label:   "mlb-reference",
		AVG:     Target{Value: 0.248, Tolerance: 0.020},
		OBP:     Target{Value: 0.317, Tolerance: 0.022},
		SLG:     Target{Value: 0.411, Tolerance: 0.035},
		KPct:    Target{Value: 0.226, Tolerance: 0.030},
		BBPct:   Target{Value: 0.085, Tolerance: 0.018},
		HRPerFB: Target{Value: 0.125, Tolerance: 0.045},
		SBPct:   Target{Value: 0.75, Tolerance: 0.10},
	}
}

// LoadBenchmark reads a benchmark file, falling back to nothing: a missing
// or malformed file is an error, not a silent default.
func LoadBenchmark(path string) (*Benchmark, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stats: read benchmark: %w", err)
	}
	b := MLBBenchmark()
	if err := yaml.Unmarshal(raw, b); err != nil {
		return nil, fmt.Errorf("stats: parse benchmark: %w", err)
	}
	return b, nil
}

// KPIDelta is one KPI's simulated value against its benchmark.
type KPIDelta struct {
	Name      string  `json:"name"`
	Simulated float64 `json:"simulated"`
	Target    float64 `json:"target"`
	Delta     float64 `json:"delta"`
	Tolerance float64 `json:"tolerance"`
	Within    bool    `json:"within"`
}

// Compare evaluates a league line against the benchmark, one delta per
// KPI.
func (b *Benchmark) Compare(league *StatLine) []KPIDelta {
	kpis := []struct {
		name   string
		value  float64
		target Target
	}{
		{"AVG", league.AVG(), b.AVG},
		{"OBP", league.OBP(), b.OBP},
		{"SLG", league.SLG(), b.SLG},
		{"K%", league.KPct(), b.KPct},
		{"BB%", league.BBPct(), b.BBPct},
		{"HR/FB", league.HRPerFB(), b.HRPerFB},
		{"SB%", league.SBPct(), b.SBPct},
	}
	deltas := make([]KPIDelta, 0, len(kpis))
	for _, k := range kpis {
		delta := k.value - k.target.Value
		deltas = append(deltas, KPIDelta{
			Name:      k.name,
			Simulated: k.value,
			Target:    k.target.Value,
			Delta:     delta,
			Tolerance: k.target.Tolerance,
			Within:    math.Abs(delta) <= k.target.Tolerance,
		})
	}
	return deltas
}

// AllWithin reports whether every KPI sits inside its tolerance band.
func AllWithin(deltas []KPIDelta) bool {
	for _, d := range deltas {
		if !d.Within {
			return false
		}
	}
	return true
}
