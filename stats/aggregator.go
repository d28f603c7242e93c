// Package stats accumulates at-bat outcomes into per-player and league
// stat lines and compares the aggregate rates against MLB benchmarks.
// Totals are order-independent: recording the same multiset of outcomes in
// any order, or merging per-game partial recorders in any order, yields
// identical final lines.
package stats

import (
	"fmt"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
)

// StatLine holds pure counting stats. Rates are derived on read so that
// merging lines is plain summation.
type StatLine struct {
	PA      int `json:"pa"`
	AB      int `json:"ab"`
	H       int `json:"h"`
	Doubles int `json:"doubles"`
	Triples int `json:"triples"`
	HR      int `json:"hr"`
	BB      int `json:"bb"`
	HBP     int `json:"hbp"`
	K       int `json:"k"`
	SF      int `json:"sf"`
	ROE     int `json:"roe"`
	RBI     int `json:"rbi"`
	SB      int `json:"sb"`
	CS      int `json:"cs"`
	FlyBalls int `json:"fly_balls"`
}

// Add folds one outcome into the line.
func (s *StatLine) Add(o *models.AtBatOutcome) {
	s.PA++
	s.RBI += o.RunsBatted
	if o.WasInPlay && o.BallClass == models.FlyBall {
		s.FlyBalls++
	}
	switch o.Type {
	case models.Strikeout:
		s.AB++
		s.K++
	case models.Walk:
		s.BB++
	case models.HitByPitch:
		s.HBP++
	case models.InPlayOut:
		if o.SacFly {
			s.SF++
		} else {
			s.AB++
		}
	case models.Single:
		s.AB++
		s.H++
	case models.Double:
		s.AB++
		s.H++
		s.Doubles++
	case models.Triple:
		s.AB++
		s.H++
		s.Triples++
	case models.HomeRun:
		s.AB++
		s.H++
		s.HR++
	case models.ReachedOnError:
		s.AB++
		s.ROE++
	}
}

// Merge sums another line into this one.
func (s *StatLine) Merge(o *StatLine) {
	s.PA += o.PA
	s.AB += o.AB
	s.H += o.H
	s.Doubles += o.Doubles
	s.Triples += o.Triples
	s.HR += o.HR
	s.BB += o.BB
	s.HBP += o.HBP
	s.K += o.K
	s.SF += o.SF
	s.ROE += o.ROE
	s.RBI += o.RBI
	s.SB += o.SB
	s.CS += o.CS
	s.FlyBalls += o.FlyBalls
}

// TotalBases computes slugging numerator.
func (s *StatLine) TotalBases() int {
	singles := s.H - s.Doubles - s.Triples - s.HR
	return singles + 2*s.Doubles + 3*s.Triples + 4*s.HR
}

// AVG is batting average. Zero when no at-bats.
func (s *StatLine) AVG() float64 { return ratio(s.H, s.AB) }

// OBP is on-base percentage.
func (s *StatLine) OBP() float64 {
	return ratio(s.H+s.BB+s.HBP, s.AB+s.BB+s.HBP+s.SF)
}

// SLG is slugging percentage.
func (s *StatLine) SLG() float64 { return ratio(s.TotalBases(), s.AB) }

// KPct is strikeouts per plate appearance.
func (s *StatLine) KPct() float64 { return ratio(s.K, s.PA) }

// BBPct is walks per plate appearance.
func (s *StatLine) BBPct() float64 { return ratio(s.BB, s.PA) }

// HRPerFB is home runs per fly ball.
func (s *StatLine) HRPerFB() float64 { return ratio(s.HR, s.FlyBalls) }

// SBPct is stolen-base success rate.
func (s *StatLine) SBPct() float64 { return ratio(s.SB, s.SB+s.CS) }

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Context identifies one at-bat for idempotent recording. The (game,
// batter, sequence) triple is the duplicate-detection key.
type Context struct {
	GameID    string
	BatterID  string
	PitcherID string
	Seq       int
}

type abKey struct {
	gameID   string
	batterID string
	seq      int
}

// Recorder accumulates outcomes. One recorder per game runs lock-free;
// per-game recorders are merged into a season recorder after the game
// fully resolves.
type Recorder struct {
	batters  map[string]*StatLine
	pitchers map[string]*StatLine
	league   StatLine
	seen     map[abKey]struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		batters:  make(map[string]*StatLine),
		pitchers: make(map[string]*StatLine),
		seen:     make(map[abKey]struct{}),
	}
}

// Record folds one outcome into the batter, pitcher, and league lines.
// Recording the same (game, batter, sequence) twice is rejected as a
// duplicate, never double-counted.
func (r *Recorder) Record(o *models.AtBatOutcome, ctx Context) error {
	if ctx.GameID == "" || ctx.BatterID == "" {
		return fmt.Errorf("stats: record requires game and batter ids")
	}
	key := abKey{gameID: ctx.GameID, batterID: ctx.BatterID, seq: ctx.Seq}
	if _, dup := r.seen[key]; dup {
		return fmt.Errorf("stats: duplicate at-bat %s/%s/#%d", ctx.GameID, ctx.BatterID, ctx.Seq)
	}
	r.seen[key] = struct{}{}

	r.line(r.batters, ctx.BatterID).Add(o)
	if ctx.PitcherID != "" {
		r.line(r.pitchers, ctx.PitcherID).Add(o)
	}
	r.league.Add(o)
	return nil
}

// RecordSteal folds one stolen-base attempt into the runner and league
// lines.
func (r *Recorder) RecordSteal(ev *models.BaseEvent) {
	line := r.line(r.batters, ev.RunnerID)
	if ev.Success {
		line.SB++
		r.league.SB++
	} else {
		line.CS++
		r.league.CS++
	}
}

func (r *Recorder) line(m map[string]*StatLine, id string) *StatLine {
	l, ok := m[id]
	if !ok {
		l = &StatLine{}
		m[id] = l
	}
	return l
}

// Merge folds a partial recorder (typically one game) into this one.
// Overlapping at-bat keys mean the same game was aggregated twice and are
// rejected before any counts change.
func (r *Recorder) Merge(partial *Recorder) error {
	for key := range partial.seen {
		if _, dup := r.seen[key]; dup {
			return fmt.Errorf("stats: merge would double-count at-bat %s/%s/#%d",
				key.gameID, key.batterID, key.seq)
		}
	}
	for key := range partial.seen {
		r.seen[key] = struct{}{}
	}
	for id, line := range partial.batters {
		r.line(r.batters, id).Merge(line)
	}
	for id, line := range partial.pitchers {
		r.line(r.pitchers, id).Merge(line)
	}
	r.league.Merge(&partial.league)
	return nil
}

// Snapshot is a read-only copy of the accumulated lines, safe to hand to
// KPI comparison and external consumers.
type Snapshot struct {
	League   StatLine            `json:"league"`
	Batters  map[string]StatLine `json:"batters"`
	Pitchers map[string]StatLine `json:"pitchers"`
}

// Snapshot copies the current totals.
func (r *Recorder) Snapshot() Snapshot {
	snap := Snapshot{
		League:   r.league,
		Batters:  make(map[string]StatLine, len(r.batters)),
		Pitchers: make(map[string]StatLine, len(r.pitchers)),
	}
	for id, line := range r.batters {
		snap.Batters[id] = *line
	}
	for id, line := range r.pitchers {
		snap.Pitchers[id] = *line
	}
	return snap
}
