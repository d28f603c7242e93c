package physics

import (
	"github.com/jcbarr81/NexGen-BBPro-Win/models"
)

// AdvanceRunners applies the baserunner-advancement state machine for one
// resolved at-bat and returns the runs scored. The transition is a
// deterministic, total function of (occupancy, outcome, outs): every
// combination has a defined result.
//
// Advancement rules:
//   - Single: runners on second and third score, first moves to second.
//   - Double: every runner scores, batter stops at second.
//   - Triple / home run: every runner scores.
//   - Walk / hit-by-pitch: forced runners only.
//   - Error: every runner moves up exactly one base.
//   - Fly out with fewer than two outs: runner on third tags and scores
//     (sacrifice fly). All other outs hold the runners.
func AdvanceRunners(bases *models.BaseState, outcome *models.AtBatOutcome, batter *models.PhysicalParameters, outs int) int {
	runs := 0
	batterRunner := &models.BaseRunner{PlayerID: batter.PlayerID, Speed: batter.RunSpeed}

	switch outcome.Type {
	case models.Single:
		if bases.Third != nil {
			runs++
			bases.Third = nil
		}
		if bases.Second != nil {
			runs++
			bases.Second = nil
		}
		if bases.First != nil {
			bases.Second = bases.First
			bases.First = nil
		}
		bases.First = batterRunner

	case models.ReachedOnError:
		if bases.Third != nil {
			runs++
			bases.Third = nil
		}
		if bases.Second != nil {
			bases.Third = bases.Second
			bases.Second = nil
		}
		if bases.First != nil {
			bases.Second = bases.First
			bases.First = nil
		}
		bases.First = batterRunner

	case models.Double:
		if bases.Third != nil {
			runs++
			bases.Third = nil
		}
		if bases.Second != nil {
			runs++
			bases.Second = nil
		}
		if bases.First != nil {
			runs++
			bases.First = nil
		}
		bases.Second = batterRunner

	case models.Triple:
		if bases.Third != nil {
			runs++
			bases.Third = nil
		}
		if bases.Second != nil {
			runs++
			bases.Second = nil
		}
		if bases.First != nil {
			runs++
			bases.First = nil
		}
		bases.Third = batterRunner

	case models.HomeRun:
		runs = 1 + bases.RunnerCount()
		bases.First, bases.Second, bases.Third = nil, nil, nil

	case models.Walk, models.HitByPitch:
		if bases.First != nil {
			if bases.Second != nil {
				if bases.Third != nil {
					runs++
				}
				bases.Third = bases.Second
			}
			bases.Second = bases.First
			bases.First = nil
		}
		bases.First = batterRunner

	case models.InPlayOut:
		if outcome.OutType == models.FlyOut && outs < 2 && bases.Third != nil {
			runs++
			bases.Third = nil
			outcome.SacFly = true
		}
		// All other outs hold the runners.

	case models.Strikeout:
		// No advancement.
	}

	return runs
}
