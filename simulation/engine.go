// Package simulation drives whole games and seasons through the physics
// core. At-bats within a game are strictly sequential; independent games
// fan out across a worker pool and their per-game stat lines are merged
// after each game fully resolves, keeping game simulation lock-free.
package simulation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/physics"
	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

// Team is the roster view the simulation consumes: a nine-man batting
// order, a pitching staff, and a defensive alignment. Rosters are supplied
// by the roster subsystem and are read-only here.
type Team struct {
	ID       string
	Name     string
	Lineup   []*models.PlayerRatings // exactly 9, in batting order
	Pitchers []*models.PlayerRatings // staff in usage order; first starter pitches first
	Defense  map[string]*models.PlayerRatings // position -> ratings
}

// Validate fails fast on rosters the physics sim cannot run.
func (t *Team) Validate() error {
	if len(t.Lineup) != 9 {
		return fmt.Errorf("simulation: team %s: physics sim requires a complete 9-player lineup, got %d", t.ID, len(t.Lineup))
	}
	if len(t.Pitchers) == 0 {
		return fmt.Errorf("simulation: team %s: physics sim requires a pitching staff", t.ID)
	}
	for _, p := range t.Lineup {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, p := range t.Pitchers {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GameConfig is one game's inputs. Seed fully determines the game given
// the rosters, park, and tuning snapshot.
type GameConfig struct {
	GameID string
	RunID  string
	Home   *Team
	Away   *Team
	Park   *models.ParkGeometry // nil: park factors disabled, neutral applies
	Tuning *tuning.Config
	Seed   int64
}

// GameResult carries a finished game's score and its partial stat
// recorder, ready to merge into season totals.
type GameResult struct {
	GameID    string
	HomeID    string
	AwayID    string
	HomeScore int
	AwayScore int
	Winner    string // "home", "away", or "tie"
	Recorder  *stats.Recorder
}

// teamState is the per-game mutable side of one team.
type teamState struct {
	team        *Team
	batterIndex int
	pitcherIdx  int
	pitchCounts map[string]int
	defense     physics.Defense
	catcher     models.PhysicalParameters
}

const maxInnings = 18

// SimulateGame runs one complete game. Deterministic: the same config
// produces a bit-identical outcome sequence.
func SimulateGame(cfg GameConfig) (*GameResult, error) {
	if err := cfg.Home.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Away.Validate(); err != nil {
		return nil, err
	}
	if cfg.Tuning == nil {
		return nil, fmt.Errorf("simulation: game %s: tuning snapshot is required", cfg.GameID)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	state := models.NewGameState(cfg.GameID, cfg.RunID)
	recorder := stats.NewRecorder()

	home, err := newTeamState(cfg.Home, cfg.Tuning)
	if err != nil {
		return nil, err
	}
	away, err := newTeamState(cfg.Away, cfg.Tuning)
	if err != nil {
		return nil, err
	}

	seq := 0
	for !state.IsGameOver() && state.Inning <= maxInnings {
		batting, fielding := away, home
		if state.InningHalf == "bottom" {
			batting, fielding = home, away
		}

		if err := maybeSteal(state, fielding, recorder, rng, cfg.Tuning); err != nil {
			return nil, err
		}
		if state.IsInningOver() {
			state.AdvanceInning()
			continue
		}

		batter := batting.team.Lineup[batting.batterIndex]
		pitcher := fielding.currentPitcher(cfg.Tuning)

		batterParams, err := physics.MapBatter(batter, models.Situation{OpponentHand: pitcher.Throws}, cfg.Tuning)
		if err != nil {
			return nil, err
		}
		pitcherParams, err := physics.MapPitcher(pitcher, models.Situation{
			OpponentHand:  batter.Bats,
			PitchesThrown: fielding.pitchCounts[pitcher.PlayerID],
		}, cfg.Tuning)
		if err != nil {
			return nil, err
		}

		seq++
		outcome, err := physics.SimulateAtBat(physics.AtBatInput{
			Batter:  &batterParams,
			Pitcher: &pitcherParams,
			Defense: fielding.defense,
			Park:    cfg.Park,
		}, state, rng, cfg.Tuning)
		if err != nil {
			return nil, fmt.Errorf("simulation: game %s at-bat %d: %w", cfg.GameID, seq, err)
		}

		fielding.pitchCounts[pitcher.PlayerID] += outcome.Pitches
		if err := recorder.Record(&outcome, stats.Context{
			GameID:    cfg.GameID,
			BatterID:  batter.PlayerID,
			PitcherID: pitcher.PlayerID,
			Seq:       seq,
		}); err != nil {
			return nil, err
		}

		batting.batterIndex = (batting.batterIndex + 1) % len(batting.team.Lineup)
		if state.IsInningOver() {
			state.AdvanceInning()
		}
	}

	winner := "tie"
	if state.HomeScore > state.AwayScore {
		winner = "home"
	} else if state.AwayScore > state.HomeScore {
		winner = "away"
	}
	state.IsComplete = true
	state.WinnerTeam = winner

	return &GameResult{
		GameID:    cfg.GameID,
		HomeID:    cfg.Home.ID,
		AwayID:    cfg.Away.ID,
		HomeScore: state.HomeScore,
		AwayScore: state.AwayScore,
		Winner:    winner,
		Recorder:  recorder,
	}, nil
}

func newTeamState(team *Team, cfg *tuning.Config) (*teamState, error) {
	ts := &teamState{
		team:        team,
		pitchCounts: make(map[string]int),
		defense:     physics.NeutralDefense(),
		catcher:     physics.NeutralDefense()["C"],
	}
	for pos, ratings := range team.Defense {
		params, err := physics.MapFielder(ratings, cfg)
		if err != nil {
			return nil, err
		}
		ts.defense[pos] = params
		if pos == "C" {
			ts.catcher = params
		}
	}
	return ts, nil
}

// currentPitcher applies the pitching-change policy: once the current
// pitcher is past the tuned fatigue window, the next arm comes in.
func (ts *teamState) currentPitcher(cfg *tuning.Config) *models.PlayerRatings {
	pitcher := ts.team.Pitchers[ts.pitcherIdx]
	limit := cfg.FatigueStartBase + cfg.FatigueLimitBase
	if pitcher.Role != models.RoleStarter {
		// Relievers and unknown roles work short stints.
		limit = 28
	}
	if float64(ts.pitchCounts[pitcher.PlayerID]) > limit && ts.pitcherIdx < len(ts.team.Pitchers)-1 {
		ts.pitcherIdx++
		pitcher = ts.team.Pitchers[ts.pitcherIdx]
	}
	return pitcher
}

// maybeSteal gives the runner on first one steal opportunity per at-bat
// when second is open.
func maybeSteal(state *models.GameState, fielding *teamState, recorder *stats.Recorder, rng *rand.Rand, cfg *tuning.Config) error {
	runner := state.Bases.First
	if runner == nil || state.Bases.Second != nil || state.Outs >= 3 {
		return nil
	}
	ev := physics.ResolveSteal(runner, fielding.catcher, rng, cfg)
	if ev == nil {
		return nil
	}
	if ev.Success {
		state.Bases.Second = runner
		state.Bases.First = nil
	} else {
		state.Bases.First = nil
		state.Outs++
	}
	recorder.RecordSteal(ev)
	return nil
}

// SeasonConfig drives a full season: a set of teams, a number of times
// each ordered matchup is played, and one tuning snapshot bound for the
// whole run.
type SeasonConfig struct {
	RunID     string
	Teams     []*Team
	Rounds    int // times each ordered (home, away) pair plays
	Seed      int64
	Workers   int
	Tuning    *tuning.Config
	Park      *models.ParkGeometry
	Benchmark *stats.Benchmark
}

// SeasonResult is the aggregate of one season run.
type SeasonResult struct {
	RunID     string
	Games     int
	Wins      map[string]int
	Snapshot  stats.Snapshot
	KPIDeltas []stats.KPIDelta
}

// gameSeed derives a per-game seed from the run seed. Games must be
// deterministic regardless of which worker picks them up.
func gameSeed(runSeed int64, gameIndex int) int64 {
	return runSeed + int64(uint64(gameIndex)*0x9E3779B97F4A7C15)
}

// RunSeason schedules a round-robin season and simulates the games across
// the worker pool. League totals are combined by merging per-game partial
// lines; a canceled context discards unfinished games without corrupting
// the totals.
func RunSeason(ctx context.Context, cfg SeasonConfig) (*SeasonResult, error) {
	if len(cfg.Teams) < 2 {
		return nil, fmt.Errorf("simulation: season needs at least two teams")
	}
	if cfg.Rounds < 1 {
		cfg.Rounds = 1
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var jobs []GameConfig
	gameIndex := 0
	for round := 0; round < cfg.Rounds; round++ {
		for hi, homeTeam := range cfg.Teams {
			for ai, awayTeam := range cfg.Teams {
				if hi == ai {
					continue
				}
				jobs = append(jobs, GameConfig{
					GameID: fmt.Sprintf("%s-g%04d", cfg.RunID, gameIndex),
					RunID:  cfg.RunID,
					Home:   homeTeam,
					Away:   awayTeam,
					Park:   cfg.Park,
					Tuning: cfg.Tuning,
					Seed:   gameSeed(cfg.Seed, gameIndex),
				})
				gameIndex++
			}
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan GameConfig)
	resultCh := make(chan *GameResult, len(jobs))
	errCh := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					return
				}
				result, err := SimulateGame(j)
				if err != nil {
					errCh <- err
					cancel()
					return
				}
				resultCh <- result
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case jobCh <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(resultCh)
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}

	season := stats.NewRecorder()
	wins := make(map[string]int)
	games := 0
	for result := range resultCh {
		if err := season.Merge(result.Recorder); err != nil {
			return nil, err
		}
		games++
		switch result.Winner {
		case "home":
			wins[result.HomeID]++
		case "away":
			wins[result.AwayID]++
		}
	}

	if err := ctx.Err(); err != nil {
		log.Printf("simulation: season %s canceled after %d of %d games", cfg.RunID, games, len(jobs))
	}

	res := &SeasonResult{
		RunID:    cfg.RunID,
		Games:    games,
		Wins:     wins,
		Snapshot: season.Snapshot(),
	}
	if cfg.Benchmark != nil {
		league := res.Snapshot.League
		res.KPIDeltas = cfg.Benchmark.Compare(&league)
	}
	return res, nil
}
