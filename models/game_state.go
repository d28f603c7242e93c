package models

// GameState tracks the live state of one simulated game. At-bats within a
// game are strictly sequential; nothing here is shared across games.
type GameState struct {
	GameID     string    `json:"game_id"`
	RunID      string    `json:"run_id"`
	Inning     int       `json:"inning"`
	InningHalf string    `json:"inning_half"` // "top" or "bottom"
	Outs       int       `json:"outs"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Bases      BaseState `json:"bases"`
	Count      Count     `json:"count"`
	IsComplete bool      `json:"is_complete"`
	WinnerTeam string    `json:"winner_team,omitempty"`
}

// BaseState holds the runner on each base, nil when empty.
type BaseState struct {
	First  *BaseRunner `json:"first,omitempty"`
	Second *BaseRunner `json:"second,omitempty"`
	Third  *BaseRunner `json:"third,omitempty"`
}

// BaseRunner is a runner currently on base.
type BaseRunner struct {
	PlayerID string  `json:"player_id"`
	Speed    float64 `json:"speed"` // normalized [0,1]
}

// Count is the balls/strikes count within an at-bat.
type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
}

// NewGameState creates the initial state for one game.
func NewGameState(gameID, runID string) *GameState {
	return &GameState{
		GameID:     gameID,
		RunID:      runID,
		Inning:     1,
		InningHalf: "top",
	}
}

// IsInningOver checks if the current half-inning is over.
func (gs *GameState) IsInningOver() bool {
	return gs.Outs >= 3
}

// IsGameOver checks if the game has ended: nine completed innings with a
// lead, or the home team ahead any time in the bottom of the ninth or
// later.
func (gs *GameState) IsGameOver() bool {
	if gs.Inning > 9 && gs.InningHalf == "top" && gs.HomeScore != gs.AwayScore {
		return true
	}
	if gs.Inning >= 9 && gs.InningHalf == "bottom" && gs.HomeScore > gs.AwayScore {
		return true
	}
	return false
}

// AdvanceInning moves to the next half-inning, clearing bases and count.
func (gs *GameState) AdvanceInning() {
	gs.Outs = 0
	gs.Count = Count{}
	gs.Bases = BaseState{}
	if gs.InningHalf == "top" {
		gs.InningHalf = "bottom"
	} else {
		gs.InningHalf = "top"
		gs.Inning++
	}
}

// AddRuns credits runs to the batting team.
func (gs *GameState) AddRuns(runs int) {
	if gs.InningHalf == "top" {
		gs.AwayScore += runs
	} else {
		gs.HomeScore += runs
	}
}

// Occupancy packs base occupancy into a 3-bit mask: bit 0 = first,
// bit 1 = second, bit 2 = third. Used by the advancement table tests.
func (bs *BaseState) Occupancy() int {
	mask := 0
	if bs.First != nil {
		mask |= 1
	}
	if bs.Second != nil {
		mask |= 2
	}
	if bs.Third != nil {
		mask |= 4
	}
	return mask
}

// RunnerCount returns the number of occupied bases.
func (bs *BaseState) RunnerCount() int {
	count := 0
	if bs.First != nil {
		count++
	}
	if bs.Second != nil {
		count++
	}
	if bs.Third != nil {
		count++
	}
	return count
}

// IsEmpty checks if all bases are empty.
func (bs *BaseState) IsEmpty() bool {
	return bs.First == nil && bs.Second == nil && bs.Third == nil
}
