package simulation

import (
	"fmt"
	"math/rand"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
)

var defensePositions = []string{"C", "1B", "2B", "SS", "3B", "LF", "CF", "RF", "P"}

// NeutralTeam builds a team of league-average players. Used by the
// stability harness and calibration runs, where roster talent must not
// skew the league rates.
func NeutralTeam(id string) *Team {
	team := &Team{
		ID:      id,
		Name:    "Team " + id,
		Defense: make(map[string]*models.PlayerRatings),
	}
	for i := 0; i < 9; i++ {
		batter := averagePlayer(fmt.Sprintf("%s-b%d", id, i), models.RoleUnknown)
		team.Lineup = append(team.Lineup, batter)
		team.Defense[defensePositions[i%len(defensePositions)]] = batter
	}
	for i := 0; i < 4; i++ {
		role := models.RoleStarter
		if i > 0 {
			role = models.RoleReliever
		}
		team.Pitchers = append(team.Pitchers, averagePlayer(fmt.Sprintf("%s-p%d", id, i), role))
	}
	return team
}

// NeutralLeague builds n league-average teams.
func NeutralLeague(n int) []*Team {
	teams := make([]*Team, 0, n)
	for i := 0; i < n; i++ {
		teams = append(teams, NeutralTeam(fmt.Sprintf("t%02d", i)))
	}
	return teams
}

// GenerateLeague builds n teams with ratings drawn around league average,
// for runs where talent spread matters. Deterministic given rng.
func GenerateLeague(n int, rng *rand.Rand) []*Team {
	teams := make([]*Team, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("t%02d", i)
		team := &Team{
			ID:      id,
			Name:    "Team " + id,
			Defense: make(map[string]*models.PlayerRatings),
		}
		for b := 0; b < 9; b++ {
			p := randomPlayer(fmt.Sprintf("%s-b%d", id, b), models.RoleUnknown, rng)
			team.Lineup = append(team.Lineup, p)
			team.Defense[defensePositions[b%len(defensePositions)]] = p
		}
		for s := 0; s < 4; s++ {
			role := models.RoleStarter
			if s > 0 {
				role = models.RoleReliever
			}
			team.Pitchers = append(team.Pitchers, randomPlayer(fmt.Sprintf("%s-p%d", id, s), role, rng))
		}
		teams = append(teams, team)
	}
	return teams
}

func averagePlayer(id string, role models.PitcherRole) *models.PlayerRatings {
	return &models.PlayerRatings{
		PlayerID: id,
		Bats:     models.RightHanded,
		Throws:   models.RightHanded,
		Role:     role,
		Contact:  50, Power: 50, Eye: 50, Speed: 50,
		Velocity: 50, Movement: 50, Control: 50,
		Range: 50, Arm: 50, Hands: 50,
	}
}

func randomPlayer(id string, role models.PitcherRole, rng *rand.Rand) *models.PlayerRatings {
	draw := func() int {
		v := int(50 + rng.NormFloat64()*12)
		if v < 5 {
			v = 5
		}
		if v > 95 {
			v = 95
		}
		return v
	}
	hand := models.RightHanded
	if rng.Float64() < 0.30 {
		hand = models.LeftHanded
	}
	return &models.PlayerRatings{
		PlayerID: id,
		Bats:     hand,
		Throws:   hand,
		Role:     role,
		Contact:  draw(), Power: draw(), Eye: draw(), Speed: draw(),
		Velocity: draw(), Movement: draw(), Control: draw(),
		Range: draw(), Arm: draw(), Hands: draw(),
	}
}
