package rules

import (
	"sort"

	"github.com/nstehr/flotilla/model"
)

// PlanetWeight is how many ships one held planet is worth when ranking players.
const PlanetWeight = 3

// Score is one player's weighted standing.
type Score struct {
	Player  int
	Ships   int
	Planets int
	Value   int
}

// Standings ranks every player in the snapshot, best first.
type Standings struct {
	Turn        int
	Me          int
	Scores      []Score
	FreePlanets int
	TotalShips  int
	TotalOwned  int
}

// ComputeStandings scores players by ships + planets×PlanetWeight. Ties rank
// the lower player id first so the result is stable.
func ComputeStandings(gs *model.GameState) Standings {
	st := Standings{Turn: gs.Turn, Me: gs.MyPlayerID}
	for _, p := range gs.Players {
		planets := gs.PlanetsOwnedBy(p.ID)
		st.Scores = append(st.Scores, Score{
			Player:  p.ID,
			Ships:   len(p.Ships),
			Planets: planets,
			Value:   len(p.Ships) + planets*PlanetWeight,
		})
		st.TotalShips += len(p.Ships)
		st.TotalOwned += planets
	}
	for _, p := range gs.Planets {
		if !p.Owned() {
			st.FreePlanets++
		}
	}
	sort.SliceStable(st.Scores, func(i, j int) bool {
		if st.Scores[i].Value != st.Scores[j].Value {
			return st.Scores[i].Value > st.Scores[j].Value
		}
		return st.Scores[i].Player < st.Scores[j].Player
	})
	return st
}

func (s Standings) mine() Score {
	for _, sc := range s.Scores {
		if sc.Player == s.Me {
			return sc
		}
	}
	return Score{Player: s.Me}
}

// StandingsEnv exposes standings to expr conditions.
type StandingsEnv struct {
	Standings Standings
}

func (e StandingsEnv) Turn() int { return e.Standings.Turn }

// Rank is 1-based; a player missing from the snapshot ranks last.
func (e StandingsEnv) Rank() int {
	for i, sc := range e.Standings.Scores {
		if sc.Player == e.Standings.Me {
			return i + 1
		}
	}
	return len(e.Standings.Scores) + 1
}

func (e StandingsEnv) Leading() bool { return e.Rank() == 1 }

func (e StandingsEnv) Opponents() int {
	n := 0
	for _, sc := range e.Standings.Scores {
		if sc.Player != e.Standings.Me && (sc.Ships > 0 || sc.Planets > 0) {
			n++
		}
	}
	return n
}

func (e StandingsEnv) MyShips() int   { return e.Standings.mine().Ships }
func (e StandingsEnv) MyPlanets() int { return e.Standings.mine().Planets }
func (e StandingsEnv) FreePlanets() int {
	return e.Standings.FreePlanets
}

// ShipShare is my fraction of all ships on the map.
func (e StandingsEnv) ShipShare() float64 {
	if e.Standings.TotalShips == 0 {
		return 0
	}
	return float64(e.MyShips()) / float64(e.Standings.TotalShips)
}

// PlanetShare is my fraction of all owned planets.
func (e StandingsEnv) PlanetShare() float64 {
	if e.Standings.TotalOwned == 0 {
		return 0
	}
	return float64(e.MyPlanets()) / float64(e.Standings.TotalOwned)
}

// Lead is my score minus the best opponent's; negative when behind.
func (e StandingsEnv) Lead() int {
	mine := e.Standings.mine().Value
	best := 0
	found := false
	for _, sc := range e.Standings.Scores {
		if sc.Player == e.Standings.Me {
			continue
		}
		if !found || sc.Value > best {
			best = sc.Value
			found = true
		}
	}
	return mine - best
}
