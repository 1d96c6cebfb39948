package model

import "github.com/paulmach/orb"

// Unowned marks a planet nobody has docked on yet.
const Unowned = -1

type DockingStatus int

const (
	Undocked  DockingStatus = 0
	Docking   DockingStatus = 1
	Docked    DockingStatus = 2
	Undocking DockingStatus = 3
)

func (s DockingStatus) String() string {
	switch s {
	case Undocked:
		return "undocked"
	case Docking:
		return "docking"
	case Docked:
		return "docked"
	case Undocking:
		return "undocking"
	}
	return "unknown"
}

// GameState is the read-only world snapshot for one turn.
type GameState struct {
	Turn       int      `json:"turn"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	MyPlayerID int      `json:"myPlayerId"`
	Players    []Player `json:"players"`
	Planets    []Planet `json:"planets"`
}

type Player struct {
	ID    int    `json:"id"`
	Ships []Ship `json:"ships"`
}

type Ship struct {
	ID              int           `json:"id"`
	Owner           int           `json:"owner"`
	X               float64       `json:"x"`
	Y               float64       `json:"y"`
	Radius          float64       `json:"radius"`
	Health          int           `json:"health"`
	DockingStatus   DockingStatus `json:"dockingStatus"`
	DockedPlanet    int           `json:"dockedPlanet"`
	DockingProgress int           `json:"dockingProgress"`
}

func (s Ship) Pos() orb.Point       { return orb.Point{s.X, s.Y} }
func (s Ship) EntityRadius() float64 { return s.Radius }

// Free reports whether the ship can accept thrust orders this turn.
func (s Ship) Free() bool { return s.DockingStatus == Undocked }

type Planet struct {
	ID                  int     `json:"id"`
	Owner               int     `json:"owner"`
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Radius              float64 `json:"radius"`
	Health              int     `json:"health"`
	DockingSpots        int     `json:"dockingSpots"`
	RemainingProduction int     `json:"remainingProduction"`
	DockedShips         []int   `json:"dockedShips"`
}

func (p Planet) Pos() orb.Point       { return orb.Point{p.X, p.Y} }
func (p Planet) EntityRadius() float64 { return p.Radius }

func (p Planet) Owned() bool { return p.Owner != Unowned }

// Full is true once every docking spot is taken.
func (p Planet) Full() bool { return len(p.DockedShips) >= p.DockingSpots }

// FreeSpots never goes negative, even when the host reports overfilled planets.
func (p Planet) FreeSpots() int {
	if n := p.DockingSpots - len(p.DockedShips); n > 0 {
		return n
	}
	return 0
}

// Planet returns nil when the id is not on the map (destroyed planets vanish).
func (gs *GameState) Planet(id int) *Planet {
	for i := range gs.Planets {
		if gs.Planets[i].ID == id {
			return &gs.Planets[i]
		}
	}
	return nil
}

func (gs *GameState) Player(id int) *Player {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i]
		}
	}
	return nil
}

// Ship looks a ship up by owner and id. Returns nil for unknown pairs.
func (gs *GameState) Ship(owner, id int) *Ship {
	p := gs.Player(owner)
	if p == nil {
		return nil
	}
	for i := range p.Ships {
		if p.Ships[i].ID == id {
			return &p.Ships[i]
		}
	}
	return nil
}

func (gs *GameState) MyShips() []Ship {
	if p := gs.Player(gs.MyPlayerID); p != nil {
		return p.Ships
	}
	return nil
}

func (gs *GameState) AllShips() []Ship {
	n := 0
	for _, p := range gs.Players {
		n += len(p.Ships)
	}
	out := make([]Ship, 0, n)
	for _, p := range gs.Players {
		out = append(out, p.Ships...)
	}
	return out
}

// PlanetsOwnedBy counts planets held by the given player.
func (gs *GameState) PlanetsOwnedBy(owner int) int {
	n := 0
	for _, p := range gs.Planets {
		if p.Owner == owner {
			n++
		}
	}
	return n
}
