package strategy

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/nstehr/flotilla/mission"
	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/rules"
)

// Cadence controls how often the doctrine is recomputed from standings.
type Cadence struct {
	Period  int `yaml:"period"`
	MinTurn int `yaml:"min_turn"`
}

func DefaultCadence() Cadence {
	return Cadence{Period: 10, MinTurn: 20}
}

// due reports whether turn is a refresh turn.
func (c Cadence) due(turn int) bool {
	return c.Period > 0 && turn >= c.MinTurn && turn%c.Period == 0
}

// category is one step of the draw chain.
type category int

const (
	settleCategory category = iota
	attackCategory
	reserveCategory // attack with relaxed capacity
	defendCategory
)

var categoryNames = [...]string{"settle", "attack", "reserve", "defend"}

func (c category) String() string { return categoryNames[c] }

// Allocator hands goals to ships and keeps the slot table that bounds how
// many ships chase each objective.
type Allocator struct {
	engine   *rules.Engine
	cadence  Cadence
	seed     uint64
	doctrine rules.Doctrine
	slots    *Slots
	created  int
	fired    []string
}

// NewAllocator starts from the engine's base doctrine.
func NewAllocator(engine *rules.Engine, cadence Cadence, seed uint64) (*Allocator, error) {
	if engine == nil {
		return nil, fmt.Errorf("new allocator: rules engine: %w", model.ErrMissingCollaborator)
	}
	return &Allocator{
		engine:   engine,
		cadence:  cadence,
		seed:     seed,
		doctrine: engine.Base(),
		slots:    NewSlots(),
	}, nil
}

// Doctrine is the doctrine currently in force.
func (a *Allocator) Doctrine() rules.Doctrine { return a.doctrine }

// Slots exposes the reservation table.
func (a *Allocator) Slots() *Slots { return a.slots }

// Created is how many new ships have been assigned so far.
func (a *Allocator) Created() int { return a.created }

// Refresh re-evaluates the tuning rules against the current standings when
// the cadence says so. It reports whether the doctrine was recomputed.
func (a *Allocator) Refresh(gs *model.GameState, turn int) bool {
	if !a.cadence.due(turn) {
		return false
	}
	a.evaluate(gs, "cadence")
	return true
}

// Reevaluate recomputes the doctrine now, outside the cadence.
func (a *Allocator) Reevaluate(gs *model.GameState, reason string) {
	a.evaluate(gs, reason)
}

func (a *Allocator) evaluate(gs *model.GameState, reason string) {
	env := rules.StandingsEnv{Standings: rules.ComputeStandings(gs)}
	a.doctrine, a.fired = a.engine.Evaluate(env)
	slog.Info("doctrine refreshed",
		"turn", gs.Turn,
		"reason", reason,
		"rank", env.Rank(),
		"ship_share", env.ShipShare(),
		"settle", a.doctrine.SettleRatio,
		"attack", a.doctrine.AttackRatio,
		"reserve", a.doctrine.ReserveRatio,
		"fired", a.fired,
	)
}

// Release frees every slot ship holds.
func (a *Allocator) Release(shipID int) { a.slots.Release(shipID) }

// Assign picks ship's next goal and reserves its slot. The caller must have
// released the ship's previous slot. previous may be nil.
func (a *Allocator) Assign(gs *model.GameState, ship model.Ship, isNew bool, previous *mission.Goal) *mission.Goal {
	if isNew {
		a.created++
	}

	if g := a.holdDock(gs, ship); g != nil {
		return g
	}
	if previous != nil && previous.ThreatSpotted {
		if g := a.hunt(gs, ship, previous.Threats); g != nil {
			return g
		}
	}

	nearest := byDistance(gs, ship)
	if isNew && a.created <= a.doctrine.InitialSettlers {
		if g := a.settle(gs, ship, nearest, true, true); g != nil {
			return g
		}
	}

	start := a.band(a.draw(gs.Turn, ship.ID))
	for c := start; c <= defendCategory; c++ {
		if g := a.try(c, gs, ship, nearest, isNew); g != nil {
			slog.Debug("goal assigned", "ship", ship.ID, "category", c, "drawn", start, "goal", g.Kind, "planet", g.PlanetID)
			return g
		}
	}
	if g := a.attack(gs, ship, nearest, true); g != nil {
		slog.Debug("goal assigned", "ship", ship.ID, "category", "aggressive", "goal", g.Kind, "planet", g.PlanetID)
		return g
	}
	slog.Debug("no goal available", "ship", ship.ID)
	return mission.Void()
}

func (a *Allocator) try(c category, gs *model.GameState, ship model.Ship, nearest []model.Planet, isNew bool) *mission.Goal {
	switch c {
	case settleCategory:
		return a.settle(gs, ship, nearest, isNew, false)
	case attackCategory:
		return a.attack(gs, ship, nearest, false)
	case reserveCategory:
		return a.attack(gs, ship, nearest, true)
	case defendCategory:
		return a.defend(gs, ship, nearest, isNew)
	}
	return nil
}

// draw is a uniform [0,1) value fixed by seed, turn and ship.
func (a *Allocator) draw(turn, shipID int) float64 {
	r := rand.New(rand.NewPCG(a.seed, uint64(turn)<<32|uint64(uint32(shipID))))
	return r.Float64()
}

// band maps a draw onto the cumulative ratio thresholds.
func (a *Allocator) band(r float64) category {
	d := a.doctrine
	switch {
	case r < d.SettleRatio:
		return settleCategory
	case r < d.AttackRatio:
		return attackCategory
	case r < d.ReserveRatio:
		return reserveCategory
	}
	return defendCategory
}

// holdDock keeps docked and docking ships settled where they are.
func (a *Allocator) holdDock(gs *model.GameState, ship model.Ship) *mission.Goal {
	if ship.DockingStatus == model.Undocked {
		return nil
	}
	p := gs.Planet(ship.DockedPlanet)
	if p == nil {
		return nil
	}
	a.slots.planet(p.ID).Settle.add(ship.ID)
	return mission.NewSettle(p.ID, true)
}

// hunt sends ship after the nearest living threat that still has room for
// another hunter.
func (a *Allocator) hunt(gs *model.GameState, ship model.Ship, threats []model.Ship) *mission.Goal {
	for _, t := range threats {
		if gs.Ship(t.Owner, t.ID) == nil || !a.canHunt(t.ID) {
			continue
		}
		a.slots.hunters(t.ID).add(ship.ID)
		slog.Debug("hunting threat", "ship", ship.ID, "target", t.ID, "owner", t.Owner)
		return mission.NewHunt(t.Owner, t.ID)
	}
	return nil
}

func (a *Allocator) settle(gs *model.GameState, ship model.Ship, nearest []model.Planet, isNew, urgent bool) *mission.Goal {
	p := a.pick(ship, nearest, a.take(isNew), func(p model.Planet) bool { return a.canSettle(gs, p) })
	if p == nil {
		return nil
	}
	a.slots.planet(p.ID).Settle.add(ship.ID)
	return mission.NewSettle(p.ID, urgent)
}

// attack targets a foreign planet. aggressive ignores the attack capacity
// and only respects the relaxed ceiling.
func (a *Allocator) attack(gs *model.GameState, ship model.Ship, nearest []model.Planet, aggressive bool) *mission.Goal {
	ok := func(p model.Planet) bool { return a.canAttack(gs, p) }
	if aggressive {
		ok = func(p model.Planet) bool { return a.canRaid(gs, p) }
	}
	p := a.pick(ship, nearest, a.doctrine.NearestCount, ok)
	if p == nil {
		return nil
	}
	a.slots.planet(p.ID).Attack.add(ship.ID)
	return mission.NewAttack(p.ID, false)
}

func (a *Allocator) defend(gs *model.GameState, ship model.Ship, nearest []model.Planet, isNew bool) *mission.Goal {
	p := a.pick(ship, nearest, a.take(isNew), func(p model.Planet) bool { return a.canDefend(gs, p) })
	if p == nil {
		return nil
	}
	a.slots.planet(p.ID).Defend.add(ship.ID)
	return mission.NewDefend(p.ID, a.doctrine.DefendMaxTurns)
}

// take is how many of the nearest eligible planets are considered. Fresh
// ships only look at the closest one.
func (a *Allocator) take(isNew bool) int {
	if isNew {
		return 1
	}
	return a.doctrine.NearestCount
}

// pick keeps the first n eligible planets by distance and prefers the
// largest, then the closest with a small id offset so equidistant planets
// always resolve the same way.
func (a *Allocator) pick(ship model.Ship, nearest []model.Planet, n int, ok func(model.Planet) bool) *model.Planet {
	var cands []model.Planet
	for _, p := range nearest {
		if len(cands) == n {
			break
		}
		if ok(p) {
			cands = append(cands, p)
		}
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Radius != cands[j].Radius {
			return cands[i].Radius > cands[j].Radius
		}
		return tieBreak(ship, cands[i]) < tieBreak(ship, cands[j])
	})
	return &cands[0]
}

func tieBreak(ship model.Ship, p model.Planet) float64 {
	return model.Distance(ship.Pos(), p.Pos()) + float64(p.ID)/1000
}

// byDistance lists every planet nearest first; equal distances keep id order.
func byDistance(gs *model.GameState, ship model.Ship) []model.Planet {
	planets := append([]model.Planet(nil), gs.Planets...)
	sort.SliceStable(planets, func(i, j int) bool {
		di := model.Distance(ship.Pos(), planets[i].Pos())
		dj := model.Distance(ship.Pos(), planets[j].Pos())
		if di != dj {
			return di < dj
		}
		return planets[i].ID < planets[j].ID
	})
	return planets
}
