package mission

import (
	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/navigation"
	"github.com/nstehr/flotilla/rules"
)

// Kind selects a goal's behavior from the dispatch table.
type Kind int

const (
	None Kind = iota
	Settle
	Attack
	Defend
	Hunt
)

func (k Kind) String() string {
	switch k {
	case Settle:
		return "settle"
	case Attack:
		return "attack"
	case Defend:
		return "defend"
	case Hunt:
		return "hunt"
	}
	return "none"
}

// Consecutive void turns each goal tolerates before giving up.
const (
	settleVoidLimit = 2
	attackVoidLimit = 5
	defendVoidLimit = 3
	huntVoidLimit   = 3
)

// noTarget marks an empty target cache.
const noTarget = -1

// Env is the read-only context a goal sees during one turn.
type Env struct {
	State    *model.GameState
	Index    *navigation.Index
	Planner  *navigation.Planner
	Doctrine rules.Doctrine
}

// Goal is one ship's current assignment. Every goal belongs to exactly one
// registration and is never shared, so its counters are plain fields.
type Goal struct {
	Kind         Kind
	PlanetID     int
	TargetOwner  int
	TargetShipID int
	MustComplete bool // skip the early threat check
	MaxTurns     int  // Defend only

	turns      int
	voidTurns  int
	lastOwner  int
	lastTarget int

	// ThreatSpotted is raised by CanContinue when enemies showed up near a
	// ship early in a non-urgent goal; Threats lists them, nearest first.
	ThreatSpotted bool
	Threats       []model.Ship
}

type behavior struct {
	canContinue func(g *Goal, env Env, ship model.Ship) bool
	execute     func(g *Goal, env Env, ship model.Ship) model.Action
}

var behaviors = [...]behavior{
	None:   {canContinue: voidCanContinue, execute: voidExecute},
	Settle: {canContinue: settleCanContinue, execute: settleExecute},
	Attack: {canContinue: attackCanContinue, execute: attackExecute},
	Defend: {canContinue: defendCanContinue, execute: defendExecute},
	Hunt:   {canContinue: huntCanContinue, execute: huntExecute},
}

// Void is the goal of a ship with nothing to do.
func Void() *Goal {
	return &Goal{Kind: None, PlanetID: noTarget, TargetShipID: noTarget, lastTarget: noTarget, lastOwner: noTarget}
}

func NewSettle(planetID int, mustComplete bool) *Goal {
	g := Void()
	g.Kind, g.PlanetID, g.MustComplete = Settle, planetID, mustComplete
	return g
}

func NewAttack(planetID int, mustComplete bool) *Goal {
	g := Void()
	g.Kind, g.PlanetID, g.MustComplete = Attack, planetID, mustComplete
	return g
}

func NewDefend(planetID, maxTurns int) *Goal {
	g := Void()
	g.Kind, g.PlanetID, g.MaxTurns = Defend, planetID, maxTurns
	return g
}

func NewHunt(owner, shipID int) *Goal {
	g := Void()
	g.Kind, g.TargetOwner, g.TargetShipID = Hunt, owner, shipID
	g.MustComplete = true
	return g
}

// CanContinue reports whether the goal still makes sense for ship. False
// means the allocator must hand out a new one.
func (g *Goal) CanContinue(env Env, ship model.Ship) bool {
	if g == nil {
		return false
	}
	return behaviors[g.Kind].canContinue(g, env, ship)
}

// Execute produces this turn's action for ship.
func (g *Goal) Execute(env Env, ship model.Ship) model.Action {
	if g == nil {
		return model.NoopFor(ship.ID)
	}
	return behaviors[g.Kind].execute(g, env, ship)
}

func (g *Goal) VoidTurns() int { return g.voidTurns }

// record counts consecutive void turns; any real action clears the count.
func (g *Goal) record(a model.Action) model.Action {
	if a.Kind == model.Noop {
		g.voidTurns++
	} else {
		g.voidTurns = 0
	}
	return a
}

func (g *Goal) void(ship model.Ship) model.Action {
	return g.record(model.NoopFor(ship.ID))
}

// spotThreats raises the threat flag when enemies sit within the doctrine's
// threat radius while a non-urgent goal is younger than the threat window.
// turns already counts the current evaluation.
func (g *Goal) spotThreats(env Env, ship model.Ship) bool {
	if g.MustComplete || g.turns >= env.Doctrine.ThreatWindow || env.Index == nil {
		return false
	}
	enemies := env.Index.Enemies(ship.Pos(), env.Doctrine.ThreatRadius, env.State.MyPlayerID)
	if len(enemies) == 0 {
		return false
	}
	g.ThreatSpotted = true
	g.Threats = append([]model.Ship(nil), enemies...)
	return true
}

// navigate flies ship to target's boundary at full speed; a blocked path is a
// void turn.
func (g *Goal) navigate(env Env, ship model.Ship, target model.Entity) model.Action {
	a, ok := env.Planner.PlanToEntity(env.State, ship, target, model.MaxSpeed)
	if !ok {
		return g.void(ship)
	}
	return g.record(a)
}

func voidCanContinue(*Goal, Env, model.Ship) bool { return false }

func voidExecute(_ *Goal, _ Env, ship model.Ship) model.Action { return model.NoopFor(ship.ID) }
