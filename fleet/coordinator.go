package fleet

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/flotilla/mission"
	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/navigation"
	"github.com/nstehr/flotilla/strategy"
)

// Options bounds the per-turn work and the trajectory safety checks.
type Options struct {
	MaxShipsPerTurn      int     `yaml:"max_ships_per_turn"`
	SafetyMargin         float64 `yaml:"safety_margin"`
	StrictCollisionTurns int     `yaml:"strict_collision_turns"` // loose trajectory tolerance before this turn
}

func DefaultOptions() Options {
	return Options{MaxShipsPerTurn: 120, SafetyMargin: 0.1, StrictCollisionTurns: 10}
}

// Trajectory tolerances: early turns keep ships a full body apart, later
// turns only reject actual crossings.
const (
	looseTrajectoryTolerance  = 2*model.ShipRadius + 0.02
	strictTrajectoryTolerance = 1e-5
)

// Coordinator runs one turn for the whole fleet: it keeps the registry in
// sync with the snapshot, hands out goals and makes sure this turn's moves
// do not run into each other.
type Coordinator struct {
	alloc    *strategy.Allocator
	planner  *navigation.Planner
	registry *Registry
	opts     Options

	index         *navigation.Index
	width, height int
}

func NewCoordinator(alloc *strategy.Allocator, planner *navigation.Planner, opts Options) (*Coordinator, error) {
	if alloc == nil {
		return nil, fmt.Errorf("new coordinator: allocator: %w", model.ErrMissingCollaborator)
	}
	if planner == nil {
		return nil, fmt.Errorf("new coordinator: planner: %w", model.ErrMissingCollaborator)
	}
	if opts.MaxShipsPerTurn <= 0 {
		opts.MaxShipsPerTurn = DefaultOptions().MaxShipsPerTurn
	}
	return &Coordinator{alloc: alloc, planner: planner, registry: NewRegistry(), opts: opts}, nil
}

// Registry exposes the ship records for inspection.
func (c *Coordinator) Registry() *Registry { return c.registry }

// OnNewAgent registers a ship ahead of the next snapshot.
func (c *Coordinator) OnNewAgent(id int) {
	if c.registry.Add(id) {
		slog.Debug("ship registered", "ship", id)
	}
}

// OnAgentDestroyed frees the ship's slots right away; the registration is
// evicted on the next Step.
func (c *Coordinator) OnAgentDestroyed(id int) {
	if c.registry.MarkDestroyed(id) {
		slog.Debug("ship destroyed", "ship", id)
	}
	c.alloc.Release(id)
}

// Step produces one action per processed ship, in registry order.
func (c *Coordinator) Step(gs *model.GameState) []model.Action {
	turn := gs.Turn
	c.alloc.Refresh(gs, turn)
	c.rebuildIndex(gs)
	c.reconcile(gs)

	env := mission.Env{State: gs, Index: c.index, Planner: c.planner, Doctrine: c.alloc.Doctrine()}
	me := gs.MyPlayerID

	var actions []model.Action
	skipped := 0
	for i := range c.registry.entries {
		reg := &c.registry.entries[i]
		if len(actions) == c.opts.MaxShipsPerTurn {
			skipped = c.registry.Len() - i
			break
		}
		ship := gs.Ship(me, reg.ShipID)
		if ship == nil {
			continue
		}

		c.resolveGoal(env, reg, *ship)
		a := reg.Goal.Execute(env, *ship)
		actions = append(actions, c.correct(a, actions, turn))
	}
	if skipped > 0 {
		slog.Warn("ship cap reached", "turn", turn, "cap", c.opts.MaxShipsPerTurn, "skipped", skipped)
	}

	c.alloc.LogState(gs, turn)
	slog.Debug("turn planned", "turn", turn, "ships", c.registry.Len(), "actions", len(actions), "occupied_tiles", c.index.Occupied())
	return actions
}

func (c *Coordinator) rebuildIndex(gs *model.GameState) {
	if c.index == nil || c.width != gs.Width || c.height != gs.Height {
		c.index = navigation.NewIndex(gs.Width, gs.Height)
		c.width, c.height = gs.Width, gs.Height
	}
	c.index.Rebuild(gs.AllShips())
}

func (c *Coordinator) reconcile(gs *model.GameState) {
	mine := gs.MyShips()
	ids := make([]int, len(mine))
	for i, s := range mine {
		ids[i] = s.ID
	}
	destroyed := c.registry.Reconcile(ids)
	for _, id := range destroyed {
		c.alloc.Release(id)
	}
	c.registry.Evict(destroyed...)
	if len(destroyed) > 0 {
		slog.Debug("ships lost", "turn", gs.Turn, "ids", destroyed)
	}
}

// resolveGoal gives new ships their first goal and replaces goals that can
// no longer continue or whose slot is no longer held.
func (c *Coordinator) resolveGoal(env mission.Env, reg *Registration, ship model.Ship) {
	if reg.Status == New {
		reg.Goal = c.alloc.Assign(env.State, ship, true, nil)
		reg.Status = Active
		slog.Debug("first goal", "ship", ship.ID, "goal", reg.Goal.Kind, "planet", reg.Goal.PlanetID)
		return
	}
	if c.alloc.Slots().Holds(ship.ID) && reg.Goal.CanContinue(env, ship) {
		return
	}
	prev := reg.Goal
	c.alloc.Release(ship.ID)
	reg.Goal = c.alloc.Assign(env.State, ship, false, prev)
	slog.Debug("goal replaced", "ship", ship.ID, "from", prev.Kind, "to", reg.Goal.Kind, "threat", prev.ThreatSpotted)
}

// correct slows a move down until it keeps clear of every move already
// accepted this turn, and drops it if even thrust 1 is unsafe.
func (c *Coordinator) correct(a model.Action, accepted []model.Action, turn int) model.Action {
	if !a.Moving() {
		return a
	}
	for thrust := a.Thrust; thrust > 0; thrust-- {
		candidate := a.WithThrust(thrust)
		if c.clear(candidate, accepted, turn) {
			if thrust != a.Thrust {
				slog.Debug("move slowed", "ship", a.ShipID, "from", a.Thrust, "to", thrust)
			}
			return candidate
		}
	}
	slog.Debug("move dropped", "ship", a.ShipID, "thrust", a.Thrust)
	return model.NoopFor(a.ShipID)
}

func (c *Coordinator) clear(a model.Action, accepted []model.Action, turn int) bool {
	separation := 2*model.ShipRadius + c.opts.SafetyMargin
	tol := c.trajectoryTolerance(turn)
	for _, b := range accepted {
		if !b.Moving() {
			continue
		}
		if model.Distance(a.End, b.End) < separation {
			return false
		}
		if model.SegmentsIntersect(a.Start, a.End, b.Start, b.End, tol) {
			return false
		}
	}
	return true
}

func (c *Coordinator) trajectoryTolerance(turn int) float64 {
	if turn < c.opts.StrictCollisionTurns {
		return looseTrajectoryTolerance
	}
	return strictTrajectoryTolerance
}

// Commands renders the actions the host needs to see; noops are left out.
func Commands(actions []model.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if cmd := a.Encode(); cmd != "" {
			out = append(out, cmd)
		}
	}
	return out
}
