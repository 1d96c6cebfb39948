package strategy

import (
	"log/slog"

	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/rules"
)

func ours(gs *model.GameState, p model.Planet) bool    { return p.Owner == gs.MyPlayerID }
func foreign(gs *model.GameState, p model.Planet) bool { return p.Owned() && !ours(gs, p) }

// canSettle: ours or unclaimed, a free spot left, and fewer settlers (docked
// or en route) than docking spots.
func (a *Allocator) canSettle(gs *model.GameState, p model.Planet) bool {
	if foreign(gs, p) || p.FreeSpots() == 0 {
		return false
	}
	return a.slots.settlers(p) < p.DockingSpots
}

func (a *Allocator) canAttack(gs *model.GameState, p model.Planet) bool {
	return foreign(gs, p) && len(a.slots.planet(p.ID).Attack) < a.attackCapacity(p)
}

// canRaid is canAttack with the relaxed ceiling, which never exceeds
// MaxCapacityFactor attackers per docking spot.
func (a *Allocator) canRaid(gs *model.GameState, p model.Planet) bool {
	return foreign(gs, p) && len(a.slots.planet(p.ID).Attack) < rules.MaxCapacityFactor*p.DockingSpots
}

func (a *Allocator) canDefend(gs *model.GameState, p model.Planet) bool {
	return ours(gs, p) && len(a.slots.planet(p.ID).Defend) < a.doctrine.DefendCapacityFactor*len(p.DockedShips)
}

func (a *Allocator) canHunt(target int) bool {
	return a.slots.HuntOccupancy(target) < a.doctrine.HuntCapacity
}

func (a *Allocator) attackCapacity(p model.Planet) int {
	return a.doctrine.AttackCapacityFactor * p.DockingSpots
}

// LogState writes the slot totals for this turn, plus one debug line per
// contested planet.
func (a *Allocator) LogState(gs *model.GameState, turn int) {
	o := a.slots.Occupancy()
	slog.Info("allocation state", "turn", turn, "settle", o.Settle, "attack", o.Attack, "defend", o.Defend, "hunt", o.Hunt, "created", a.created)
	for _, p := range gs.Planets {
		po := a.slots.PlanetOccupancy(p.ID)
		if po == (Occupancy{}) {
			continue
		}
		slog.Debug("planet slots", "turn", turn, "planet", p.ID, "owner", p.Owner, "free_spots", p.FreeSpots(), "settle", po.Settle, "attack", po.Attack, "defend", po.Defend)
	}
}
