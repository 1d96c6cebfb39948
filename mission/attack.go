package mission

import "github.com/nstehr/flotilla/model"

// raidRadius is how many tiles around an unclaimed planet an attacker looks
// for enemy ships trying to dock there.
const raidRadius = 4

func attackCanContinue(g *Goal, env Env, ship model.Ship) bool {
	g.turns++

	planet := env.State.Planet(g.PlanetID)
	if planet == nil {
		return false
	}
	if planet.Owner == env.State.MyPlayerID {
		return false
	}
	if g.voidTurns > attackVoidLimit {
		return false
	}
	if g.spotThreats(env, ship) {
		return false
	}
	return true
}

func attackExecute(g *Goal, env Env, ship model.Ship) model.Action {
	planet := env.State.Planet(g.PlanetID)
	if planet == nil || !ship.Free() {
		return g.void(ship)
	}

	target := attackTarget(g, env, ship, *planet)
	if target == nil {
		return g.void(ship)
	}
	return g.navigate(env, ship, *target)
}

// attackTarget keeps chasing the cached ship while it lives. Otherwise it
// picks an enemy ship docking on an unclaimed planet, or one of the owner's
// docked ships spread across attackers by ship id.
func attackTarget(g *Goal, env Env, ship model.Ship, planet model.Planet) *model.Ship {
	if g.lastTarget != noTarget {
		if t := env.State.Ship(g.lastOwner, g.lastTarget); t != nil {
			return t
		}
		g.lastOwner, g.lastTarget = noTarget, noTarget
	}

	if !planet.Owned() {
		if env.Index == nil {
			return nil
		}
		for _, e := range env.Index.Enemies(planet.Pos(), raidRadius, env.State.MyPlayerID) {
			if e.DockingStatus == model.Docking || e.DockingProgress > 0 {
				g.lastOwner, g.lastTarget = e.Owner, e.ID
				return env.State.Ship(e.Owner, e.ID)
			}
		}
		return nil
	}

	if len(planet.DockedShips) == 0 {
		return nil
	}
	id := planet.DockedShips[ship.ID%len(planet.DockedShips)]
	t := env.State.Ship(planet.Owner, id)
	if t != nil {
		g.lastOwner, g.lastTarget = planet.Owner, id
	}
	return t
}
