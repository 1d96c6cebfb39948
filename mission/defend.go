package mission

import "github.com/nstehr/flotilla/model"

func defendCanContinue(g *Goal, env Env, ship model.Ship) bool {
	g.turns++
	if g.MaxTurns > 0 && g.turns >= g.MaxTurns {
		return false
	}

	planet := env.State.Planet(g.PlanetID)
	if planet == nil || planet.Owner != env.State.MyPlayerID {
		return false
	}
	if len(planet.DockedShips) == 0 {
		return false
	}
	return g.voidTurns <= defendVoidLimit
}

// defendExecute escorts one of the planet's docked ships, spreading
// defenders across them by ship id.
func defendExecute(g *Goal, env Env, ship model.Ship) model.Action {
	planet := env.State.Planet(g.PlanetID)
	if planet == nil || !ship.Free() {
		return g.void(ship)
	}

	me := env.State.MyPlayerID
	var target *model.Ship
	if g.lastTarget != noTarget {
		target = env.State.Ship(me, g.lastTarget)
	}
	if target == nil {
		if len(planet.DockedShips) == 0 {
			return g.void(ship)
		}
		g.lastTarget = planet.DockedShips[ship.ID%len(planet.DockedShips)]
		target = env.State.Ship(me, g.lastTarget)
	}
	if target == nil {
		return g.void(ship)
	}
	return g.navigate(env, ship, *target)
}
