package mission

import "github.com/nstehr/flotilla/model"

func settleCanContinue(g *Goal, env Env, ship model.Ship) bool {
	g.turns++

	planet := env.State.Planet(g.PlanetID)
	if planet == nil {
		return false
	}
	// once on the planet the ship stays until the planet is lost
	if !ship.Free() && ship.DockedPlanet == g.PlanetID {
		return planet.Owner == env.State.MyPlayerID || !planet.Owned()
	}
	if planet.Owned() && planet.Owner != env.State.MyPlayerID {
		return false
	}
	if planet.Owned() && planet.Full() {
		return false
	}
	if g.voidTurns > settleVoidLimit {
		return false
	}
	if g.spotThreats(env, ship) {
		return false
	}
	return true
}

func settleExecute(g *Goal, env Env, ship model.Ship) model.Action {
	planet := env.State.Planet(g.PlanetID)
	if planet == nil {
		return g.void(ship)
	}
	// docking and undocking take several turns; nothing to order meanwhile
	if !ship.Free() {
		return model.NoopFor(ship.ID)
	}
	if model.CanDock(ship, *planet) {
		return g.record(model.DockAt(ship.ID, planet.ID))
	}
	return g.navigate(env, ship, *planet)
}
