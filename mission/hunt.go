package mission

import (
	"math"

	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/navigation"
)

func huntCanContinue(g *Goal, env Env, ship model.Ship) bool {
	g.turns++

	target := env.State.Ship(g.TargetOwner, g.TargetShipID)
	if target == nil {
		return false
	}
	if g.voidTurns > huntVoidLimit {
		return false
	}
	tiles := int(math.Floor(model.Distance(ship.Pos(), target.Pos()) / navigation.TileSize))
	return tiles <= env.Doctrine.ChaseRadius
}

func huntExecute(g *Goal, env Env, ship model.Ship) model.Action {
	target := env.State.Ship(g.TargetOwner, g.TargetShipID)
	if target == nil || !ship.Free() {
		return g.void(ship)
	}
	return g.navigate(env, ship, *target)
}
