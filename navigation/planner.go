package navigation

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/nstehr/flotilla/model"
)

// AngularStep is how far the aim point rotates per failed correction.
const AngularStep = math.Pi / 180

// Planner turns "go to X" into a thrust that does not run through planets or
// other ships. It holds no state: the same snapshot and inputs always produce
// the same action.
type Planner struct {
	MaxCorrections int
	Step           float64
}

func NewPlanner() *Planner {
	return &Planner{MaxCorrections: model.MaxNavigationCorrections, Step: AngularStep}
}

// PlanToEntity aims at the closest boundary point of target, leaving the
// target itself out of the obstacle check.
func (p *Planner) PlanToEntity(gs *model.GameState, ship model.Ship, target model.Entity, maxSpeed int) (model.Action, bool) {
	return p.plan(gs, ship, model.ClosestPoint(ship.Pos(), target), target, maxSpeed)
}

// PlanToward aims straight at target. It returns false when every corrected
// heading is blocked; callers treat that as a void turn.
func (p *Planner) PlanToward(gs *model.GameState, ship model.Ship, target orb.Point, maxSpeed int) (model.Action, bool) {
	return p.plan(gs, ship, target, nil, maxSpeed)
}

func (p *Planner) plan(gs *model.GameState, ship model.Ship, target orb.Point, skip model.Entity, maxSpeed int) (model.Action, bool) {
	start := ship.Pos()
	distance := model.Distance(start, target)
	angle := model.Bearing(start, target)

	for corrections := p.MaxCorrections; corrections > 0; corrections-- {
		if len(model.ObstaclesBetween(gs, ship, target, skip)) == 0 {
			// truncate: rounding up could overshoot into whatever we are approaching
			thrust := maxSpeed
			if distance < float64(maxSpeed) {
				thrust = int(distance)
			}
			return model.ThrustFrom(ship.ID, start, thrust, angle), true
		}
		angle += p.Step
		target = orb.Point{start[0] + math.Cos(angle)*distance, start[1] + math.Sin(angle)*distance}
		// the deflected point is no longer on the target's boundary
		skip = nil
	}
	return model.NoopFor(ship.ID), false
}
