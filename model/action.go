package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

type ActionKind int

const (
	Noop ActionKind = iota
	Thrust
	Dock
	Undock
)

func (k ActionKind) String() string {
	switch k {
	case Thrust:
		return "thrust"
	case Dock:
		return "dock"
	case Undock:
		return "undock"
	}
	return "noop"
}

// Action is one ship's order for the turn. Thrust actions produced by the
// planner carry the start and predicted end-of-turn positions so the turn
// coordinator can compare trajectories. AngleRad is Angle in radians.
type Action struct {
	Kind     ActionKind
	ShipID   int
	PlanetID int
	Thrust   int
	Angle    int // degrees, 0–359
	AngleRad float64
	Start    orb.Point
	End      orb.Point
}

func NoopFor(shipID int) Action { return Action{Kind: Noop, ShipID: shipID} }

func DockAt(shipID, planetID int) Action {
	return Action{Kind: Dock, ShipID: shipID, PlanetID: planetID}
}

// ThrustFrom builds a thrust order and its predicted end point. The heading
// is rounded to whole degrees first, as the host will see it.
func ThrustFrom(shipID int, start orb.Point, thrust int, angleRad float64) Action {
	deg := DegreesClipped(angleRad)
	rad := RadiansClipped(deg)
	return Action{
		Kind:     Thrust,
		ShipID:   shipID,
		Thrust:   thrust,
		Angle:    deg,
		AngleRad: rad,
		Start:    start,
		End:      Project(start, thrust, rad),
	}
}

// Moving is true for thrust orders that actually change position.
func (a Action) Moving() bool { return a.Kind == Thrust && a.Thrust > 0 }

// WithThrust keeps the heading and recomputes the predicted end point.
func (a Action) WithThrust(thrust int) Action {
	if a.Kind != Thrust {
		return a
	}
	if thrust <= 0 {
		return NoopFor(a.ShipID)
	}
	return ThrustFrom(a.ShipID, a.Start, thrust, a.AngleRad)
}

// Encode renders the host's command text. Noop encodes to "".
func (a Action) Encode() string {
	switch a.Kind {
	case Thrust:
		return fmt.Sprintf("t %d %d %d", a.ShipID, a.Thrust, a.Angle)
	case Dock:
		return fmt.Sprintf("d %d %d", a.ShipID, a.PlanetID)
	case Undock:
		return fmt.Sprintf("u %d", a.ShipID)
	}
	return ""
}
