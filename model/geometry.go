package model

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Host simulation constants.
const (
	MaxSpeed                 = 7
	ShipRadius               = 0.5
	DockRadius               = 4.0
	ForecastFudge            = ShipRadius + 0.1
	ClosestPointStandoff     = 3.0
	MaxNavigationCorrections = 90
)

// Entity is anything with a circular footprint on the map.
type Entity interface {
	Pos() orb.Point
	EntityRadius() float64
}

func Distance(a, b orb.Point) float64 { return planar.Distance(a, b) }

// Bearing is the angle from a to b in radians.
func Bearing(a, b orb.Point) float64 {
	return math.Atan2(b[1]-a[1], b[0]-a[0])
}

// ClosestPoint is where a ship at from should aim to stop just short of target.
func ClosestPoint(from orb.Point, target Entity) orb.Point {
	c := target.Pos()
	r := target.EntityRadius() + ClosestPointStandoff
	angle := Bearing(c, from)
	return orb.Point{c[0] + r*math.Cos(angle), c[1] + r*math.Sin(angle)}
}

// CanDock is the host's docking range rule.
func CanDock(s Ship, p Planet) bool {
	return Distance(s.Pos(), p.Pos()) <= s.Radius+DockRadius+p.Radius
}

// Project moves start by thrust units along angleRad.
func Project(start orb.Point, thrust int, angleRad float64) orb.Point {
	return orb.Point{
		start[0] + float64(thrust)*math.Cos(angleRad),
		start[1] + float64(thrust)*math.Sin(angleRad),
	}
}

// DegreesClipped converts radians to whole degrees in [0, 360).
func DegreesClipped(rad float64) int {
	deg := int(math.Round(rad * 180 / math.Pi))
	return ((deg % 360) + 360) % 360
}

// RadiansClipped is the inverse of DegreesClipped for whole-degree headings.
func RadiansClipped(deg int) float64 {
	deg = ((deg % 360) + 360) % 360
	return float64(deg) * math.Pi / 180
}
