package model

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// SegmentCircleIntersect reports whether the segment start→end passes within
// radius+fudge of center. Circles entirely behind start never count, so a
// mover touching something at its origin can still travel away from it.
func SegmentCircleIntersect(start, end, center orb.Point, radius, fudge float64) bool {
	dx := end[0] - start[0]
	dy := end[1] - start[1]
	a := dx*dx + dy*dy
	if a == 0 {
		return planar.Distance(start, center) <= radius+fudge
	}

	// closest approach parameter along the segment, capped at the end point
	t := ((center[0]-start[0])*dx + (center[1]-start[1])*dy) / a
	if t < 0 {
		return false
	}
	t = math.Min(t, 1)

	closest := orb.Point{start[0] + dx*t, start[1] + dy*t}
	return planar.Distance(closest, center) <= radius+fudge
}

// SegmentsIntersect reports whether two segments share a point. tol only
// widens the degenerate cases: parallel segments closer than tol count as
// one line and meet when their extents overlap, and a zero-length segment
// meets the other when it lies within tol of it.
func SegmentsIntersect(a1, a2, b1, b2 orb.Point, tol float64) bool {
	da := orb.Point{a2[0] - a1[0], a2[1] - a1[1]}
	db := orb.Point{b2[0] - b1[0], b2[1] - b1[1]}
	la, lb := math.Hypot(da[0], da[1]), math.Hypot(db[0], db[1])
	switch {
	case la == 0 && lb == 0:
		return planar.Distance(a1, b1) < tol
	case la == 0:
		return planar.DistanceFromSegment(b1, b2, a1) < tol
	case lb == 0:
		return planar.DistanceFromSegment(a1, a2, b1) < tol
	}

	denom := cross(da, db)
	if math.Abs(denom) <= parallelEpsilon*la*lb {
		if math.Abs(orient(a1, a2, b1))/la >= tol {
			return false
		}
		// overlap of b's extent projected onto a, in units of a's length
		t0 := dot(orb.Point{b1[0] - a1[0], b1[1] - a1[1]}, da) / (la * la)
		t1 := dot(orb.Point{b2[0] - a1[0], b2[1] - a1[1]}, da) / (la * la)
		return math.Max(t0, t1) >= 0 && math.Min(t0, t1) <= 1
	}

	ab := orb.Point{b1[0] - a1[0], b1[1] - a1[1]}
	t := cross(ab, db) / denom
	u := cross(ab, da) / denom
	return inUnit(t) && inUnit(u)
}

// parallelEpsilon is the sine of the angle below which two headings are
// treated as parallel.
const parallelEpsilon = 1e-9

func inUnit(v float64) bool { return v >= -1e-9 && v <= 1+1e-9 }

func cross(p, q orb.Point) float64 { return p[0]*q[1] - p[1]*q[0] }
func dot(p, q orb.Point) float64   { return p[0]*q[0] + p[1]*q[1] }

func orient(p, q, r orb.Point) float64 {
	return (q[0]-p[0])*(r[1]-p[1]) - (q[1]-p[1])*(r[0]-p[0])
}

// ObstaclesBetween lists every planet and ship whose footprint meets the
// segment from the mover to target. The mover itself and skip (the entity
// being approached, if any) are ignored.
func ObstaclesBetween(gs *GameState, mover Ship, target orb.Point, skip Entity) []Entity {
	var out []Entity
	start := mover.Pos()
	for i := range gs.Planets {
		p := gs.Planets[i]
		if skip != nil && sameEntity(p, skip) {
			continue
		}
		if SegmentCircleIntersect(start, target, p.Pos(), p.Radius, ForecastFudge) {
			out = append(out, p)
		}
	}
	for i := range gs.Players {
		for _, s := range gs.Players[i].Ships {
			if s.ID == mover.ID {
				continue
			}
			if skip != nil && sameEntity(s, skip) {
				continue
			}
			if SegmentCircleIntersect(start, target, s.Pos(), s.Radius, ForecastFudge) {
				out = append(out, s)
			}
		}
	}
	return out
}

func sameEntity(a, b Entity) bool {
	switch x := a.(type) {
	case Planet:
		if y, ok := b.(Planet); ok {
			return x.ID == y.ID
		}
		if y, ok := b.(*Planet); ok {
			return x.ID == y.ID
		}
	case Ship:
		if y, ok := b.(Ship); ok {
			return x.ID == y.ID
		}
		if y, ok := b.(*Ship); ok {
			return x.ID == y.ID
		}
	}
	return false
}
