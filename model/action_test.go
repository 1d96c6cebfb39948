package model

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestActionEncode(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{NoopFor(4), ""},
		{DockAt(4, 9), "d 4 9"},
		{Action{Kind: Undock, ShipID: 4}, "u 4"},
		{ThrustFrom(4, orb.Point{0, 0}, 7, RadiansClipped(90)), "t 4 7 90"},
	}
	for _, tc := range tests {
		if got := tc.a.Encode(); got != tc.want {
			t.Errorf("Encode(%v) = %q, want %q", tc.a.Kind, got, tc.want)
		}
	}
}

func TestWithThrustRecomputesEnd(t *testing.T) {
	a := ThrustFrom(1, orb.Point{10, 10}, 7, 0)
	slower := a.WithThrust(3)
	if slower.End != (orb.Point{13, 10}) {
		t.Errorf("End after downgrade = %v, want [13 10]", slower.End)
	}
	if slower.Angle != a.Angle {
		t.Errorf("heading changed: %d -> %d", a.Angle, slower.Angle)
	}
	if stopped := a.WithThrust(0); stopped.Kind != Noop {
		t.Errorf("WithThrust(0) kind = %v, want noop", stopped.Kind)
	}
}

func TestThrustFromProjectsRoundedHeading(t *testing.T) {
	start := orb.Point{50, 50}
	a := ThrustFrom(1, start, 7, 0.3) // about 17.19 degrees
	if a.Angle != 17 {
		t.Fatalf("Angle = %d, want 17", a.Angle)
	}
	want := Project(start, 7, RadiansClipped(17))
	if d := Distance(a.End, want); d > 1e-9 {
		t.Errorf("End = %v, want %v (projected from the encoded heading)", a.End, want)
	}
	if d := Distance(a.End, Project(start, 7, 0.3)); d < 0.01 {
		t.Errorf("End %v matches the unrounded heading", a.End)
	}
}
