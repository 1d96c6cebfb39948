package mission

import (
	"testing"

	"github.com/nstehr/flotilla/model"
)

func TestHuntChasesTarget(t *testing.T) {
	s := ship(1, me, 20, 20)
	prey := ship(70, enemy, 30, 20)
	env := testEnv([]model.Ship{s}, []model.Ship{prey}, nil)

	g := NewHunt(enemy, 70)
	if !g.CanContinue(env, s) {
		t.Fatal("expected hunt to continue")
	}
	a := g.Execute(env, s)
	if a.Kind != model.Thrust || a.Angle != 0 {
		t.Errorf("Execute = %v at %d°, want thrust at 0°", a.Kind, a.Angle)
	}
	// closest point is 3.5 short of the prey's center
	if a.Thrust != 6 {
		t.Errorf("thrust = %d, want 6", a.Thrust)
	}
}

func TestHuntStopsWhenTargetGone(t *testing.T) {
	s := ship(1, me, 20, 20)
	env := testEnv([]model.Ship{s}, nil, nil)
	g := NewHunt(enemy, 70)
	if g.CanContinue(env, s) {
		t.Error("hunt must stop when the target vanished")
	}
	if a := g.Execute(env, s); a.Kind != model.Noop {
		t.Errorf("Execute = %v, want noop", a.Kind)
	}
}

func TestHuntStopsWhenTargetEscapes(t *testing.T) {
	s := ship(1, me, 5, 5)
	prey := ship(70, enemy, 110, 110)
	env := testEnv([]model.Ship{s}, []model.Ship{prey}, nil)
	if NewHunt(enemy, 70).CanContinue(env, s) {
		t.Error("hunt must stop beyond the chase radius")
	}
}
