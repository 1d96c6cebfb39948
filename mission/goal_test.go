package mission

import (
	"testing"

	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/navigation"
	"github.com/nstehr/flotilla/rules"
)

const me, enemy = 0, 1

func ship(id, owner int, x, y float64) model.Ship {
	return model.Ship{ID: id, Owner: owner, X: x, Y: y, Radius: model.ShipRadius, Health: 255}
}

func testEnv(mine, theirs []model.Ship, planets []model.Planet) Env {
	gs := &model.GameState{
		Width: 120, Height: 120, MyPlayerID: me,
		Players: []model.Player{{ID: me, Ships: mine}, {ID: enemy, Ships: theirs}},
		Planets: planets,
	}
	ix := navigation.NewIndex(gs.Width, gs.Height)
	ix.Rebuild(gs.AllShips())
	return Env{State: gs, Index: ix, Planner: navigation.NewPlanner(), Doctrine: rules.DefaultDoctrine()}
}

// blockedPlanner never finds a path.
func blockedPlanner(env Env) Env {
	env.Planner = &navigation.Planner{MaxCorrections: 0, Step: navigation.AngularStep}
	return env
}

func TestVoidGoal(t *testing.T) {
	env := testEnv([]model.Ship{ship(1, me, 10, 10)}, nil, nil)
	g := Void()
	s := env.State.MyShips()[0]
	if g.CanContinue(env, s) {
		t.Error("void goal must never continue")
	}
	if a := g.Execute(env, s); a.Kind != model.Noop || a.ShipID != 1 {
		t.Errorf("void Execute = %+v, want noop for ship 1", a)
	}
}

func TestNilGoalIsVoid(t *testing.T) {
	var g *Goal
	env := testEnv([]model.Ship{ship(1, me, 10, 10)}, nil, nil)
	if g.CanContinue(env, env.State.MyShips()[0]) {
		t.Error("nil goal must not continue")
	}
	if a := g.Execute(env, env.State.MyShips()[0]); a.Kind != model.Noop {
		t.Errorf("nil goal Execute kind = %v, want noop", a.Kind)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{None: "none", Settle: "settle", Attack: "attack", Defend: "defend", Hunt: "hunt"}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestVoidTurnsResetOnProgress(t *testing.T) {
	planet := model.Planet{ID: 1, Owner: model.Unowned, X: 60, Y: 60, Radius: 4, DockingSpots: 3}
	s := ship(1, me, 10, 60)
	env := testEnv([]model.Ship{s}, nil, []model.Planet{planet})
	g := NewSettle(1, true)

	g.Execute(blockedPlanner(env), s)
	g.Execute(blockedPlanner(env), s)
	if g.VoidTurns() != 2 {
		t.Fatalf("VoidTurns() = %d, want 2", g.VoidTurns())
	}
	if a := g.Execute(env, s); a.Kind != model.Thrust {
		t.Fatalf("expected thrust on a clear map, got %v", a.Kind)
	}
	if g.VoidTurns() != 0 {
		t.Errorf("VoidTurns() = %d after progress, want 0", g.VoidTurns())
	}
}
