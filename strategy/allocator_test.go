package strategy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nstehr/flotilla/mission"
	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/rules"
)

const me, enemy = 0, 1

func ship(id, owner int, x, y float64) model.Ship {
	return model.Ship{ID: id, Owner: owner, X: x, Y: y, Radius: model.ShipRadius, Health: 255}
}

func state(mine, theirs []model.Ship, planets ...model.Planet) *model.GameState {
	return &model.GameState{
		Turn: 1, Width: 200, Height: 200, MyPlayerID: me,
		Players: []model.Player{{ID: me, Ships: mine}, {ID: enemy, Ships: theirs}},
		Planets: planets,
	}
}

func newAllocator(t *testing.T, seed uint64) *Allocator {
	t.Helper()
	engine, err := rules.NewEngine(rules.DefaultDoctrine(), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	a, err := NewAllocator(engine, DefaultCadence(), seed)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	return a
}

func TestNewAllocatorRequiresEngine(t *testing.T) {
	_, err := NewAllocator(nil, DefaultCadence(), 1)
	if !errors.Is(err, model.ErrMissingCollaborator) {
		t.Errorf("err = %v, want ErrMissingCollaborator", err)
	}
}

func TestEarlyShipsSettle(t *testing.T) {
	a := newAllocator(t, 1)
	gs := state(nil, nil,
		model.Planet{ID: 1, Owner: model.Unowned, X: 50, Y: 50, Radius: 5, DockingSpots: 3},
		model.Planet{ID: 2, Owner: model.Unowned, X: 150, Y: 150, Radius: 8, DockingSpots: 3},
	)
	g := a.Assign(gs, ship(1, me, 40, 40), true, nil)
	if g.Kind != mission.Settle || g.PlanetID != 1 || !g.MustComplete {
		t.Errorf("goal = %v planet %d urgent %v, want urgent settle on nearest planet 1", g.Kind, g.PlanetID, g.MustComplete)
	}
	if got := a.Created(); got != 1 {
		t.Errorf("Created() = %d, want 1", got)
	}
}

func TestSettleDeniedWithoutCapacity(t *testing.T) {
	a := newAllocator(t, 1)
	free := model.Planet{ID: 1, Owner: model.Unowned, X: 50, Y: 50, Radius: 5, DockingSpots: 1}
	gs := state(nil, nil, free)

	first := a.Assign(gs, ship(1, me, 40, 40), true, nil)
	if first.Kind != mission.Settle {
		t.Fatalf("first goal = %v, want settle", first.Kind)
	}
	second := a.Assign(gs, ship(2, me, 42, 40), true, nil)
	if second.Kind != mission.None {
		t.Errorf("second goal = %v planet %d, want void", second.Kind, second.PlanetID)
	}
	if got := a.Slots().PlanetOccupancy(1).Settle; got != 1 {
		t.Errorf("settle occupancy = %d, want 1", got)
	}

	// with a foreign planet on the map the denied ship attacks instead
	gs = state(nil, []model.Ship{ship(60, enemy, 150, 145)}, free,
		model.Planet{ID: 2, Owner: enemy, X: 150, Y: 150, Radius: 5, DockingSpots: 2, DockedShips: []int{60}})
	third := a.Assign(gs, ship(3, me, 44, 40), true, nil)
	if third.Kind != mission.Attack || third.PlanetID != 2 {
		t.Errorf("third goal = %v planet %d, want attack on 2", third.Kind, third.PlanetID)
	}
}

func TestDockedShipKeepsPlanet(t *testing.T) {
	a := newAllocator(t, 1)
	s := ship(7, me, 50, 45)
	s.DockingStatus = model.Docked
	s.DockedPlanet = 1
	gs := state([]model.Ship{s}, nil, model.Planet{ID: 1, Owner: me, X: 50, Y: 50, Radius: 4, DockingSpots: 1, DockedShips: []int{7}})

	g := a.Assign(gs, s, false, nil)
	if g.Kind != mission.Settle || g.PlanetID != 1 {
		t.Errorf("goal = %v planet %d, want settle on 1", g.Kind, g.PlanetID)
	}
	if got := a.slots.settlers(gs.Planets[0]); got != 1 {
		t.Errorf("settlers = %d, want docked ship counted once", got)
	}
}

func TestHuntPreemptsDraw(t *testing.T) {
	a := newAllocator(t, 1)
	raider := ship(50, enemy, 30, 30)
	gs := state(nil, []model.Ship{raider}, model.Planet{ID: 1, Owner: model.Unowned, X: 100, Y: 100, Radius: 5, DockingSpots: 3})

	prev := mission.NewSettle(1, false)
	prev.ThreatSpotted = true
	prev.Threats = []model.Ship{raider}

	for id := 1; id <= a.Doctrine().HuntCapacity; id++ {
		g := a.Assign(gs, ship(id, me, 25, 30), false, prev)
		if g.Kind != mission.Hunt || g.TargetShipID != 50 || g.TargetOwner != enemy {
			t.Fatalf("ship %d goal = %v target %d, want hunt on 50", id, g.Kind, g.TargetShipID)
		}
	}
	extra := a.Assign(gs, ship(99, me, 25, 30), false, prev)
	if extra.Kind == mission.Hunt {
		t.Error("hunt capacity exceeded")
	}
	if got := a.Slots().HuntOccupancy(50); got != a.Doctrine().HuntCapacity {
		t.Errorf("HuntOccupancy = %d, want %d", got, a.Doctrine().HuntCapacity)
	}

	// a dead threat is not hunted
	gone := state(nil, nil, gs.Planets...)
	if g := a.Assign(gone, ship(100, me, 25, 30), false, prev); g.Kind == mission.Hunt {
		t.Error("hunting a ship that no longer exists")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	a := newAllocator(t, 1)
	gs := state(nil, nil, model.Planet{ID: 1, Owner: model.Unowned, X: 50, Y: 50, Radius: 5, DockingSpots: 3})
	a.Assign(gs, ship(1, me, 40, 40), true, nil)
	if !a.Slots().Holds(1) {
		t.Fatal("expected ship 1 to hold a slot")
	}

	a.Release(1)
	once := a.Slots().Occupancy()
	a.Release(1)
	if diff := cmp.Diff(once, a.Slots().Occupancy()); diff != "" {
		t.Errorf("second release changed occupancy (-once +twice):\n%s", diff)
	}
	if a.Slots().Holds(1) {
		t.Error("ship 1 still holds a slot after release")
	}
}

func crowdedMap() (*model.GameState, []model.Ship) {
	var mine []model.Ship
	for id := 1; id <= 40; id++ {
		mine = append(mine, ship(id, me, float64(10+id*4), float64(20+(id%7)*20)))
	}
	mine = append(mine, withDock(ship(100, me, 60, 55), 1), withDock(ship(101, me, 60, 65), 1))
	theirs := []model.Ship{withDock(ship(200, enemy, 140, 135), 3), ship(201, enemy, 170, 40)}
	gs := state(mine, theirs,
		model.Planet{ID: 1, Owner: me, X: 60, Y: 60, Radius: 4, DockingSpots: 3, DockedShips: []int{100, 101}},
		model.Planet{ID: 2, Owner: model.Unowned, X: 100, Y: 100, Radius: 6, DockingSpots: 2},
		model.Planet{ID: 3, Owner: enemy, X: 140, Y: 140, Radius: 5, DockingSpots: 2, DockedShips: []int{200}},
		model.Planet{ID: 4, Owner: enemy, X: 170, Y: 30, Radius: 3, DockingSpots: 1},
	)
	return gs, mine[:40]
}

func withDock(s model.Ship, planet int) model.Ship {
	s.DockingStatus = model.Docked
	s.DockedPlanet = planet
	return s
}

// checkCapacity asserts the hard per-objective bounds: settlers within the
// docking spots, attackers within twice the spots, defenders within twice the
// docked ships, and hunters within HuntCapacity for every enemy ship.
func checkCapacity(t *testing.T, a *Allocator, gs *model.GameState) {
	t.Helper()
	d := a.Doctrine()
	for _, p := range gs.Planets {
		o := a.Slots().PlanetOccupancy(p.ID)
		if n := a.slots.settlers(p); o.Settle > 0 && n > p.DockingSpots {
			t.Errorf("planet %d: %d settlers for %d spots", p.ID, n, p.DockingSpots)
		}
		if limit := 2 * p.DockingSpots; o.Attack > limit {
			t.Errorf("planet %d: %d attackers, limit %d", p.ID, o.Attack, limit)
		}
		if limit := 2 * len(p.DockedShips); o.Defend > limit {
			t.Errorf("planet %d: %d defenders, limit %d", p.ID, o.Defend, limit)
		}
	}
	for _, pl := range gs.Players {
		if pl.ID == gs.MyPlayerID {
			continue
		}
		for _, s := range pl.Ships {
			if n := a.Slots().HuntOccupancy(s.ID); n > d.HuntCapacity {
				t.Errorf("enemy ship %d: %d hunters, limit %d", s.ID, n, d.HuntCapacity)
			}
		}
	}
}

func TestCapacityInvariant(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			a := newAllocator(t, seed)
			gs, fleet := crowdedMap()
			for _, s := range fleet {
				a.Assign(gs, s, false, nil)
			}
			checkCapacity(t, a, gs)

			// on a later turn every other ship reports the same raider
			gs.Turn = 2
			prev := mission.NewSettle(2, false)
			prev.ThreatSpotted = true
			prev.Threats = []model.Ship{gs.Players[1].Ships[1]}
			for i, s := range fleet {
				if i%2 == 0 {
					a.Release(s.ID)
					a.Assign(gs, s, false, prev)
				}
			}
			checkCapacity(t, a, gs)
			if got, want := a.Slots().HuntOccupancy(201), a.Doctrine().HuntCapacity; got != want {
				t.Errorf("hunters on 201 = %d, want %d", got, want)
			}
		})
	}
}

func TestRelaxedAttackStaysWithinTwiceDockingSpots(t *testing.T) {
	a := newAllocator(t, 1)
	gs := state(nil, []model.Ship{ship(60, enemy, 100, 95)},
		model.Planet{ID: 1, Owner: enemy, X: 100, Y: 100, Radius: 3, DockingSpots: 1, DockedShips: []int{60}})

	attackers := 0
	for id := 1; id <= 10; id++ {
		if g := a.Assign(gs, ship(id, me, 20, float64(10*id)), false, nil); g.Kind == mission.Attack {
			attackers++
		}
	}
	if got := a.Slots().PlanetOccupancy(1).Attack; got != 2 || attackers != 2 {
		t.Errorf("attack occupancy = %d (%d goals), want 2 for a 1-spot planet", got, attackers)
	}
	checkCapacity(t, a, gs)
}

func TestHuntCapacityWithOneThreatTooMany(t *testing.T) {
	a := newAllocator(t, 1)
	raider := ship(50, enemy, 30, 30)
	gs := state(nil, []model.Ship{raider})
	prev := mission.NewAttack(9, false)
	prev.ThreatSpotted = true
	prev.Threats = []model.Ship{raider}

	hunters := 0
	for id := 1; id <= a.Doctrine().HuntCapacity+1; id++ {
		if a.Assign(gs, ship(id, me, 25, float64(30+id)), false, prev).Kind == mission.Hunt {
			hunters++
		}
	}
	if hunters != a.Doctrine().HuntCapacity {
		t.Errorf("%d ships hunt the raider, want %d", hunters, a.Doctrine().HuntCapacity)
	}
	checkCapacity(t, a, gs)
}

func TestAssignIsReproducible(t *testing.T) {
	run := func() []string {
		a := newAllocator(t, 42)
		gs, fleet := crowdedMap()
		var out []string
		for _, s := range fleet {
			g := a.Assign(gs, s, false, nil)
			out = append(out, fmt.Sprintf("%d:%v:%d", s.ID, g.Kind, g.PlanetID))
		}
		return out
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("assignments differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestBand(t *testing.T) {
	a := newAllocator(t, 1)
	d := a.Doctrine()
	tests := []struct {
		r    float64
		want category
	}{
		{0, settleCategory},
		{d.SettleRatio, attackCategory},
		{d.AttackRatio, reserveCategory},
		{d.ReserveRatio, defendCategory},
		{0.999, defendCategory},
	}
	for _, tc := range tests {
		if got := a.band(tc.r); got != tc.want {
			t.Errorf("band(%v) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestPickPrefersLargestOfNearest(t *testing.T) {
	a := newAllocator(t, 1)
	s := ship(1, me, 10, 10)
	gs := state(nil, nil,
		model.Planet{ID: 1, Owner: model.Unowned, X: 20, Y: 10, Radius: 2, DockingSpots: 2},
		model.Planet{ID: 2, Owner: model.Unowned, X: 40, Y: 10, Radius: 7, DockingSpots: 2},
		model.Planet{ID: 3, Owner: model.Unowned, X: 60, Y: 10, Radius: 3, DockingSpots: 2},
		model.Planet{ID: 4, Owner: model.Unowned, X: 190, Y: 190, Radius: 12, DockingSpots: 2},
	)
	nearest := byDistance(gs, s)
	ok := func(p model.Planet) bool { return a.canSettle(gs, p) }

	if p := a.pick(s, nearest, 3, ok); p == nil || p.ID != 2 {
		t.Errorf("pick among 3 nearest = %v, want planet 2", p)
	}
	if p := a.pick(s, nearest, 1, ok); p == nil || p.ID != 1 {
		t.Errorf("pick nearest only = %v, want planet 1", p)
	}
}

func TestTieBreakByID(t *testing.T) {
	a := newAllocator(t, 1)
	s := ship(1, me, 50, 50)
	gs := state(nil, nil,
		model.Planet{ID: 8, Owner: model.Unowned, X: 60, Y: 50, Radius: 4, DockingSpots: 2},
		model.Planet{ID: 3, Owner: model.Unowned, X: 40, Y: 50, Radius: 4, DockingSpots: 2},
	)
	p := a.pick(s, byDistance(gs, s), 2, func(model.Planet) bool { return true })
	if p == nil || p.ID != 3 {
		t.Errorf("pick = %v, want lower id 3 on equal distance", p)
	}
}

func TestRefreshCadence(t *testing.T) {
	a := newAllocator(t, 1)
	gs := state([]model.Ship{ship(1, me, 10, 10)}, []model.Ship{ship(2, enemy, 90, 90)})
	tests := []struct {
		turn int
		want bool
	}{
		{0, false},
		{10, false},
		{20, true},
		{25, false},
		{30, true},
	}
	for _, tc := range tests {
		if got := a.Refresh(gs, tc.turn); got != tc.want {
			t.Errorf("Refresh(turn %d) = %v, want %v", tc.turn, got, tc.want)
		}
	}
}
