package fleet

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nstehr/flotilla/mission"
)

func TestRegistryAddIsIdempotent(t *testing.T) {
	r := NewRegistry()
	if !r.Add(4) {
		t.Fatal("first Add returned false")
	}
	if r.Add(4) {
		t.Error("second Add returned true")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if reg := r.Get(4); reg.Status != New || reg.Goal == nil {
		t.Errorf("registration = %+v, want New with a void goal", reg)
	}
}

func TestRegistryReconcile(t *testing.T) {
	r := NewRegistry()
	r.Reconcile([]int{3, 1, 2})
	if diff := cmp.Diff([]int{3, 1, 2}, r.IDs()); diff != "" {
		t.Errorf("insertion order (-want +got):\n%s", diff)
	}

	destroyed := r.Reconcile([]int{2, 3, 7})
	if diff := cmp.Diff([]int{1}, destroyed); diff != "" {
		t.Errorf("destroyed (-want +got):\n%s", diff)
	}
	if r.Get(1).Status != Destroyed {
		t.Errorf("ship 1 status = %v, want destroyed", r.Get(1).Status)
	}
	if diff := cmp.Diff([]int{3, 1, 2, 7}, r.IDs()); diff != "" {
		t.Errorf("ids after reconcile (-want +got):\n%s", diff)
	}
}

func TestRegistryReappearingShipIsActive(t *testing.T) {
	r := NewRegistry()
	r.Reconcile([]int{1})
	r.Get(1).Goal = mission.NewSettle(3, false)
	r.MarkDestroyed(1)
	if destroyed := r.Reconcile([]int{1}); len(destroyed) != 0 {
		t.Errorf("destroyed = %v, want none", destroyed)
	}
	if got := r.Get(1).Status; got != Active {
		t.Errorf("status = %v, want active", got)
	}
	if got := r.Get(1).Goal.Kind; got != mission.None {
		t.Errorf("goal = %v, want void after reappearing", got)
	}
}

func TestRegistryEvictKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Reconcile([]int{5, 6, 7, 8})
	r.Evict(6, 8, 42)
	if diff := cmp.Diff([]int{5, 7}, r.IDs()); diff != "" {
		t.Errorf("ids after evict (-want +got):\n%s", diff)
	}
	if reg := r.Get(7); reg == nil || reg.ShipID != 7 {
		t.Errorf("Get(7) = %+v after compaction", reg)
	}
	if r.Get(6) != nil {
		t.Error("evicted ship still reachable")
	}
}

func TestMarkDestroyedUnknown(t *testing.T) {
	r := NewRegistry()
	if r.MarkDestroyed(9) {
		t.Error("MarkDestroyed on unknown id returned true")
	}
}
