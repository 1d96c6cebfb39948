package fleet

import "github.com/nstehr/flotilla/mission"

// Status is where a ship is in its lifecycle.
type Status int

const (
	New Status = iota
	Active
	Destroyed
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

// Registration is one owned ship's record.
type Registration struct {
	ShipID int
	Status Status
	Goal   *mission.Goal
}

// Registry keeps registrations in insertion order, which is also the order
// ships are processed each turn.
type Registry struct {
	entries []Registration
	index   map[int]int // ship id → position in entries
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[int]int)}
}

func (r *Registry) Len() int { return len(r.entries) }

// Add registers id as New. It reports false if id is already known.
func (r *Registry) Add(id int) bool {
	if _, ok := r.index[id]; ok {
		return false
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, Registration{ShipID: id, Status: New, Goal: mission.Void()})
	return true
}

// Get returns the registration for id, or nil. The pointer is valid until
// the next Add or Evict.
func (r *Registry) Get(id int) *Registration {
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return &r.entries[i]
}

// MarkDestroyed flags id without removing it. Unknown ids are ignored.
func (r *Registry) MarkDestroyed(id int) bool {
	reg := r.Get(id)
	if reg == nil || reg.Status == Destroyed {
		return false
	}
	reg.Status = Destroyed
	return true
}

// Reconcile matches the registry against the ids present this turn. Missing
// ships become Destroyed, and unseen ids are appended as New. Destroyed ships
// that show up again become Active with a void goal: their slots were already
// released, so they must be assigned afresh. It returns every Destroyed id in
// registry order.
func (r *Registry) Reconcile(present []int) []int {
	seen := make(map[int]bool, len(present))
	for _, id := range present {
		seen[id] = true
		if reg := r.Get(id); reg == nil {
			r.Add(id)
		} else if reg.Status == Destroyed {
			reg.Status = Active
			reg.Goal = mission.Void()
		}
	}

	var destroyed []int
	for i := range r.entries {
		reg := &r.entries[i]
		if !seen[reg.ShipID] {
			reg.Status = Destroyed
		}
		if reg.Status == Destroyed {
			destroyed = append(destroyed, reg.ShipID)
		}
	}
	return destroyed
}

// Evict removes ids and compacts the arena, keeping the order of the rest.
func (r *Registry) Evict(ids ...int) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.entries[:0]
	for _, reg := range r.entries {
		if !drop[reg.ShipID] {
			kept = append(kept, reg)
		}
	}
	r.entries = kept
	r.index = make(map[int]int, len(kept))
	for i, reg := range kept {
		r.index[reg.ShipID] = i
	}
}

// IDs lists registered ship ids in processing order.
func (r *Registry) IDs() []int {
	ids := make([]int, len(r.entries))
	for i, reg := range r.entries {
		ids[i] = reg.ShipID
	}
	return ids
}
