package strategy

import "github.com/nstehr/flotilla/model"

type idSet map[int]struct{}

func (s idSet) add(id int)    { s[id] = struct{}{} }
func (s idSet) remove(id int) { delete(s, id) }

func (s idSet) has(id int) bool {
	_, ok := s[id]
	return ok
}

// PlanetSlots holds the ships heading to one planet, per goal category.
type PlanetSlots struct {
	Settle idSet
	Attack idSet
	Defend idSet
}

func newPlanetSlots() *PlanetSlots {
	return &PlanetSlots{Settle: idSet{}, Attack: idSet{}, Defend: idSet{}}
}

// Occupancy is a count of reserved slots per category.
type Occupancy struct {
	Settle int
	Attack int
	Defend int
	Hunt   int
}

// Slots is the match-long reservation table. A ship id sits in at most one
// set at a time; Release clears it from all of them.
type Slots struct {
	planets map[int]*PlanetSlots
	hunts   map[int]idSet // enemy ship id → hunters
}

func NewSlots() *Slots {
	return &Slots{planets: make(map[int]*PlanetSlots), hunts: make(map[int]idSet)}
}

func (s *Slots) planet(id int) *PlanetSlots {
	ps, ok := s.planets[id]
	if !ok {
		ps = newPlanetSlots()
		s.planets[id] = ps
	}
	return ps
}

func (s *Slots) hunters(target int) idSet {
	h, ok := s.hunts[target]
	if !ok {
		h = idSet{}
		s.hunts[target] = h
	}
	return h
}

// Release removes shipID from every set. Calling it twice is harmless.
func (s *Slots) Release(shipID int) {
	for _, ps := range s.planets {
		ps.Settle.remove(shipID)
		ps.Attack.remove(shipID)
		ps.Defend.remove(shipID)
	}
	for target, h := range s.hunts {
		h.remove(shipID)
		if len(h) == 0 {
			delete(s.hunts, target)
		}
	}
}

// Holds reports whether shipID occupies any slot.
func (s *Slots) Holds(shipID int) bool {
	for _, ps := range s.planets {
		if ps.Settle.has(shipID) || ps.Attack.has(shipID) || ps.Defend.has(shipID) {
			return true
		}
	}
	for _, h := range s.hunts {
		if h.has(shipID) {
			return true
		}
	}
	return false
}

// Occupancy totals every planet's sets and every hunt.
func (s *Slots) Occupancy() Occupancy {
	var o Occupancy
	for _, ps := range s.planets {
		o.Settle += len(ps.Settle)
		o.Attack += len(ps.Attack)
		o.Defend += len(ps.Defend)
	}
	for _, h := range s.hunts {
		o.Hunt += len(h)
	}
	return o
}

// PlanetOccupancy reports the sets of one planet.
func (s *Slots) PlanetOccupancy(planetID int) Occupancy {
	ps, ok := s.planets[planetID]
	if !ok {
		return Occupancy{}
	}
	return Occupancy{Settle: len(ps.Settle), Attack: len(ps.Attack), Defend: len(ps.Defend)}
}

// HuntOccupancy reports how many ships hunt target.
func (s *Slots) HuntOccupancy(target int) int { return len(s.hunts[target]) }

// settlers counts ships heading to or docked on p, each once.
func (s *Slots) settlers(p model.Planet) int {
	n := len(s.planet(p.ID).Settle)
	for _, id := range p.DockedShips {
		if !s.planet(p.ID).Settle.has(id) {
			n++
		}
	}
	return n
}
