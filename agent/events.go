package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/flotilla/model"
)

// EventKind identifies a significant change between two consecutive turns.
type EventKind string

const (
	EventPlanetCaptured     EventKind = "planet_captured"
	EventPlanetLost         EventKind = "planet_lost"
	EventFleetDevastated    EventKind = "fleet_devastated"
	EventFirstContact       EventKind = "first_contact"
	EventPhaseTransition    EventKind = "phase_transition"
	EventOpponentEliminated EventKind = "opponent_eliminated"
)

// urgentEvents force a doctrine re-evaluation outside the refresh cadence.
var urgentEvents = map[EventKind]bool{
	EventPlanetLost:         true,
	EventFleetDevastated:    true,
	EventOpponentEliminated: true,
}

// Event is one detected change.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

// devastationShare is the fraction of the fleet that must vanish within
// devastationWindow turns to count as devastated.
const (
	devastationShare  = 0.3
	devastationWindow = 5
	minFleetForLosses = 5
)

// contactRange is how close (in map units) an enemy ship must come to one of
// our planets or ships before first contact is reported.
const contactRange = 30.0

// snapshot captures the diffable parts of one turn.
type snapshot struct {
	turn      int
	planets   map[int]bool // planet id → owned by us
	ships     map[int]bool
	opponents map[int]bool // players that still have ships or planets
	phase     string
	contact   bool

	// loss window start and the largest fleet seen in it
	windowStart int
	windowShips int
}

// gamePhase buckets the match by how much of the map is claimed.
func gamePhase(gs *model.GameState) string {
	if len(gs.Planets) == 0 {
		return "early"
	}
	owned := 0
	for _, p := range gs.Planets {
		if p.Owned() {
			owned++
		}
	}
	switch share := float64(owned) / float64(len(gs.Planets)); {
	case share < 0.4:
		return "early"
	case share < 0.9:
		return "mid"
	}
	return "late"
}

func takeSnapshot(gs *model.GameState, prev *snapshot) snapshot {
	s := snapshot{
		turn:      gs.Turn,
		planets:   make(map[int]bool),
		ships:     make(map[int]bool),
		opponents: make(map[int]bool),
		phase:     gamePhase(gs),
	}
	for _, p := range gs.Planets {
		s.planets[p.ID] = p.Owner == gs.MyPlayerID
		if p.Owned() && p.Owner != gs.MyPlayerID {
			s.opponents[p.Owner] = true
		}
	}
	for _, sh := range gs.MyShips() {
		s.ships[sh.ID] = true
	}
	for _, pl := range gs.Players {
		if pl.ID != gs.MyPlayerID && len(pl.Ships) > 0 {
			s.opponents[pl.ID] = true
		}
	}
	s.contact = enemyInRange(gs)

	s.windowStart, s.windowShips = gs.Turn, len(s.ships)
	if prev != nil {
		s.contact = s.contact || prev.contact
		if gs.Turn-prev.windowStart < devastationWindow {
			s.windowStart, s.windowShips = prev.windowStart, max(prev.windowShips, len(s.ships))
		}
	}
	return s
}

func enemyInRange(gs *model.GameState) bool {
	var ours []model.Entity
	for _, p := range gs.Planets {
		if p.Owner == gs.MyPlayerID {
			ours = append(ours, p)
		}
	}
	for _, s := range gs.MyShips() {
		ours = append(ours, s)
	}
	for _, pl := range gs.Players {
		if pl.ID == gs.MyPlayerID {
			continue
		}
		for _, e := range pl.Ships {
			for _, o := range ours {
				if model.Distance(e.Pos(), o.Pos()) <= contactRange+o.EntityRadius() {
					return true
				}
			}
		}
	}
	return false
}

// detectEvents diffs the current turn against prev. The first turn produces
// no events.
func detectEvents(gs *model.GameState, prev *snapshot, cur snapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event
	add := func(kind EventKind, format string, args ...any) {
		events = append(events, Event{Kind: kind, Turn: gs.Turn, Detail: fmt.Sprintf(format, args...)})
	}

	var captured, lost []int
	for id, mine := range cur.planets {
		was := prev.planets[id]
		switch {
		case mine && !was:
			captured = append(captured, id)
		case !mine && was:
			lost = append(lost, id)
		}
	}
	for id, was := range prev.planets {
		if _, ok := cur.planets[id]; !ok && was {
			lost = append(lost, id)
		}
	}
	sort.Ints(captured)
	sort.Ints(lost)
	if len(captured) > 0 {
		add(EventPlanetCaptured, "captured planets %v", captured)
	}
	if len(lost) > 0 {
		add(EventPlanetLost, "lost planets %v", lost)
	}

	if cur.windowShips >= minFleetForLosses {
		missing := cur.windowShips - len(cur.ships)
		// only report once per window
		prevMissing := prev.windowShips - len(prev.ships)
		threshold := int(devastationShare * float64(cur.windowShips))
		if missing > threshold && prevMissing <= threshold && cur.windowStart == prev.windowStart {
			add(EventFleetDevastated, "lost %d of %d ships since turn %d", missing, cur.windowShips, cur.windowStart)
		}
	}

	if cur.contact && !prev.contact {
		add(EventFirstContact, "enemy ships within %.0f units", contactRange)
	}
	if cur.phase != prev.phase {
		add(EventPhaseTransition, "%s -> %s", prev.phase, cur.phase)
	}

	var gone []int
	for id := range prev.opponents {
		if !cur.opponents[id] {
			gone = append(gone, id)
		}
	}
	sort.Ints(gone)
	for _, id := range gone {
		add(EventOpponentEliminated, "player %d has no ships or planets left", id)
	}
	return events
}

func hasUrgent(events []Event) bool {
	for _, e := range events {
		if urgentEvents[e.Kind] {
			return true
		}
	}
	return false
}

func formatEvents(events []Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = fmt.Sprintf("[%s] %s", e.Kind, e.Detail)
	}
	return strings.Join(parts, "; ")
}
