package schedule

import (
	"sort"
	"time"

	"confscheduler/internal/domain"
)

const dayKeyLayout = "2006-01-02"

// Grid is the discrete (venue x day x time) slot model for one event. It
// indexes occupancy by slot so lookups are O(1) after a single session scan.
// The grid is not safe for concurrent use; a Controller owns it.
type Grid struct {
	days      map[string]time.Time
	dayOrder  []time.Time
	venues    map[string]*domain.Venue
	slots     map[string]*domain.TimeSlot
	slotOrder []string
	sessions  map[string]*domain.Session
	occupancy map[string]string // slot id -> session id
}

// NewGrid builds a grid from the event's configured days, its venues and
// slots, and the current session list. Sessions referencing unknown slots are
// ignored for occupancy.
func NewGrid(event *domain.Event, venues []*domain.Venue, slots []*domain.TimeSlot, sessions []*domain.Session) *Grid {
	g := &Grid{
		days:      make(map[string]time.Time),
		venues:    make(map[string]*domain.Venue, len(venues)),
		slots:     make(map[string]*domain.TimeSlot, len(slots)),
		sessions:  make(map[string]*domain.Session, len(sessions)),
		occupancy: make(map[string]string),
	}
	for _, d := range event.Days() {
		g.days[d.Format(dayKeyLayout)] = d
		g.dayOrder = append(g.dayOrder, d)
	}
	for _, v := range venues {
		g.venues[v.ID] = v
	}
	for _, s := range slots {
		g.slots[s.ID] = s
		g.slotOrder = append(g.slotOrder, s.ID)
	}
	// Fixed candidate order: start time, then venue id, then slot id. The
	// assigner's determinism depends on this.
	sort.Slice(g.slotOrder, func(i, j int) bool {
		a, b := g.slots[g.slotOrder[i]], g.slots[g.slotOrder[j]]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		av, bv := venueKey(a), venueKey(b)
		if av != bv {
			return av < bv
		}
		return a.ID < b.ID
	})
	for _, sess := range sessions {
		g.sessions[sess.ID] = sess
		if sess.TimeSlotID != nil {
			if _, ok := g.slots[*sess.TimeSlotID]; ok {
				g.occupancy[*sess.TimeSlotID] = sess.ID
			}
		}
	}
	return g
}

func venueKey(s *domain.TimeSlot) string {
	if s.VenueID == nil {
		return ""
	}
	return *s.VenueID
}

// Slot returns the slot with the given id, or nil.
func (g *Grid) Slot(id string) *domain.TimeSlot { return g.slots[id] }

// Venue returns the venue with the given id, or nil.
func (g *Grid) Venue(id string) *domain.Venue { return g.venues[id] }

// Session returns the session with the given id, or nil.
func (g *Grid) Session(id string) *domain.Session { return g.sessions[id] }

// SlotIDs returns slot ids in the grid's fixed candidate order.
func (g *Grid) SlotIDs() []string { return g.slotOrder }

// Days returns the event days in order.
func (g *Grid) Days() []time.Time { return g.dayOrder }

// ContainsDay reports whether the given day falls within the event.
func (g *Grid) ContainsDay(day time.Time) bool {
	_, ok := g.days[domain.DayOf(day).Format(dayKeyLayout)]
	return ok
}

// Occupant returns the id of the session holding the slot, if any.
func (g *Grid) Occupant(slotID string) (string, bool) {
	id, ok := g.occupancy[slotID]
	return id, ok
}

// SetOccupant records a session as holding a slot.
func (g *Grid) SetOccupant(slotID, sessionID string) {
	g.occupancy[slotID] = sessionID
}

// ClearSlot removes any occupant from a slot.
func (g *Grid) ClearSlot(slotID string) {
	delete(g.occupancy, slotID)
}

// SlotsForVenueAndDay returns the venue's slots on the given day, ordered by
// start time.
func (g *Grid) SlotsForVenueAndDay(venueID string, day time.Time) []*domain.TimeSlot {
	day = domain.DayOf(day)
	var out []*domain.TimeSlot
	for _, id := range g.slotOrder {
		s := g.slots[id]
		if s.VenueID == nil || *s.VenueID != venueID {
			continue
		}
		if !s.Day().Equal(day) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// TimeRowsForDay returns the day's distinct time windows across all venues,
// deduplicated by (start, end) and sorted by start time.
func (g *Grid) TimeRowsForDay(day time.Time) []domain.TimeRow {
	day = domain.DayOf(day)
	seen := make(map[string]struct{})
	var rows []domain.TimeRow
	for _, id := range g.slotOrder {
		s := g.slots[id]
		if !s.Day().Equal(day) {
			continue
		}
		key := s.StartTime.UTC().Format(time.RFC3339) + "/" + s.EndTime.UTC().Format(time.RFC3339)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, domain.TimeRow{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].StartTime.Equal(rows[j].StartTime) {
			return rows[i].StartTime.Before(rows[j].StartTime)
		}
		return rows[i].EndTime.Before(rows[j].EndTime)
	})
	return rows
}

// HardValid reports whether the slot may hold the given session at all: not a
// break, bound to a venue, on an event day, and not occupied by a different
// session. Soft constraints never reject; this check is the only gate.
func (g *Grid) HardValid(slot *domain.TimeSlot, sessionID string) bool {
	if slot == nil || slot.IsBreak || slot.VenueID == nil {
		return false
	}
	if !g.ContainsDay(slot.Day()) {
		return false
	}
	if occ, ok := g.Occupant(slot.ID); ok && occ != sessionID {
		return false
	}
	return true
}
