package schedule

import "github.com/google/uuid"

// ActionType classifies a history entry.
type ActionType string

const (
	ActionSchedule   ActionType = "schedule"
	ActionUnschedule ActionType = "unschedule"
)

// Position is a (venue, slot) location. Both ids are nil for "unscheduled".
type Position struct {
	VenueID *string `json:"venue_id"`
	SlotID  *string `json:"slot_id"`
}

// IsPlaced reports whether the position names a slot.
func (p Position) IsPlaced() bool { return p.SlotID != nil }

// Action is one atomic, invertible schedule move. DisplacedID names a session
// that a replace commit pushed out of the target slot; undoing the action
// restores it there, so a replace stays a single history entry.
type Action struct {
	ID          string     `json:"id"`
	Type        ActionType `json:"type"`
	SessionID   string     `json:"session_id"`
	From        Position   `json:"from"`
	To          Position   `json:"to"`
	DisplacedID string     `json:"displaced_id,omitempty"`
}

// History is a linear undo/redo log with standard editor semantics: pushing a
// new action truncates any entries past the cursor.
type History struct {
	actions []Action
	cursor  int
}

// NewHistory returns an empty log.
func NewHistory() *History {
	return &History{}
}

// Push appends an action at the cursor, discarding the redo branch.
func (h *History) Push(a Action) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	h.actions = append(h.actions[:h.cursor], a)
	h.cursor = len(h.actions)
}

// CanUndo reports whether an action precedes the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether an undone action follows the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.actions) }

// PeekUndo returns the action that an undo would revert.
func (h *History) PeekUndo() (Action, bool) {
	if !h.CanUndo() {
		return Action{}, false
	}
	return h.actions[h.cursor-1], true
}

// PeekRedo returns the action that a redo would re-apply.
func (h *History) PeekRedo() (Action, bool) {
	if !h.CanRedo() {
		return Action{}, false
	}
	return h.actions[h.cursor], true
}

// CommitUndo moves the cursor back after a successful undo.
func (h *History) CommitUndo() {
	if h.cursor > 0 {
		h.cursor--
	}
}

// CommitRedo moves the cursor forward after a successful redo.
func (h *History) CommitRedo() {
	if h.cursor < len(h.actions) {
		h.cursor++
	}
}

// Clear empties the log. Bulk operations are not individually undoable.
func (h *History) Clear() {
	h.actions = h.actions[:0]
	h.cursor = 0
}

// Len returns the number of recorded actions, undone ones included.
func (h *History) Len() int { return len(h.actions) }
