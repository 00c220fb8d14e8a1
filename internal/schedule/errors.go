package schedule

import "errors"

// Scheduling errors. Validation errors are rejected before any persistence
// call; an occupied slot is not an error but a conflict the caller resolves.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSlotNotFound      = errors.New("time slot not found")
	ErrSessionNotMovable = errors.New("session is not approved for scheduling")
	ErrSessionUnplaced   = errors.New("session is not scheduled")
	ErrBreakSlot         = errors.New("cannot schedule into a break slot")
	ErrSlotUnbound       = errors.New("time slot has no venue")
	ErrOutsideEventDays  = errors.New("slot day is outside the event")
	ErrNoPendingConflict = errors.New("no conflict awaiting resolution")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
)
