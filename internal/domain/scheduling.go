package domain

import (
	"context"
	"time"
)

// Assignment is one proposed session-to-slot pairing produced by the
// auto-scheduler. Higher score means a better fit; Warnings list the soft
// constraints the pairing violates.
type Assignment struct {
	SessionID string   `json:"session_id"`
	SlotID    string   `json:"slot_id"`
	VenueID   string   `json:"venue_id"`
	Score     int      `json:"score"`
	Warnings  []string `json:"warnings"`
}

// UnassignedSession names a session the auto-scheduler could not place and
// why.
type UnassignedSession struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// ProposalStats aggregates an auto-schedule run.
type ProposalStats struct {
	Considered   int     `json:"considered"`
	Assigned     int     `json:"assigned"`
	Unassigned   int     `json:"unassigned"`
	AverageScore float64 `json:"average_score"`
}

// ScheduleProposal is the result of an auto-schedule preview. Proposing never
// mutates stored data; only an explicit apply commits assignments.
type ScheduleProposal struct {
	Assignments []Assignment        `json:"assignments"`
	Unassigned  []UnassignedSession `json:"unassigned"`
	Stats       ProposalStats       `json:"stats"`
}

// MoveOutcome is the result state of a manual move gesture.
type MoveOutcome string

const (
	// MoveCommitted means the session was scheduled into the target slot.
	MoveCommitted MoveOutcome = "committed"
	// MoveConflict means the slot is held by another session and the move
	// awaits an explicit replace-or-cancel resolution.
	MoveConflict MoveOutcome = "conflict"
	// MoveNoop means the session was dropped onto its own slot.
	MoveNoop MoveOutcome = "noop"
	// MoveCancelled means a pending conflict was resolved by cancelling.
	MoveCancelled MoveOutcome = "cancelled"
)

// MoveResult reports a manual move. Warnings are advisory soft-constraint
// violations; they never block a commit. On conflict, Occupant identifies the
// session currently holding the slot.
type MoveResult struct {
	Outcome  MoveOutcome `json:"outcome"`
	Session  *Session    `json:"session"`
	Occupant *Session    `json:"occupant,omitempty"`
	Score    int         `json:"score"`
	Warnings []string    `json:"warnings"`
}

// PublishStatus describes the working schedule relative to the last published
// snapshot.
type PublishStatus struct {
	SchedulePublishedAt   *time.Time `json:"schedule_published_at"`
	LastScheduleChangeAt  *time.Time `json:"last_schedule_change_at"`
	ScheduledSessionCount int        `json:"scheduled_session_count"`
	HasUnpublishedChanges bool       `json:"has_unpublished_changes"`
}

// NewPublishStatus derives the unpublished-changes flag: true when a change
// exists and either nothing was ever published or the change is newer.
func NewPublishStatus(publishedAt, changedAt *time.Time, scheduled int) *PublishStatus {
	p := &PublishStatus{
		SchedulePublishedAt:   publishedAt,
		LastScheduleChangeAt:  changedAt,
		ScheduledSessionCount: scheduled,
	}
	if changedAt != nil {
		p.HasUnpublishedChanges = publishedAt == nil || changedAt.After(*publishedAt)
	}
	return p
}

// TimeRow is one distinct (start, end) window of a day, deduplicated across
// venues so the board renders a single row per time window.
type TimeRow struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ScheduleData is everything the scheduling board needs for one event.
// TimeRows is keyed by day in YYYY-MM-DD form.
type ScheduleData struct {
	Event    *Event               `json:"event"`
	Venues   []*Venue             `json:"venues"`
	Slots    []*TimeSlot          `json:"slots"`
	Sessions []*Session           `json:"sessions"`
	TimeRows map[string][]TimeRow `json:"time_rows"`
}

// PublishResult is the outcome of a publish call. Warning is non-empty when
// the publish succeeded but deserves attention, e.g. an empty schedule.
type PublishResult struct {
	Status  *PublishStatus `json:"status"`
	Warning string         `json:"warning,omitempty"`
}

// SchedulingService defines the business logic of the scheduling board. All
// operations are gated on the caller owning the event.
type SchedulingService interface {
	GetScheduleData(ctx context.Context, eventID, callerID string) (*ScheduleData, error)
	PreviewAutoSchedule(ctx context.Context, eventID, callerID string) (*ScheduleProposal, error)
	// ApplyAutoSchedule commits assignments from a preceding preview,
	// returning the count actually applied. Assignments that are no longer
	// valid are skipped, never partially written.
	ApplyAutoSchedule(ctx context.Context, eventID, callerID string, assignments []Assignment) (int, error)
	// MoveSession runs one drag gesture. With replace false an occupied
	// target yields MoveConflict and nothing is mutated; with replace true a
	// pending conflict is resolved by displacing the occupant.
	MoveSession(ctx context.Context, eventID, sessionID, slotID, callerID string, replace bool) (*MoveResult, error)
	CancelMove(ctx context.Context, eventID, callerID string) error
	UnscheduleSession(ctx context.Context, eventID, sessionID, callerID string) (*Session, error)
	Undo(ctx context.Context, eventID, callerID string) (*Session, error)
	Redo(ctx context.Context, eventID, callerID string) (*Session, error)
	ResetDay(ctx context.Context, eventID string, day time.Time, callerID string) (int, error)
	GetPublishStatus(ctx context.Context, eventID, callerID string) (*PublishStatus, error)
	Publish(ctx context.Context, eventID, callerID string) (*PublishResult, error)
}
