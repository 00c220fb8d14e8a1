package domain

import (
	"context"
	"time"
)

// SessionStatus is the lifecycle state of a proposed session.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusApproved  SessionStatus = "approved"
	StatusRejected  SessionStatus = "rejected"
	StatusScheduled SessionStatus = "scheduled"
)

// Session represents a proposed conference session or talk. TotalVotes is the
// quadratic-voting total and doubles as the expected-attendance proxy.
// TimePreferences holds coarse day/half-day tags such as "saturday_am".
//
// Invariant: VenueID and TimeSlotID are either both nil or both set, and
// Status is StatusScheduled exactly when both are set.
type Session struct {
	ID              string        `json:"id"`
	EventID         string        `json:"event_id"`
	Title           string        `json:"title"`
	Format          string        `json:"format"`
	DurationMinutes int           `json:"duration_minutes"`
	HostName        string        `json:"host_name"`
	HostEmail       string        `json:"host_email"`
	TrackID         *string       `json:"track_id"`
	TotalVotes      int           `json:"total_votes"`
	TimePreferences []string      `json:"time_preferences"`
	Status          SessionStatus `json:"status"`
	VenueID         *string       `json:"venue_id"`
	TimeSlotID      *string       `json:"time_slot_id"`
	HostNotifiedAt  *time.Time    `json:"host_notified_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsScheduled reports whether the session currently occupies a slot.
func (s *Session) IsScheduled() bool {
	return s.Status == StatusScheduled && s.VenueID != nil && s.TimeSlotID != nil
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Session, error)
	// UpdateSchedule patches status, venue_id and time_slot_id in one
	// statement and returns the updated session.
	UpdateSchedule(ctx context.Context, sessionID string, status SessionStatus, venueID, timeSlotID *string) (*Session, error)
	// UnscheduleMany reverts every listed session to approved with no venue
	// or slot, returning how many rows changed.
	UnscheduleMany(ctx context.Context, sessionIDs []string) (int, error)
	CountScheduledByEventID(ctx context.Context, eventID string) (int, error)
	MarkHostNotified(ctx context.Context, sessionID string, at time.Time) error
}
