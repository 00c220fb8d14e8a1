package domain

import (
	"context"
	"time"
)

// Venue represents a physical room or stage at the event. Capacity is an
// attendee ceiling; nil means unknown or unbounded. IsPrimary marks the
// main-stage venue.
type Venue struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Capacity  *int      `json:"capacity"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VenueRepository defines the interface for venue storage.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*Venue, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Venue, error)
}
