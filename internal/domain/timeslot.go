package domain

import (
	"context"
	"math"
	"time"
)

// SlotType classifies a time slot.
type SlotType string

const (
	SlotTypeSession      SlotType = "session"
	SlotTypeUnconference SlotType = "unconference"
	SlotTypeTrack        SlotType = "track"
	SlotTypeBreak        SlotType = "break"
	SlotTypeCheckin      SlotType = "checkin"
)

// TimeSlot is one cell of the (venue x day x time) grid. VenueID is nil for
// a slot not yet bound to a venue. A break slot never holds a session.
type TimeSlot struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	VenueID   *string   `json:"venue_id"`
	DayDate   time.Time `json:"day_date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsBreak   bool      `json:"is_break"`
	SlotType  SlotType  `json:"slot_type"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DurationMinutes returns the slot length in whole minutes, rounded.
// Callers guarantee EndTime is after StartTime.
func (t *TimeSlot) DurationMinutes() int {
	return int(math.Round(t.EndTime.Sub(t.StartTime).Minutes()))
}

// Day returns the slot's calendar day at midnight UTC.
func (t *TimeSlot) Day() time.Time {
	return DayOf(t.DayDate)
}

// TimeSlotRepository defines the interface for time slot storage.
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id string) (*TimeSlot, error)
	ListByEventID(ctx context.Context, eventID string) ([]*TimeSlot, error)
}
