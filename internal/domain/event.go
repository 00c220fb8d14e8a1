package domain

import (
	"context"
	"time"
)

// Event represents a conference event. StartsOn and EndsOn bound the days a
// session may be scheduled into; both are date-only values (midnight UTC).
type Event struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	OwnerID              string     `json:"owner_id"`
	StartsOn             time.Time  `json:"starts_on"`
	EndsOn               time.Time  `json:"ends_on"`
	SchedulePublishedAt  *time.Time `json:"schedule_published_at"`
	LastScheduleChangeAt *time.Time `json:"last_schedule_change_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Days returns every calendar day of the event, inclusive, normalized to
// midnight UTC. Returns nil if the range is inverted.
func (e *Event) Days() []time.Time {
	start := DayOf(e.StartsOn)
	end := DayOf(e.EndsOn)
	if end.Before(start) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayOf normalizes a timestamp to its calendar day at midnight UTC.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	// TouchScheduleChange stamps last_schedule_change_at with the given time.
	TouchScheduleChange(ctx context.Context, eventID string, at time.Time) error
	// MarkSchedulePublished stamps schedule_published_at and returns the
	// updated event.
	MarkSchedulePublished(ctx context.Context, eventID string, at time.Time) (*Event, error)
}
