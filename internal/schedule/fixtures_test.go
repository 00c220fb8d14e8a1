package schedule

import (
	"context"
	"time"

	"confscheduler/internal/domain"
)

// 2026-09-05 is a Saturday, 2026-09-06 a Sunday.
var (
	saturday = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testEvent() *domain.Event {
	return &domain.Event{
		ID:       "ev-1",
		Name:     "GopherUnconf",
		OwnerID:  "user-1",
		StartsOn: saturday,
		EndsOn:   sunday,
	}
}

func testVenue(id, name string, capacity *int) *domain.Venue {
	return &domain.Venue{ID: id, EventID: "ev-1", Name: name, Capacity: capacity}
}

func testSlot(id, venueID string, day time.Time, hour, minute, durationMin int, isBreak bool) *domain.TimeSlot {
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	slotType := domain.SlotTypeSession
	if isBreak {
		slotType = domain.SlotTypeBreak
	}
	var vid *string
	if venueID != "" {
		vid = &venueID
	}
	return &domain.TimeSlot{
		ID:        id,
		EventID:   "ev-1",
		VenueID:   vid,
		DayDate:   day,
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationMin) * time.Minute),
		IsBreak:   isBreak,
		SlotType:  slotType,
	}
}

func testSession(id string, votes, durationMin int) *domain.Session {
	return &domain.Session{
		ID:              id,
		EventID:         "ev-1",
		Title:           "Talk " + id,
		Format:          "talk",
		DurationMinutes: durationMin,
		HostName:        "Host " + id,
		HostEmail:       id + "@example.com",
		TotalVotes:      votes,
		Status:          domain.StatusApproved,
	}
}

func scheduledAt(s *domain.Session, venueID, slotID string) *domain.Session {
	s.Status = domain.StatusScheduled
	s.VenueID = &venueID
	s.TimeSlotID = &slotID
	return s
}

// fakeStore is an in-memory Store recording calls, with injectable errors.
type fakeStore struct {
	updates        []updateCall
	unscheduled    [][]string
	updateErr      error
	unscheduleErr  error
	unscheduledRet int
}

type updateCall struct {
	sessionID string
	status    domain.SessionStatus
	venueID   *string
	slotID    *string
}

func (f *fakeStore) UpdateSchedule(ctx context.Context, sessionID string, status domain.SessionStatus, venueID, timeSlotID *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, updateCall{sessionID: sessionID, status: status, venueID: venueID, slotID: timeSlotID})
	return nil
}

func (f *fakeStore) UnscheduleMany(ctx context.Context, sessionIDs []string) (int, error) {
	if f.unscheduleErr != nil {
		return 0, f.unscheduleErr
	}
	f.unscheduled = append(f.unscheduled, sessionIDs)
	if f.unscheduledRet > 0 {
		return f.unscheduledRet, nil
	}
	return len(sessionIDs), nil
}

// fakeNotifier records notified session ids on a channel so tests can wait
// for the detached notification goroutine.
type fakeNotifier struct {
	notified chan string
	err      error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notified: make(chan string, 16)}
}

func (f *fakeNotifier) NotifyScheduled(ctx context.Context, session *domain.Session, venue *domain.Venue, slot *domain.TimeSlot) error {
	f.notified <- session.ID
	return f.err
}
