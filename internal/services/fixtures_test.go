package services

import (
	"context"
	"fmt"
	"time"

	"confscheduler/internal/domain"
)

// 2026-09-05 is a Saturday, 2026-09-06 a Sunday.
var (
	saturday = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
)

func intPtr(i int) *int { return &i }

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID    map[string]*domain.Event
	touched []time.Time
	err     error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) TouchScheduleChange(ctx context.Context, eventID string, at time.Time) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.LastScheduleChangeAt = &at
	f.touched = append(f.touched, at)
	return nil
}

func (f *fakeEventRepo) MarkSchedulePublished(ctx context.Context, eventID string, at time.Time) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.SchedulePublishedAt = &at
	return e, nil
}

// fakeVenueRepo is an in-memory VenueRepository for tests.
type fakeVenueRepo struct {
	venues []*domain.Venue
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	for _, v := range f.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeVenueRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Venue, error) {
	var out []*domain.Venue
	for _, v := range f.venues {
		if v.EventID == eventID {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeSlotRepo is an in-memory TimeSlotRepository for tests.
type fakeSlotRepo struct {
	slots []*domain.TimeSlot
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSlotRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
	var out []*domain.TimeSlot
	for _, s := range f.slots {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeSessionRepo is an in-memory SessionRepository for tests. Updates mutate
// copies so stored state and in-memory grid state stay distinguishable.
type fakeSessionRepo struct {
	byID      map[string]*domain.Session
	updateErr error
	updates   int
}

func newFakeSessionRepo(sessions ...*domain.Session) *fakeSessionRepo {
	f := &fakeSessionRepo{byID: make(map[string]*domain.Session)}
	for _, s := range sessions {
		copied := *s
		f.byID[s.ID] = &copied
	}
	return f
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range f.byID {
		if s.EventID == eventID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) UpdateSchedule(ctx context.Context, sessionID string, status domain.SessionStatus, venueID, timeSlotID *string) (*domain.Session, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	s, ok := f.byID[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Status = status
	s.VenueID = venueID
	s.TimeSlotID = timeSlotID
	f.updates++
	return s, nil
}

func (f *fakeSessionRepo) UnscheduleMany(ctx context.Context, sessionIDs []string) (int, error) {
	n := 0
	for _, id := range sessionIDs {
		s, ok := f.byID[id]
		if !ok || s.TimeSlotID == nil {
			continue
		}
		s.Status = domain.StatusApproved
		s.VenueID = nil
		s.TimeSlotID = nil
		n++
	}
	return n, nil
}

func (f *fakeSessionRepo) CountScheduledByEventID(ctx context.Context, eventID string) (int, error) {
	n := 0
	for _, s := range f.byID {
		if s.EventID == eventID && s.Status == domain.StatusScheduled {
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) MarkHostNotified(ctx context.Context, sessionID string, at time.Time) error {
	s, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.HostNotifiedAt = &at
	return nil
}

// fakeMailer records sent messages.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// fakeIssuer signs predictable tokens.
type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

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

func testSlot(id, venueID string, day time.Time, hour, durationMin int, isBreak bool) *domain.TimeSlot {
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
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
