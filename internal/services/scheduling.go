package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"confscheduler/internal/domain"
	"confscheduler/internal/schedule"
)

type schedulingService struct {
	eventRepo      domain.EventRepository
	venueRepo      domain.VenueRepository
	slotRepo       domain.TimeSlotRepository
	sessionRepo    domain.SessionRepository
	notifier       domain.HostNotifier
	logger         *slog.Logger
	contextTimeout time.Duration

	// Controllers hold per-admin working state (undo log, pending conflict)
	// and are keyed by event and caller. A bulk write through another path
	// invalidates them.
	mu          sync.Mutex
	controllers map[string]*schedule.Controller
}

// NewSchedulingService creates a SchedulingService over the given
// repositories. notifier may be nil to disable host notifications.
func NewSchedulingService(eventRepo domain.EventRepository, venueRepo domain.VenueRepository, slotRepo domain.TimeSlotRepository, sessionRepo domain.SessionRepository, notifier domain.HostNotifier, logger *slog.Logger, timeout time.Duration) domain.SchedulingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &schedulingService{
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		slotRepo:       slotRepo,
		sessionRepo:    sessionRepo,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
		controllers:    make(map[string]*schedule.Controller),
	}
}

// sessionStore adapts SessionRepository to the schedule.Store interface.
type sessionStore struct {
	repo domain.SessionRepository
}

func (s sessionStore) UpdateSchedule(ctx context.Context, sessionID string, status domain.SessionStatus, venueID, timeSlotID *string) error {
	_, err := s.repo.UpdateSchedule(ctx, sessionID, status, venueID, timeSlotID)
	return err
}

func (s sessionStore) UnscheduleMany(ctx context.Context, sessionIDs []string) (int, error) {
	return s.repo.UnscheduleMany(ctx, sessionIDs)
}

// getOwnedEvent loads the event and gates it on the caller owning it.
func (s *schedulingService) getOwnedEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *schedulingService) loadGrid(ctx context.Context, event *domain.Event) (*schedule.Grid, []*domain.Session, error) {
	venues, err := s.venueRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list venues: %w", err)
	}
	slots, err := s.slotRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list time slots: %w", err)
	}
	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	return schedule.NewGrid(event, venues, slots, sessions), sessions, nil
}

func controllerKey(eventID, callerID string) string {
	return eventID + "|" + callerID
}

// controllerFor returns the caller's working controller for the event,
// building one from current stored state on first use.
func (s *schedulingService) controllerFor(ctx context.Context, event *domain.Event, callerID string) (*schedule.Controller, error) {
	key := controllerKey(event.ID, callerID)

	s.mu.Lock()
	ctrl, ok := s.controllers[key]
	s.mu.Unlock()
	if ok {
		return ctrl, nil
	}

	grid, _, err := s.loadGrid(ctx, event)
	if err != nil {
		return nil, err
	}
	ctrl = schedule.NewController(grid, sessionStore{repo: s.sessionRepo}, s.notifier, s.logger)

	s.mu.Lock()
	if existing, ok := s.controllers[key]; ok {
		ctrl = existing
	} else {
		s.controllers[key] = ctrl
	}
	s.mu.Unlock()
	return ctrl, nil
}

// invalidateEvent drops every cached controller for the event. Their undo
// logs are client-local state; a bulk write makes them meaningless.
func (s *schedulingService) invalidateEvent(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.controllers {
		if len(key) > len(eventID) && key[:len(eventID)] == eventID && key[len(eventID)] == '|' {
			delete(s.controllers, key)
		}
	}
}

func (s *schedulingService) touchEvent(ctx context.Context, eventID string) {
	if err := s.eventRepo.TouchScheduleChange(ctx, eventID, time.Now()); err != nil {
		s.logger.Error("failed to stamp schedule change", "event_id", eventID, "err", err)
	}
}

func (s *schedulingService) GetScheduleData(ctx context.Context, eventID, callerID string) (*domain.ScheduleData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	venues, err := s.venueRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	if venues == nil {
		venues = []*domain.Venue{}
	}
	slots, err := s.slotRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	if slots == nil {
		slots = []*domain.TimeSlot{}
	}
	sessions, err := s.sessionRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	grid := schedule.NewGrid(event, venues, slots, sessions)
	timeRows := make(map[string][]domain.TimeRow, len(grid.Days()))
	for _, day := range grid.Days() {
		timeRows[day.Format("2006-01-02")] = grid.TimeRowsForDay(day)
	}
	return &domain.ScheduleData{
		Event:    event,
		Venues:   venues,
		Slots:    slots,
		Sessions: sessions,
		TimeRows: timeRows,
	}, nil
}

func (s *schedulingService) PreviewAutoSchedule(ctx context.Context, eventID, callerID string) (*domain.ScheduleProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	grid, sessions, err := s.loadGrid(ctx, event)
	if err != nil {
		return nil, err
	}
	return schedule.Propose(schedule.NewPool(sessions), grid), nil
}

func (s *schedulingService) ApplyAutoSchedule(ctx context.Context, eventID, callerID string, assignments []domain.Assignment) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return 0, err
	}
	grid, _, err := s.loadGrid(ctx, event)
	if err != nil {
		return 0, err
	}

	// Revalidate every assignment against current stored state; stale ones
	// are skipped rather than failing the batch.
	applied := 0
	for _, a := range assignments {
		sess := grid.Session(a.SessionID)
		slot := grid.Slot(a.SlotID)
		if sess == nil || sess.EventID != eventID {
			continue
		}
		if sess.TimeSlotID != nil {
			continue
		}
		// Same eligibility as the proposal pool: scheduled with no slot
		// occurs transiently while a replace is in flight.
		if sess.Status != domain.StatusApproved && sess.Status != domain.StatusScheduled {
			continue
		}
		if !grid.HardValid(slot, sess.ID) {
			s.logger.Warn("skipping stale assignment", "session_id", a.SessionID, "slot_id", a.SlotID)
			continue
		}
		venueID := *slot.VenueID
		updated, err := s.sessionRepo.UpdateSchedule(ctx, sess.ID, domain.StatusScheduled, &venueID, &slot.ID)
		if err != nil {
			return applied, fmt.Errorf("apply assignment: %w", err)
		}
		grid.SetOccupant(slot.ID, sess.ID)
		sess.Status = domain.StatusScheduled
		sess.VenueID = &venueID
		sess.TimeSlotID = &slot.ID
		applied++
		s.notifyScheduled(updated, grid.Venue(venueID), slot)
	}

	if applied > 0 {
		s.invalidateEvent(eventID)
		s.touchEvent(ctx, eventID)
	}
	return applied, nil
}

func (s *schedulingService) MoveSession(ctx context.Context, eventID, sessionID, slotID, callerID string, replace bool) (*domain.MoveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	ctrl, err := s.controllerFor(ctx, event, callerID)
	if err != nil {
		return nil, err
	}

	res, err := ctrl.Move(ctx, sessionID, slotID)
	if err != nil {
		return nil, err
	}
	if res.Outcome == domain.MoveConflict && replace {
		res, err = ctrl.ResolveConflict(ctx, true)
		if err != nil {
			return nil, err
		}
	}
	if res.Outcome == domain.MoveCommitted {
		s.touchEvent(ctx, eventID)
	}
	return res, nil
}

func (s *schedulingService) CancelMove(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return err
	}
	ctrl, err := s.controllerFor(ctx, event, callerID)
	if err != nil {
		return err
	}
	ctrl.CancelMove()
	return nil
}

func (s *schedulingService) UnscheduleSession(ctx context.Context, eventID, sessionID, callerID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	ctrl, err := s.controllerFor(ctx, event, callerID)
	if err != nil {
		return nil, err
	}
	sess, err := ctrl.Unschedule(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.touchEvent(ctx, eventID)
	return sess, nil
}

func (s *schedulingService) Undo(ctx context.Context, eventID, callerID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	ctrl, err := s.controllerFor(ctx, event, callerID)
	if err != nil {
		return nil, err
	}
	sess, err := ctrl.Undo(ctx)
	if err != nil {
		return nil, err
	}
	s.touchEvent(ctx, eventID)
	return sess, nil
}

func (s *schedulingService) Redo(ctx context.Context, eventID, callerID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	ctrl, err := s.controllerFor(ctx, event, callerID)
	if err != nil {
		return nil, err
	}
	sess, err := ctrl.Redo(ctx)
	if err != nil {
		return nil, err
	}
	s.touchEvent(ctx, eventID)
	return sess, nil
}

func (s *schedulingService) ResetDay(ctx context.Context, eventID string, day time.Time, callerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return 0, err
	}
	day = domain.DayOf(day)
	if !containsDay(event, day) {
		return 0, domain.ErrInvalidInput
	}
	ctrl, err := s.controllerFor(ctx, event, callerID)
	if err != nil {
		return 0, err
	}
	n, err := ctrl.ResetDay(ctx, day)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.touchEvent(ctx, eventID)
	}
	return n, nil
}

func (s *schedulingService) GetPublishStatus(ctx context.Context, eventID, callerID string) (*domain.PublishStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.sessionRepo.CountScheduledByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count scheduled sessions: %w", err)
	}
	return domain.NewPublishStatus(event.SchedulePublishedAt, event.LastScheduleChangeAt, scheduled), nil
}

// emptySchedulePublishWarning flags a publish that made no session visible.
const emptySchedulePublishWarning = "Published an empty schedule: no sessions are scheduled"

func (s *schedulingService) Publish(ctx context.Context, eventID, callerID string) (*domain.PublishResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.getOwnedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.sessionRepo.CountScheduledByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count scheduled sessions: %w", err)
	}

	updated, err := s.eventRepo.MarkSchedulePublished(ctx, eventID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("publish schedule: %w", err)
	}

	res := &domain.PublishResult{
		Status: domain.NewPublishStatus(updated.SchedulePublishedAt, updated.LastScheduleChangeAt, scheduled),
	}
	if scheduled == 0 {
		res.Warning = emptySchedulePublishWarning
	}
	s.logger.Info("schedule published", "event_id", eventID, "scheduled_sessions", scheduled)
	return res, nil
}

func (s *schedulingService) notifyScheduled(sess *domain.Session, venue *domain.Venue, slot *domain.TimeSlot) {
	if s.notifier == nil || sess == nil {
		return
	}
	copied := *sess
	go func() {
		if err := s.notifier.NotifyScheduled(context.Background(), &copied, venue, slot); err != nil {
			s.logger.Error("host notification failed", "session_id", copied.ID, "err", err)
		}
	}()
}

func containsDay(event *domain.Event, day time.Time) bool {
	for _, d := range event.Days() {
		if d.Equal(day) {
			return true
		}
	}
	return false
}
