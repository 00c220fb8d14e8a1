package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"confscheduler/internal/domain"
)

// Store persists schedule changes. The controller applies every change to its
// in-memory state first and reverts the exact prior field values when the
// store call fails.
type Store interface {
	UpdateSchedule(ctx context.Context, sessionID string, status domain.SessionStatus, venueID, timeSlotID *string) error
	UnscheduleMany(ctx context.Context, sessionIDs []string) (int, error)
}

// Controller drives manual scheduling for one admin working on one event: the
// drag/drop gesture, occupancy conflicts, a linear undo/redo log, and the
// reset-day bulk operation. It is scoped to a single scheduling session and
// holds client-local state only; it is not a durable audit log and is not
// synchronized across admins. Not safe for concurrent use.
type Controller struct {
	grid     *Grid
	store    Store
	notifier domain.HostNotifier
	logger   *slog.Logger
	history  *History

	pending *pendingConflict
}

type pendingConflict struct {
	sessionID  string
	slotID     string
	occupantID string
	score      int
	warnings   []string
}

// NewController builds a controller over the given grid. Store must be
// non-nil; notifier may be nil to disable host notifications.
func NewController(grid *Grid, store Store, notifier domain.HostNotifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		grid:     grid,
		store:    store,
		notifier: notifier,
		logger:   logger,
		history:  NewHistory(),
	}
}

// Grid returns the controller's slot model.
func (c *Controller) Grid() *Grid { return c.grid }

// CanUndo reports whether an undoable action exists.
func (c *Controller) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether a redoable action exists.
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// HasPendingConflict reports whether a move awaits replace-or-cancel.
func (c *Controller) HasPendingConflict() bool { return c.pending != nil }

// CancelMove discards any pending conflict without mutating anything.
func (c *Controller) CancelMove() { c.pending = nil }

// Move runs one drag gesture: validate the target, check occupancy, and
// either commit, report a conflict, or no-op when the session is dropped onto
// its own slot. Starting a new gesture discards a previously pending
// conflict. Soft-constraint warnings are returned in every outcome and never
// block the commit.
func (c *Controller) Move(ctx context.Context, sessionID, slotID string) (*domain.MoveResult, error) {
	c.pending = nil

	sess := c.grid.Session(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Status != domain.StatusApproved && sess.Status != domain.StatusScheduled {
		return nil, ErrSessionNotMovable
	}
	slot := c.grid.Slot(slotID)
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.IsBreak {
		return nil, ErrBreakSlot
	}
	if slot.VenueID == nil {
		return nil, ErrSlotUnbound
	}
	if !c.grid.ContainsDay(slot.Day()) {
		return nil, ErrOutsideEventDays
	}

	venue := c.grid.Venue(*slot.VenueID)
	score, warnings := Score(sess, slot, venue, c.grid)
	if warnings == nil {
		warnings = []string{}
	}

	if occID, occupied := c.grid.Occupant(slotID); occupied {
		if occID == sessionID {
			return &domain.MoveResult{Outcome: domain.MoveNoop, Session: sess, Score: score, Warnings: warnings}, nil
		}
		c.pending = &pendingConflict{
			sessionID:  sessionID,
			slotID:     slotID,
			occupantID: occID,
			score:      score,
			warnings:   warnings,
		}
		return &domain.MoveResult{
			Outcome:  domain.MoveConflict,
			Session:  sess,
			Occupant: c.grid.Session(occID),
			Score:    score,
			Warnings: warnings,
		}, nil
	}

	return c.commit(ctx, sess, slot, "", score, warnings)
}

// ResolveConflict settles a pending conflict. Replace unschedules the
// occupying session back to approved and commits the dragged session into the
// slot as one history entry; cancel mutates nothing.
func (c *Controller) ResolveConflict(ctx context.Context, replace bool) (*domain.MoveResult, error) {
	if c.pending == nil {
		return nil, ErrNoPendingConflict
	}
	p := c.pending
	c.pending = nil

	sess := c.grid.Session(p.sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if !replace {
		return &domain.MoveResult{Outcome: domain.MoveCancelled, Session: sess, Score: p.score, Warnings: p.warnings}, nil
	}

	slot := c.grid.Slot(p.slotID)
	occ := c.grid.Session(p.occupantID)
	if slot == nil || occ == nil {
		return nil, ErrSlotNotFound
	}

	occPrev := snap(occ)
	if err := c.persistMove(ctx, occ, domain.StatusApproved, Position{}); err != nil {
		return nil, fmt.Errorf("failed to unschedule occupying session: %w", err)
	}

	res, err := c.commit(ctx, sess, slot, occ.ID, p.score, p.warnings)
	if err != nil {
		// Put the displaced session back so the in-memory state matches the
		// last known-good state exactly.
		if restoreErr := c.persistMove(ctx, occ, domain.StatusScheduled, occPrev.position()); restoreErr != nil {
			occPrev.restore(occ)
			if occPrev.timeSlotID != nil {
				c.grid.SetOccupant(*occPrev.timeSlotID, occ.ID)
			}
			c.logger.Error("failed to restore displaced session", "session_id", occ.ID, "err", restoreErr)
		}
		return nil, err
	}
	return res, nil
}

// Unschedule removes a session from its slot, reverting it to approved.
func (c *Controller) Unschedule(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess := c.grid.Session(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.TimeSlotID == nil {
		return nil, ErrSessionUnplaced
	}

	from := snap(sess).position()
	if err := c.persistMove(ctx, sess, domain.StatusApproved, Position{}); err != nil {
		return nil, fmt.Errorf("failed to unschedule: %w", err)
	}
	c.history.Push(Action{Type: ActionUnschedule, SessionID: sess.ID, From: from, To: Position{}})
	return sess, nil
}

// Undo replays the newest applied action backward, restoring the affected
// session (and any displaced session) to its exact prior position.
func (c *Controller) Undo(ctx context.Context) (*domain.Session, error) {
	a, ok := c.history.PeekUndo()
	if !ok {
		return nil, ErrNothingToUndo
	}
	sess := c.grid.Session(a.SessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if err := c.persistMove(ctx, sess, statusFor(a.From), a.From); err != nil {
		return nil, fmt.Errorf("failed to undo: %w", err)
	}
	if a.DisplacedID != "" {
		if disp := c.grid.Session(a.DisplacedID); disp != nil {
			if err := c.persistMove(ctx, disp, domain.StatusScheduled, a.To); err != nil {
				c.logger.Error("failed to restore displaced session on undo", "session_id", disp.ID, "err", err)
			}
		}
	}
	c.history.CommitUndo()
	return sess, nil
}

// Redo re-applies the action just past the cursor forward.
func (c *Controller) Redo(ctx context.Context) (*domain.Session, error) {
	a, ok := c.history.PeekRedo()
	if !ok {
		return nil, ErrNothingToRedo
	}
	sess := c.grid.Session(a.SessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if a.DisplacedID != "" {
		if disp := c.grid.Session(a.DisplacedID); disp != nil && disp.TimeSlotID != nil {
			if err := c.persistMove(ctx, disp, domain.StatusApproved, Position{}); err != nil {
				return nil, fmt.Errorf("failed to redo: %w", err)
			}
		}
	}
	if err := c.persistMove(ctx, sess, statusFor(a.To), a.To); err != nil {
		return nil, fmt.Errorf("failed to redo: %w", err)
	}
	c.history.CommitRedo()
	return sess, nil
}

// ResetDay unschedules every session occupying a slot on the given day and
// clears the history: a bulk operation invalidates the incremental log's
// premise. Persistence is a single batch statement issued before the
// in-memory update, so a failure leaves the working state untouched.
func (c *Controller) ResetDay(ctx context.Context, day time.Time) (int, error) {
	day = domain.DayOf(day)
	var ids []string
	for slotID, sessID := range c.grid.occupancy {
		if slot := c.grid.Slot(slotID); slot != nil && slot.Day().Equal(day) {
			ids = append(ids, sessID)
		}
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		c.history.Clear()
		return 0, nil
	}

	n, err := c.store.UnscheduleMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to reset day: %w", err)
	}
	for _, id := range ids {
		sess := c.grid.Session(id)
		if sess == nil {
			continue
		}
		if sess.TimeSlotID != nil {
			c.grid.ClearSlot(*sess.TimeSlotID)
		}
		sess.Status = domain.StatusApproved
		sess.VenueID = nil
		sess.TimeSlotID = nil
	}
	c.history.Clear()
	return n, nil
}

// commit persists the dragged session into the slot and records one history
// entry. displacedID carries the session a replace pushed out, so undo can
// reverse the whole visible effect atomically.
func (c *Controller) commit(ctx context.Context, sess *domain.Session, slot *domain.TimeSlot, displacedID string, score int, warnings []string) (*domain.MoveResult, error) {
	from := snap(sess).position()
	venueID := *slot.VenueID
	slotID := slot.ID
	to := Position{VenueID: &venueID, SlotID: &slotID}

	if err := c.persistMove(ctx, sess, domain.StatusScheduled, to); err != nil {
		return nil, fmt.Errorf("failed to schedule: %w", err)
	}
	c.history.Push(Action{
		Type:        ActionSchedule,
		SessionID:   sess.ID,
		From:        from,
		To:          to,
		DisplacedID: displacedID,
	})
	c.notifyScheduled(sess, slot)
	return &domain.MoveResult{Outcome: domain.MoveCommitted, Session: sess, Score: score, Warnings: warnings}, nil
}

// persistMove applies one position change optimistically and reverts the
// exact prior field values if the store rejects it.
func (c *Controller) persistMove(ctx context.Context, sess *domain.Session, status domain.SessionStatus, to Position) error {
	prev := snap(sess)

	sess.Status = status
	sess.VenueID = to.VenueID
	sess.TimeSlotID = to.SlotID
	if prev.timeSlotID != nil {
		c.grid.ClearSlot(*prev.timeSlotID)
	}
	if to.SlotID != nil {
		c.grid.SetOccupant(*to.SlotID, sess.ID)
	}

	if err := c.store.UpdateSchedule(ctx, sess.ID, status, to.VenueID, to.SlotID); err != nil {
		if to.SlotID != nil {
			c.grid.ClearSlot(*to.SlotID)
		}
		prev.restore(sess)
		if prev.timeSlotID != nil {
			c.grid.SetOccupant(*prev.timeSlotID, sess.ID)
		}
		return err
	}
	return nil
}

// notifyScheduled fires the host notification without awaiting it. Failures
// are logged and swallowed; they never roll back or block the commit.
func (c *Controller) notifyScheduled(sess *domain.Session, slot *domain.TimeSlot) {
	if c.notifier == nil {
		return
	}
	var venue *domain.Venue
	if sess.VenueID != nil {
		venue = c.grid.Venue(*sess.VenueID)
	}
	copied := *sess
	go func() {
		if err := c.notifier.NotifyScheduled(context.Background(), &copied, venue, slot); err != nil {
			c.logger.Error("host notification failed", "session_id", copied.ID, "err", err)
		}
	}()
}

func statusFor(p Position) domain.SessionStatus {
	if p.IsPlaced() {
		return domain.StatusScheduled
	}
	return domain.StatusApproved
}

type sessionSnapshot struct {
	status     domain.SessionStatus
	venueID    *string
	timeSlotID *string
}

func snap(s *domain.Session) sessionSnapshot {
	return sessionSnapshot{status: s.Status, venueID: s.VenueID, timeSlotID: s.TimeSlotID}
}

func (sn sessionSnapshot) restore(s *domain.Session) {
	s.Status = sn.status
	s.VenueID = sn.venueID
	s.TimeSlotID = sn.timeSlotID
}

func (sn sessionSnapshot) position() Position {
	return Position{VenueID: sn.venueID, SlotID: sn.timeSlotID}
}
