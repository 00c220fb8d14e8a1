package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confscheduler/internal/domain"
)

type schedulingFixture struct {
	svc      domain.SchedulingService
	events   *fakeEventRepo
	sessions *fakeSessionRepo
}

func newSchedulingFixture(t *testing.T, sessions ...*domain.Session) *schedulingFixture {
	t.Helper()
	events := newFakeEventRepo(testEvent())
	venues := &fakeVenueRepo{venues: []*domain.Venue{
		testVenue("v1", "Main Stage", intPtr(100)),
		testVenue("v2", "Workshop", nil),
	}}
	slots := &fakeSlotRepo{slots: []*domain.TimeSlot{
		testSlot("s1", "v1", saturday, 10, 60, false),
		testSlot("s2", "v1", saturday, 11, 60, false),
		testSlot("s3", "v2", saturday, 10, 60, false),
		testSlot("sun1", "v1", sunday, 10, 60, false),
	}}
	sessionRepo := newFakeSessionRepo(sessions...)
	svc := NewSchedulingService(events, venues, slots, sessionRepo, nil, nil, 2*time.Second)
	return &schedulingFixture{svc: svc, events: events, sessions: sessionRepo}
}

func TestGetScheduleDataOwnerGate(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	_, err := fx.svc.GetScheduleData(context.Background(), "ev-1", "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.svc.GetScheduleData(context.Background(), "ghost", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	data, err := fx.svc.GetScheduleData(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", data.Event.ID)
	assert.Len(t, data.Venues, 2)
	assert.Len(t, data.Slots, 4)
	assert.Len(t, data.Sessions, 1)
}

func TestGetScheduleDataTimeRows(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	data, err := fx.svc.GetScheduleData(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.Len(t, data.TimeRows, 2)

	// s1 and s3 share the 10:00 window across venues: one row, not two.
	satRows := data.TimeRows[saturday.Format("2006-01-02")]
	require.Len(t, satRows, 2)
	assert.Equal(t, 10, satRows[0].StartTime.Hour())
	assert.Equal(t, 11, satRows[1].StartTime.Hour())

	sunRows := data.TimeRows[sunday.Format("2006-01-02")]
	require.Len(t, sunRows, 1)
	assert.Equal(t, 10, sunRows[0].StartTime.Hour())
}

func TestPreviewDoesNotMutate(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 30, 60), testSession("b", 10, 60))

	proposal, err := fx.svc.PreviewAutoSchedule(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.Len(t, proposal.Assignments, 2)

	// Stored sessions are untouched until an explicit apply.
	assert.Zero(t, fx.sessions.updates)
	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Nil(t, stored.TimeSlotID)
	assert.Empty(t, fx.events.touched)
}

func TestApplyCommitsPreview(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 30, 60), testSession("b", 10, 60))

	proposal, err := fx.svc.PreviewAutoSchedule(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)

	n, err := fx.svc.ApplyAutoSchedule(context.Background(), "ev-1", "user-1", proposal.Assignments)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Equal(t, domain.StatusScheduled, stored.Status)
	require.NotNil(t, stored.TimeSlotID)
	require.NotNil(t, stored.VenueID)
	assert.Len(t, fx.events.touched, 1)
}

func TestApplyAcceptsScheduledWithoutSlot(t *testing.T) {
	// A replace in flight leaves a session scheduled with no slot; the
	// proposal pool admits it, so apply must too.
	displaced := testSession("a", 30, 60)
	displaced.Status = domain.StatusScheduled
	fx := newSchedulingFixture(t, displaced)

	proposal, err := fx.svc.PreviewAutoSchedule(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.Len(t, proposal.Assignments, 1)

	n, err := fx.svc.ApplyAutoSchedule(context.Background(), "ev-1", "user-1", proposal.Assignments)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Equal(t, domain.StatusScheduled, stored.Status)
	require.NotNil(t, stored.TimeSlotID)
}

func TestApplySkipsStaleAssignments(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 30, 60), testSession("b", 10, 60))

	proposal, err := fx.svc.PreviewAutoSchedule(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.Len(t, proposal.Assignments, 2)

	// Another admin schedules "a" between preview and apply.
	vid, sid := "v1", "s2"
	_, err = fx.sessions.UpdateSchedule(context.Background(), "a", domain.StatusScheduled, &vid, &sid)
	require.NoError(t, err)
	fx.sessions.updates = 0

	n, err := fx.svc.ApplyAutoSchedule(context.Background(), "ev-1", "user-1", proposal.Assignments)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// "a" keeps its newer placement.
	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Equal(t, "s2", *stored.TimeSlotID)
}

func TestMoveSessionCommit(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	res, err := fx.svc.MoveSession(context.Background(), "ev-1", "a", "s1", "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveCommitted, res.Outcome)

	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Equal(t, domain.StatusScheduled, stored.Status)
	require.NotNil(t, stored.TimeSlotID)
	assert.Equal(t, "s1", *stored.TimeSlotID)
	assert.Len(t, fx.events.touched, 1)
}

func TestMoveSessionConflictThenReplace(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60), testSession("b", 20, 60))

	_, err := fx.svc.MoveSession(context.Background(), "ev-1", "b", "s1", "user-1", false)
	require.NoError(t, err)

	res, err := fx.svc.MoveSession(context.Background(), "ev-1", "a", "s1", "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveConflict, res.Outcome)
	require.NotNil(t, res.Occupant)
	assert.Equal(t, "b", res.Occupant.ID)

	// Stored state is unchanged while the conflict is pending.
	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Nil(t, stored.TimeSlotID)

	res, err = fx.svc.MoveSession(context.Background(), "ev-1", "a", "s1", "user-1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveCommitted, res.Outcome)

	stored, _ = fx.sessions.GetByID(context.Background(), "a")
	require.NotNil(t, stored.TimeSlotID)
	assert.Equal(t, "s1", *stored.TimeSlotID)
	displaced, _ := fx.sessions.GetByID(context.Background(), "b")
	assert.Equal(t, domain.StatusApproved, displaced.Status)
	assert.Nil(t, displaced.TimeSlotID)
}

func TestUndoRedoThroughService(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	_, err := fx.svc.MoveSession(context.Background(), "ev-1", "a", "s1", "user-1", false)
	require.NoError(t, err)

	sess, err := fx.svc.Undo(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, sess.TimeSlotID)
	stored, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Equal(t, domain.StatusApproved, stored.Status)

	sess, err = fx.svc.Redo(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, sess.TimeSlotID)
	assert.Equal(t, "s1", *sess.TimeSlotID)
}

func TestResetDayRejectsForeignDay(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	_, err := fx.svc.ResetDay(context.Background(), "ev-1", saturday.AddDate(0, 0, 30), "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetDayThroughService(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60), testSession("b", 20, 60))

	_, err := fx.svc.MoveSession(context.Background(), "ev-1", "a", "s1", "user-1", false)
	require.NoError(t, err)
	_, err = fx.svc.MoveSession(context.Background(), "ev-1", "b", "sun1", "user-1", false)
	require.NoError(t, err)

	n, err := fx.svc.ResetDay(context.Background(), "ev-1", saturday, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	storedA, _ := fx.sessions.GetByID(context.Background(), "a")
	assert.Nil(t, storedA.TimeSlotID)
	storedB, _ := fx.sessions.GetByID(context.Background(), "b")
	require.NotNil(t, storedB.TimeSlotID)
	assert.Equal(t, "sun1", *storedB.TimeSlotID)
}

func TestPublishStatusLifecycle(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	status, err := fx.svc.GetPublishStatus(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.False(t, status.HasUnpublishedChanges)
	assert.Zero(t, status.ScheduledSessionCount)

	_, err = fx.svc.MoveSession(context.Background(), "ev-1", "a", "s1", "user-1", false)
	require.NoError(t, err)

	status, err = fx.svc.GetPublishStatus(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.True(t, status.HasUnpublishedChanges)
	assert.Equal(t, 1, status.ScheduledSessionCount)

	res, err := fx.svc.Publish(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.False(t, res.Status.HasUnpublishedChanges)
	assert.NotNil(t, res.Status.SchedulePublishedAt)
}

func TestPublishEmptyScheduleWarns(t *testing.T) {
	fx := newSchedulingFixture(t, testSession("a", 10, 60))

	res, err := fx.svc.Publish(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, emptySchedulePublishWarning, res.Warning)
}
