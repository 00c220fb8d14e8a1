package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyScheduledSendsAndStamps(t *testing.T) {
	sess := testSession("a", 10, 60)
	sessions := newFakeSessionRepo(sess)
	mailer := &fakeMailer{}
	notifier := NewHostNotifier(mailer, sessions, nil)

	venue := testVenue("v1", "Main Stage", nil)
	slot := testSlot("s1", "v1", saturday, 10, 60, false)
	err := notifier.NotifyScheduled(context.Background(), sess, venue, slot)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, "Talk a")

	stored, _ := sessions.GetByID(context.Background(), "a")
	assert.NotNil(t, stored.HostNotifiedAt)
}

func TestNotifyScheduledMailerFailure(t *testing.T) {
	sess := testSession("a", 10, 60)
	sessions := newFakeSessionRepo(sess)
	mailer := &fakeMailer{err: errors.New("smtp down")}
	notifier := NewHostNotifier(mailer, sessions, nil)

	err := notifier.NotifyScheduled(context.Background(), sess, nil, nil)
	require.Error(t, err)

	stored, _ := sessions.GetByID(context.Background(), "a")
	assert.Nil(t, stored.HostNotifiedAt)
}

func TestNotifyScheduledSkipsHostlessSession(t *testing.T) {
	sess := testSession("a", 10, 60)
	sess.HostEmail = ""
	mailer := &fakeMailer{}
	notifier := NewHostNotifier(mailer, newFakeSessionRepo(sess), nil)

	err := notifier.NotifyScheduled(context.Background(), sess, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}
