package domain

import "context"

// Mailer sends a single email. Implementations live in adapters.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// HostNotifier tells a session's host their session was scheduled. Callers
// treat it as best-effort: the result never influences the scheduling commit.
type HostNotifier interface {
	NotifyScheduled(ctx context.Context, session *Session, venue *Venue, slot *TimeSlot) error
}
