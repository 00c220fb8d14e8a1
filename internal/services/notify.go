package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"confscheduler/internal/domain"
)

type hostNotifier struct {
	mailer      domain.Mailer
	sessionRepo domain.SessionRepository
	logger      *slog.Logger
}

// NewHostNotifier returns a HostNotifier that emails a session's host when the
// session lands on the schedule and stamps host_notified_at on success.
func NewHostNotifier(mailer domain.Mailer, sessionRepo domain.SessionRepository, logger *slog.Logger) domain.HostNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &hostNotifier{mailer: mailer, sessionRepo: sessionRepo, logger: logger}
}

func (n *hostNotifier) NotifyScheduled(ctx context.Context, session *domain.Session, venue *domain.Venue, slot *domain.TimeSlot) error {
	if session == nil || session.HostEmail == "" {
		return nil
	}

	venueName := "TBD"
	if venue != nil {
		venueName = venue.Name
	}
	when := "TBD"
	if slot != nil {
		when = slot.StartTime.Format("Monday 15:04")
	}

	subject := fmt.Sprintf("Your session %q has been scheduled", session.Title)
	text := fmt.Sprintf("Hi %s,\n\nYour session %q is now scheduled at %s in %s.\n\nSee you there!",
		session.HostName, session.Title, when, venueName)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your session <strong>%s</strong> is now scheduled at %s in <strong>%s</strong>.</p><p>See you there!</p>",
		session.HostName, session.Title, when, venueName)

	if err := n.mailer.Send(session.HostEmail, subject, html, text); err != nil {
		return fmt.Errorf("failed to send host notification: %w", err)
	}

	if err := n.sessionRepo.MarkHostNotified(ctx, session.ID, time.Now()); err != nil {
		n.logger.Error("failed to stamp host notification", "session_id", session.ID, "err", err)
	}
	n.logger.Info("host notified", "session_id", session.ID, "to", session.HostEmail)
	return nil
}
