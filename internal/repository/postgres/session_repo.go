package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"confscheduler/internal/domain"
)

type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &SessionRepository{
		DB: db,
	}
}

const sessionColumns = `id, event_id, title, format, duration_minutes, host_name, host_email, track_id, total_votes, time_preferences, status, venue_id, time_slot_id, host_notified_at, created_at, updated_at`

func scanSession(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Session, error) {
	sess := &domain.Session{}
	var prefs pq.StringArray
	err := row.Scan(&sess.ID, &sess.EventID, &sess.Title, &sess.Format, &sess.DurationMinutes, &sess.HostName, &sess.HostEmail, &sess.TrackID, &sess.TotalVotes, &prefs, &sess.Status, &sess.VenueID, &sess.TimeSlotID, &sess.HostNotifiedAt, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sess.TimePreferences = []string(prefs)
	return sess, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	sess, err := scanSession(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (r *SessionRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE event_id = $1
		ORDER BY total_votes DESC, id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) UpdateSchedule(ctx context.Context, sessionID string, status domain.SessionStatus, venueID, timeSlotID *string) (*domain.Session, error) {
	query := `
		UPDATE sessions
		SET status = $2, venue_id = $3, time_slot_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns + `
	`
	sess, err := scanSession(r.DB.QueryRowContext(ctx, query, sessionID, status, venueID, timeSlotID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (r *SessionRepository) UnscheduleMany(ctx context.Context, sessionIDs []string) (int, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}
	query := `
		UPDATE sessions
		SET status = 'approved', venue_id = NULL, time_slot_id = NULL, updated_at = NOW()
		WHERE id = ANY($1) AND time_slot_id IS NOT NULL
	`
	result, err := r.DB.ExecContext(ctx, query, pq.Array(sessionIDs))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *SessionRepository) CountScheduledByEventID(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM sessions WHERE event_id = $1 AND status = 'scheduled'`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SessionRepository) MarkHostNotified(ctx context.Context, sessionID string, at time.Time) error {
	query := `UPDATE sessions SET host_notified_at = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, sessionID, at)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
