package postgres

import (
	"context"
	"database/sql"
	"time"

	"confscheduler/internal/domain"
)

type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &EventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, owner_id, starts_on, ends_on, schedule_published_at, last_schedule_change_at, created_at, updated_at`

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(&event.ID, &event.Name, &event.OwnerID, &event.StartsOn, &event.EndsOn, &event.SchedulePublishedAt, &event.LastScheduleChangeAt, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	event, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) TouchScheduleChange(ctx context.Context, eventID string, at time.Time) error {
	query := `UPDATE events SET last_schedule_change_at = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, eventID, at)
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

func (r *EventRepository) MarkSchedulePublished(ctx context.Context, eventID string, at time.Time) (*domain.Event, error) {
	query := `
		UPDATE events
		SET schedule_published_at = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns + `
	`
	event, err := scanEvent(r.DB.QueryRowContext(ctx, query, eventID, at))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}
