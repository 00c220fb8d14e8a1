package postgres

import (
	"context"
	"database/sql"

	"confscheduler/internal/domain"
)

type TimeSlotRepository struct {
	DB *sql.DB
}

func NewTimeSlotRepository(db *sql.DB) domain.TimeSlotRepository {
	return &TimeSlotRepository{
		DB: db,
	}
}

const timeSlotColumns = `id, event_id, venue_id, day_date, start_time, end_time, is_break, slot_type, label, created_at, updated_at`

func (r *TimeSlotRepository) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	query := `
		SELECT ` + timeSlotColumns + `
		FROM time_slots
		WHERE id = $1
	`
	slot := &domain.TimeSlot{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&slot.ID, &slot.EventID, &slot.VenueID, &slot.DayDate, &slot.StartTime, &slot.EndTime, &slot.IsBreak, &slot.SlotType, &slot.Label, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r *TimeSlotRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
	query := `
		SELECT ` + timeSlotColumns + `
		FROM time_slots
		WHERE event_id = $1
		ORDER BY start_time, venue_id, id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []*domain.TimeSlot
	for rows.Next() {
		slot := &domain.TimeSlot{}
		if err := rows.Scan(&slot.ID, &slot.EventID, &slot.VenueID, &slot.DayDate, &slot.StartTime, &slot.EndTime, &slot.IsBreak, &slot.SlotType, &slot.Label, &slot.CreatedAt, &slot.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
