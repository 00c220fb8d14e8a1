package postgres

import (
	"context"
	"database/sql"

	"confscheduler/internal/domain"
)

type VenueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &VenueRepository{
		DB: db,
	}
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := `
		SELECT id, event_id, name, capacity, is_primary, created_at, updated_at
		FROM venues
		WHERE id = $1
	`
	venue := &domain.Venue{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&venue.ID, &venue.EventID, &venue.Name, &venue.Capacity, &venue.IsPrimary, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (r *VenueRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Venue, error) {
	query := `
		SELECT id, event_id, name, capacity, is_primary, created_at, updated_at
		FROM venues
		WHERE event_id = $1
		ORDER BY is_primary DESC, name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var venues []*domain.Venue
	for rows.Next() {
		venue := &domain.Venue{}
		if err := rows.Scan(&venue.ID, &venue.EventID, &venue.Name, &venue.Capacity, &venue.IsPrimary, &venue.CreatedAt, &venue.UpdatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}
