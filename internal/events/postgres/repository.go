// Package postgres provides the PostgreSQL implementation of the events
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/events"
)

// Repository implements events.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateEvent creates a new event in the database.
func (r *Repository) CreateEvent(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (
			title, description, location, city, date, time,
			organizer, contact_number, required_blood_groups, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.City,
		event.Date,
		event.Time,
		event.Organizer,
		event.ContactNumber,
		event.RequiredBloodGroups,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by id.
func (r *Repository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, location, city, date, time,
			organizer, contact_number, required_blood_groups, created_by,
			created_at, updated_at
		FROM events
		WHERE id = $1
	`
	var event domain.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.City,
		&event.Date,
		&event.Time,
		&event.Organizer,
		&event.ContactNumber,
		&event.RequiredBloodGroups,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

// ListEvents retrieves all events ordered by date ascending.
func (r *Repository) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, title, description, location, city, date, time,
			organizer, contact_number, required_blood_groups, created_by,
			created_at, updated_at
		FROM events
		ORDER BY date
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	list := make([]*domain.Event, 0)
	for rows.Next() {
		var event domain.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.City,
			&event.Date,
			&event.Time,
			&event.Organizer,
			&event.ContactNumber,
			&event.RequiredBloodGroups,
			&event.CreatedBy,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return list, nil
}

// UpdateEvent persists event changes.
func (r *Repository) UpdateEvent(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, city = $5,
			date = $6, time = $7, organizer = $8, contact_number = $9,
			required_blood_groups = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.City,
		event.Date,
		event.Time,
		event.Organizer,
		event.ContactNumber,
		event.RequiredBloodGroups,
	).Scan(&event.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return events.ErrEventNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event. Registrations referencing it are not
// touched; there is no cascade.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrEventNotFound
	}
	return nil
}

// EventExists reports whether an event with the given id exists.
func (r *Repository) EventExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return exists, nil
}

// CountEvents returns the total number of events.
func (r *Repository) CountEvents(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
