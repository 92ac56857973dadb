package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/registrations"
)

// Repository implements registrations.Repository backed by PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a registration. A duplicate (user_id, event_id) pair is
// rejected by the unique index and reported as ErrAlreadyRegistered.
func (r *Repository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (user_id, event_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, reg.UserID, reg.EventID, reg.Status).
		Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return registrations.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}

	return nil
}

// registration row with both sides joined in. The event join is LEFT so a
// registration outlives its event (the event fields come back NULL).
const registrationSelect = `
	SELECT r.id, r.user_id, r.event_id, r.status, r.created_at, r.updated_at,
	       u.id, u.name, u.email, u.phone, u.blood_group, u.city,
	       e.id, e.title, e.description, e.location, e.city, e.date, e.time,
	       e.organizer, e.contact_number, e.required_blood_groups, e.created_by,
	       e.created_at, e.updated_at
	FROM registrations r
	LEFT JOIN users u ON u.id = r.user_id
	LEFT JOIN events e ON e.id = r.event_id
`

// GetByID returns a registration with its registrant and event embedded.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	row := r.pool.QueryRow(ctx, registrationSelect+` WHERE r.id = $1`, id)

	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, registrations.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return reg, nil
}

// ExistsByUserAndEvent reports whether a (user, event) pair is already
// registered.
func (r *Repository) ExistsByUserAndEvent(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

// ListByUser returns a user's registrations, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	rows, err := r.pool.Query(ctx, registrationSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

// ListAll returns all registrations, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	rows, err := r.pool.Query(ctx, registrationSelect+` ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

// DeleteOwned removes a registration only if it belongs to userID. A
// registration owned by someone else looks the same as a missing one.
func (r *Repository) DeleteOwned(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return registrations.ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return registrations.ErrRegistrationNotFound
	}

	return nil
}

// CountRegistrations returns the total number of registrations.
func (r *Repository) CountRegistrations(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func collectRegistrations(rows pgx.Rows) ([]*domain.Registration, error) {
	list := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read registrations: %w", err)
	}
	return list, nil
}

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var (
		reg  domain.Registration
		user struct {
			id         *string
			name       *string
			email      *string
			phone      *string
			bloodGroup *string
			city       *string
		}
		event struct {
			id            *string
			title         *string
			description   *string
			location      *string
			city          *string
			date          *time.Time
			timeOfDay     *string
			organizer     *string
			contactNumber *string
			bloodGroups   []string
			createdBy     *string
			createdAt     *time.Time
			updatedAt     *time.Time
		}
	)

	err := row.Scan(
		&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
		&user.id, &user.name, &user.email, &user.phone, &user.bloodGroup, &user.city,
		&event.id, &event.title, &event.description, &event.location, &event.city,
		&event.date, &event.timeOfDay, &event.organizer, &event.contactNumber,
		&event.bloodGroups, &event.createdBy, &event.createdAt, &event.updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.id != nil {
		reg.User = &domain.Registrant{
			ID:         *user.id,
			Name:       deref(user.name),
			Email:      deref(user.email),
			Phone:      deref(user.phone),
			BloodGroup: domain.BloodGroup(deref(user.bloodGroup)),
			City:       deref(user.city),
		}
	}

	if event.id != nil {
		reg.Event = &domain.Event{
			ID:                  *event.id,
			Title:               deref(event.title),
			Description:         deref(event.description),
			Location:            deref(event.location),
			City:                deref(event.city),
			Time:                deref(event.timeOfDay),
			Organizer:           deref(event.organizer),
			ContactNumber:       deref(event.contactNumber),
			RequiredBloodGroups: event.bloodGroups,
			CreatedBy:           deref(event.createdBy),
		}
		if event.date != nil {
			reg.Event.Date = *event.date
		}
		if event.createdAt != nil {
			reg.Event.CreatedAt = *event.createdAt
		}
		if event.updatedAt != nil {
			reg.Event.UpdatedAt = *event.updatedAt
		}
	}

	return &reg, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
