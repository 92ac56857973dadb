// Package registrations implements event registrations, including the
// one-registration-per-user-per-event guarantee.
package registrations

import (
	"context"
	"errors"

	"github.com/redveins/bloodlink/internal/domain"
)

// Registration errors. Messages double as response bodies.
var (
	// ErrAlreadyRegistered reports a duplicate (user, event) pair,
	// whether caught by the pre-check or by the unique index.
	ErrAlreadyRegistered = errors.New("Already registered for this event")

	// ErrRegistrationNotFound covers both a genuinely absent row and a
	// row owned by someone else. Ownership is part of the lookup
	// predicate, so a caller cannot tell the two apart.
	ErrRegistrationNotFound = errors.New("Registration not found")
)

// Repository defines the interface for registration storage. Create must
// report ErrAlreadyRegistered when the storage-level uniqueness
// constraint on (user, event) rejects the insert.
type Repository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	ExistsByUserAndEvent(ctx context.Context, userID, eventID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error)
	ListAll(ctx context.Context) ([]*domain.Registration, error)
	DeleteOwned(ctx context.Context, id, userID string) error
	CountRegistrations(ctx context.Context) (int, error)
}
