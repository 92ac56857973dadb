// Package events provides HTTP handlers and business logic for
// blood-donation event listings.
package events

import (
	"context"
	"errors"

	"github.com/redveins/bloodlink/internal/domain"
)

// ErrEventNotFound is returned when an event id resolves to nothing.
// The message doubles as the client-facing response body.
var ErrEventNotFound = errors.New("Event not found")

// Repository defines the interface for event storage.
type Repository interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]*domain.Event, error)
	UpdateEvent(ctx context.Context, event *domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
	EventExists(ctx context.Context, id string) (bool, error)
	CountEvents(ctx context.Context) (int, error)
}
