package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/events"
	"github.com/redveins/bloodlink/internal/pkg/metrics"
)

// EventChecker validates that a referenced event exists.
type EventChecker interface {
	EventExists(ctx context.Context, id string) (bool, error)
}

// Service implements registration business logic.
type Service struct {
	repo      Repository
	eventsSvc EventChecker
}

// NewService creates a new registration service.
func NewService(repo Repository, eventsSvc EventChecker) *Service {
	return &Service{repo: repo, eventsSvc: eventsSvc}
}

// Register creates a registration for the given user and event.
//
// The existence pre-check gives the common duplicate case a cheap
// answer, but it is only an optimization: two concurrent requests can
// both pass it. The unique index on (user_id, event_id) is the source
// of truth, and its violation is translated into the same conflict.
func (s *Service) Register(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	exists, err := s.eventsSvc.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return nil, events.ErrEventNotFound
	}

	registered, err := s.repo.ExistsByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}
	if registered {
		metrics.RegistrationConflicts.WithLabelValues("precheck").Inc()
		return nil, ErrAlreadyRegistered
	}

	registration := &domain.Registration{
		UserID:  userID,
		EventID: eventID,
		Status:  domain.RegistrationStatusRegistered,
	}

	if err := s.repo.Create(ctx, registration); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			// Lost the race: a concurrent request inserted the pair
			// after our pre-check. Same conflict either way.
			metrics.RegistrationConflicts.WithLabelValues("unique_index").Inc()
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	// Re-read to embed the event and registrant for the response.
	created, err := s.repo.GetByID(ctx, registration.ID)
	if err != nil {
		return nil, fmt.Errorf("load created registration: %w", err)
	}
	return created, nil
}

// ListByUser returns the user's registrations, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every registration, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	return s.repo.ListAll(ctx)
}

// Cancel deletes a registration scoped to (id, owner) jointly. A foreign
// registration id behaves exactly like a nonexistent one.
func (s *Service) Cancel(ctx context.Context, id, userID string) error {
	return s.repo.DeleteOwned(ctx, id, userID)
}

// CountRegistrations returns the total number of registrations.
func (s *Service) CountRegistrations(ctx context.Context) (int, error) {
	return s.repo.CountRegistrations(ctx)
}
