package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redveins/bloodlink/internal/domain"
)

// Service implements event business logic.
type Service struct {
	repo Repository
}

// NewService creates a new event service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateEventInput holds data for creating an event.
type CreateEventInput struct {
	Title               string
	Description         string
	Location            string
	City                string
	Date                time.Time
	Time                string
	Organizer           string
	ContactNumber       string
	RequiredBloodGroups []string
}

// CreateEvent creates an event owned by the given admin. The creator is
// the authenticated principal, so the reference is valid by construction.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput, createdBy string) (*domain.Event, error) {
	event := &domain.Event{
		Title:               input.Title,
		Description:         input.Description,
		Location:            input.Location,
		City:                input.City,
		Date:                input.Date,
		Time:                input.Time,
		Organizer:           input.Organizer,
		ContactNumber:       input.ContactNumber,
		RequiredBloodGroups: input.RequiredBloodGroups,
		CreatedBy:           createdBy,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// GetEvent retrieves an event by id.
func (s *Service) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// ListEvents retrieves all events ordered by date.
func (s *Service) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// UpdateEventInput holds the updatable event fields. Nil pointers mean
// "leave unchanged".
type UpdateEventInput struct {
	Title               *string
	Description         *string
	Location            *string
	City                *string
	Date                *time.Time
	Time                *string
	Organizer           *string
	ContactNumber       *string
	RequiredBloodGroups *[]string
}

// UpdateEvent applies the provided fields to an existing event.
func (s *Service) UpdateEvent(ctx context.Context, id string, input UpdateEventInput) (*domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.City != nil {
		event.City = *input.City
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Time != nil {
		event.Time = *input.Time
	}
	if input.Organizer != nil {
		event.Organizer = *input.Organizer
	}
	if input.ContactNumber != nil {
		event.ContactNumber = *input.ContactNumber
	}
	if input.RequiredBloodGroups != nil {
		event.RequiredBloodGroups = *input.RequiredBloodGroups
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event. Registrations referencing it are left in
// place; there is no cascade.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.repo.DeleteEvent(ctx, id)
}

// EventExists reports whether an event with the given id exists.
func (s *Service) EventExists(ctx context.Context, id string) (bool, error) {
	return s.repo.EventExists(ctx, id)
}

// CountEvents returns the total number of events.
func (s *Service) CountEvents(ctx context.Context) (int, error) {
	return s.repo.CountEvents(ctx)
}
