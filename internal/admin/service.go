package admin

import (
	"context"
	"fmt"

	"github.com/redveins/bloodlink/internal/domain"
)

// UserDirectory is the slice of the identity service the admin module needs.
type UserDirectory interface {
	AdminLogin(ctx context.Context, email, password string) (*domain.User, string, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// EventCounter reports the total number of events.
type EventCounter interface {
	CountEvents(ctx context.Context) (int, error)
}

// RegistrationCounter reports the total number of registrations.
type RegistrationCounter interface {
	CountRegistrations(ctx context.Context) (int, error)
}

// Stats summarises platform totals for the admin dashboard.
type Stats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalEvents        int `json:"totalEvents"`
	TotalRegistrations int `json:"totalRegistrations"`
}

// Service implements admin operations on top of the other modules.
type Service struct {
	users         UserDirectory
	events        EventCounter
	registrations RegistrationCounter
}

// NewService creates a new admin service.
func NewService(users UserDirectory, events EventCounter, registrations RegistrationCounter) *Service {
	return &Service{users: users, events: events, registrations: registrations}
}

// Login authenticates an admin account.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.users.AdminLogin(ctx, email, password)
}

// ListUsers returns all user accounts.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListUsers(ctx)
}

// DeleteUser removes a user account and returns the deleted record. The
// user's registrations are left in place and show up with a detached
// registrant in admin listings.
func (s *Service) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.DeleteUser(ctx, id)
}

// Stats gathers the platform totals.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	events, err := s.events.CountEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	registrations, err := s.registrations.CountRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	return &Stats{
		TotalUsers:         users,
		TotalEvents:        events,
		TotalRegistrations: registrations,
	}, nil
}
