// Package identity provides account management and authentication:
// signup, login, admin login, profile access, and the principal
// resolution the auth middleware relies on.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/redveins/bloodlink/internal/domain"
)

// bcryptCost is the work factor applied to every stored secret. Hashing
// is deliberately expensive; it is never cached or memoized.
const bcryptCost = 12

// minimumAge is the youngest a donor may be at signup, in years.
const minimumAge = 18

// Repository defines the interface for user storage.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Service implements identity business logic.
type Service struct {
	repo   Repository
	tokens TokenService
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// SignupInput holds validated data for creating a donor account.
// Shape validation happens at the handler; semantic rules (age, email
// uniqueness) are enforced here.
type SignupInput struct {
	Name             string
	Email            string
	Password         string
	Phone            string
	BloodGroup       domain.BloodGroup
	DateOfBirth      time.Time
	City             string
	Location         string
	LastDonationDate *time.Time
}

// Signup creates a donor account and issues a token for it. The role is
// always donor; admin accounts are provisioned out-of-band.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*domain.User, string, error) {
	if !isAtLeast(minimumAge, input.DateOfBirth, time.Now()) {
		return nil, "", ErrUnderage
	}

	email := domain.NormalizeEmail(input.Email)

	// Friendly pre-check; the unique index on email is the guarantee.
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:             input.Name,
		Email:            email,
		PasswordHash:     string(hash),
		Phone:            input.Phone,
		BloodGroup:       input.BloodGroup,
		DateOfBirth:      input.DateOfBirth,
		City:             input.City,
		Location:         input.Location,
		LastDonationDate: input.LastDonationDate,
		Role:             domain.RoleDonor,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Two concurrent signups can both pass the pre-check; the index
		// arbitrates and the loser surfaces the same conflict.
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// AdminLogin is Login with an additional stored-role requirement. Any
// failure, including a valid donor credential, reports the same error.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidAdminCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !user.Role.IsAdmin() {
		return nil, "", ErrInvalidAdminCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidAdminCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// GetUserByID returns a user by id. Also serves as the auth middleware's
// per-request account re-check.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfileInput holds the mutable profile fields. Nil pointers mean
// "leave unchanged"; ClearLastDonation clears the last donation date.
type UpdateProfileInput struct {
	Phone             *string
	City              *string
	Location          *string
	LastDonationDate  *time.Time
	ClearLastDonation bool
}

// UpdateProfile applies the allow-listed mutable fields to the user's
// own record. Name, email, role and date of birth are immutable here.
func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.ClearLastDonation {
		user.LastDonationDate = nil
	} else if input.LastDonationDate != nil {
		user.LastDonationDate = input.LastDonationDate
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// ListUsers returns all users, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// DeleteUser removes an account and returns the deleted record.
// Registrations held by the account are left in place; its outstanding
// tokens stop resolving on the next request.
func (s *Service) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.DeleteUser(ctx, id)
}

// CountUsers returns the total number of accounts.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.repo.CountUsers(ctx)
}

// isAtLeast reports whether someone born on dob is at least years old on
// the given day, by calendar arithmetic: the birthday this year must
// have passed (month and day inclusive).
func isAtLeast(years int, dob, now time.Time) bool {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age >= years
}
