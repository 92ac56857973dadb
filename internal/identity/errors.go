package identity

import "errors"

// Service errors. The messages double as the client-facing `{"message"}`
// bodies, so they keep the API's sentence casing.
var (
	ErrUserNotFound            = errors.New("User not found")
	ErrEmailExists             = errors.New("Email is already registered")
	ErrInvalidCredentials      = errors.New("Invalid credentials")
	ErrInvalidAdminCredentials = errors.New("Invalid admin credentials")
	ErrUnderage                = errors.New("User must be at least 18 years old")
)
