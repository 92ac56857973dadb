package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/pkg/ctxlog"
	"github.com/redveins/bloodlink/internal/pkg/httputil"
)

// emailRegex matches the address shape the API accepts. Applied to the
// normalized (lowercased, trimmed) address.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// profileUpdatableFields is the allow-list of mutable profile fields.
var profileUpdatableFields = map[string]bool{
	"phone":            true,
	"city":             true,
	"location":         true,
	"lastDonationDate": true,
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/profile", h.Profile)
	r.Put("/users/profile", h.UpdateProfile)
}

// SignupRequest represents the signup request body. Dates arrive as
// strings and are parsed after shape validation.
type SignupRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required"`
	Password         string `json:"password" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
	BloodGroup       string `json:"bloodGroup" validate:"required"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required"`
	City             string `json:"city" validate:"required"`
	Location         string `json:"location" validate:"required"`
	LastDonationDate string `json:"lastDonationDate"`
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "All required fields must be provided")
		return
	}

	email := domain.NormalizeEmail(req.Email)
	if !emailRegex.MatchString(email) {
		httputil.Error(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	if len(req.Password) < 8 {
		httputil.Error(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	bloodGroup := domain.BloodGroup(strings.TrimSpace(req.BloodGroup))
	if !bloodGroup.IsValid() {
		httputil.Error(w, http.StatusBadRequest, "Invalid bloodGroup")
		return
	}

	dob, ok := parseDate(req.DateOfBirth)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "Invalid dateOfBirth")
		return
	}

	var lastDonation *time.Time
	if req.LastDonationDate != "" {
		parsed, ok := parseDate(req.LastDonationDate)
		if !ok {
			httputil.Error(w, http.StatusBadRequest, "Invalid lastDonationDate")
			return
		}
		lastDonation = &parsed
	}

	user, token, err := h.service.Signup(r.Context(), SignupInput{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Password:         req.Password,
		Phone:            strings.TrimSpace(req.Phone),
		BloodGroup:       bloodGroup,
		DateOfBirth:      dob,
		City:             strings.TrimSpace(req.City),
		Location:         strings.TrimSpace(req.Location),
		LastDonationDate: lastDonation,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Profile handles GET /auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"user": principal})
}

// UpdateProfile handles PUT /users/profile. Only the allow-listed fields
// may appear in the payload; anything else rejects the whole request.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(payload) == 0 {
		httputil.Error(w, http.StatusBadRequest, "At least one updatable field is required")
		return
	}

	for key := range payload {
		if !profileUpdatableFields[key] {
			httputil.Error(w, http.StatusBadRequest, "Only phone, city, location, and lastDonationDate can be updated")
			return
		}
	}

	var input UpdateProfileInput

	if raw, exists := payload["phone"]; exists {
		value, ok := decodeNonEmptyString(raw)
		if !ok {
			httputil.Error(w, http.StatusBadRequest, "phone must be a non-empty string")
			return
		}
		input.Phone = &value
	}

	if raw, exists := payload["city"]; exists {
		value, ok := decodeNonEmptyString(raw)
		if !ok {
			httputil.Error(w, http.StatusBadRequest, "city must be a non-empty string")
			return
		}
		input.City = &value
	}

	if raw, exists := payload["location"]; exists {
		value, ok := decodeNonEmptyString(raw)
		if !ok {
			httputil.Error(w, http.StatusBadRequest, "location must be a non-empty string")
			return
		}
		input.Location = &value
	}

	if raw, exists := payload["lastDonationDate"]; exists {
		if string(raw) == "null" {
			input.ClearLastDonation = true
		} else {
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				httputil.Error(w, http.StatusBadRequest, "lastDonationDate must be a date string or null")
				return
			}
			parsed, ok := parseDate(value)
			if !ok {
				httputil.Error(w, http.StatusBadRequest, "Invalid lastDonationDate")
				return
			}
			input.LastDonationDate = &parsed
		}
	}

	user, err := h.service.UpdateProfile(r.Context(), principal.ID, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnderage):
		httputil.Error(w, http.StatusBadRequest, ErrUnderage.Error())
	case errors.Is(err, ErrEmailExists):
		httputil.Error(w, http.StatusConflict, ErrEmailExists.Error())
	case errors.Is(err, ErrInvalidCredentials):
		httputil.Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrInvalidAdminCredentials):
		httputil.Error(w, http.StatusUnauthorized, ErrInvalidAdminCredentials.Error())
	case errors.Is(err, ErrUserNotFound):
		httputil.Error(w, http.StatusNotFound, ErrUserNotFound.Error())
	default:
		ctxlog.FromContext(r.Context()).Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeNonEmptyString unmarshals a JSON string and trims it; empty or
// non-string values fail.
func decodeNonEmptyString(raw json.RawMessage) (string, bool) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
