package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/identity"
	"github.com/redveins/bloodlink/internal/pkg/httputil"
)

// Handler handles HTTP requests for the admin module.
type Handler struct {
	service *Service
}

// NewHandler creates a new admin handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers the admin login endpoint.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/admin/login", h.Login)
}

// RegisterProtectedRoutes registers endpoints that callers gate with auth
// and the admin role.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/admin/profile", h.Profile)
	r.Get("/admin/stats", h.Stats)
	r.Get("/admin/users", h.ListUsers)
	r.Delete("/admin/users/{id}", h.DeleteUser)
}

// LoginRequest represents the admin login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// adminView is the admin account shape returned by admin endpoints. It
// drops donor-only fields like bloodGroup and dateOfBirth.
type adminView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	Location  string    `json:"location,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newAdminView(u *domain.User) adminView {
	return adminView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		City:      u.City,
		Location:  u.Location,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Login handles POST /admin/login.
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
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Admin login successful",
		"token":   token,
		"admin":   newAdminView(user),
	})
}

// Profile handles GET /admin/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"admin": newAdminView(principal),
	})
}

// Stats handles GET /admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// DeleteUser handles DELETE /admin/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
		"user":    user,
	})
}

var errorMappings = []httputil.ErrorMapping{
	{Error: identity.ErrInvalidAdminCredentials, Status: http.StatusUnauthorized},
	{Error: identity.ErrUserNotFound, Status: http.StatusNotFound},
}
