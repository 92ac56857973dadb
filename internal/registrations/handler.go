package registrations

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redveins/bloodlink/internal/events"
	"github.com/redveins/bloodlink/internal/pkg/httputil"
)

// Handler handles HTTP requests for the registrations module.
type Handler struct {
	service *Service
}

// NewHandler creates a new registrations handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers donor-facing routes. Callers wrap them in the
// auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/registrations", h.Create)
	r.Get("/registrations/my", h.ListMine)
	r.Delete("/registrations/{id}", h.Cancel)
}

// RegisterAdminRoutes registers the full-listing route. Callers gate it
// with the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/registrations", h.ListAll)
}

// CreateRegistrationRequest represents the registration creation body.
type CreateRegistrationRequest struct {
	EventID string `json:"eventId"`
}

// Create handles POST /registrations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.EventID == "" {
		httputil.Error(w, http.StatusBadRequest, "eventId is required")
		return
	}

	if uuid.Validate(req.EventID) != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	registration, err := h.service.Register(r.Context(), principal.ID, req.EventID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Registered successfully",
		"registration": registration,
	})
}

// ListMine handles GET /registrations/my.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.service.ListByUser(r.Context(), principal.ID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"registrations": list})
}

// Cancel handles DELETE /registrations/{id}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid registration id")
		return
	}

	if err := h.service.Cancel(r.Context(), id, principal.ID); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Registration cancelled successfully",
	})
}

// ListAll handles GET /registrations (admin).
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"registrations": list})
}

var errorMappings = []httputil.ErrorMapping{
	{Error: events.ErrEventNotFound, Status: http.StatusNotFound},
	{Error: ErrAlreadyRegistered, Status: http.StatusConflict},
	{Error: ErrRegistrationNotFound, Status: http.StatusNotFound},
}
