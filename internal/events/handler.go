package events

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/redveins/bloodlink/internal/pkg/httputil"
)

// eventUpdatableFields is the allow-list of fields accepted by update.
var eventUpdatableFields = map[string]bool{
	"title":               true,
	"description":         true,
	"location":            true,
	"city":                true,
	"date":                true,
	"time":                true,
	"organizer":           true,
	"contactNumber":       true,
	"requiredBloodGroups": true,
}

// Handler handles HTTP requests for the events module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new events handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes available without authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)
}

// RegisterAdminRoutes registers event management routes. Callers gate
// them with the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/events", h.CreateEvent)
	r.Put("/events/{id}", h.UpdateEvent)
	r.Delete("/events/{id}", h.DeleteEvent)
}

// CreateEventRequest represents the event creation body.
// requiredBloodGroups stays raw so a wrong type gets its own message
// instead of a generic decode failure.
type CreateEventRequest struct {
	Title               string          `json:"title" validate:"required"`
	Description         string          `json:"description"`
	Location            string          `json:"location" validate:"required"`
	City                string          `json:"city" validate:"required"`
	Date                string          `json:"date" validate:"required"`
	Time                string          `json:"time" validate:"required"`
	Organizer           string          `json:"organizer" validate:"required"`
	ContactNumber       string          `json:"contactNumber" validate:"required"`
	RequiredBloodGroups json.RawMessage `json:"requiredBloodGroups"`
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.PrincipalFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "Invalid date")
		return
	}

	bloodGroups, ok := decodeBloodGroups(req.RequiredBloodGroups)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "requiredBloodGroups must be an array of strings")
		return
	}

	event, err := h.service.CreateEvent(r.Context(), CreateEventInput{
		Title:               strings.TrimSpace(req.Title),
		Description:         strings.TrimSpace(req.Description),
		Location:            strings.TrimSpace(req.Location),
		City:                strings.TrimSpace(req.City),
		Date:                date,
		Time:                strings.TrimSpace(req.Time),
		Organizer:           strings.TrimSpace(req.Organizer),
		ContactNumber:       strings.TrimSpace(req.ContactNumber),
		RequiredBloodGroups: bloodGroups,
	}, principal.ID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event created successfully",
		"event":   event,
	})
}

// ListEvents handles GET /events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// GetEvent handles GET /events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"event": event})
}

// UpdateEvent handles PUT /events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(payload) == 0 {
		httputil.Error(w, http.StatusBadRequest, "At least one field is required for update")
		return
	}

	for key := range payload {
		if !eventUpdatableFields[key] {
			httputil.Error(w, http.StatusBadRequest, "Invalid fields in update payload")
			return
		}
	}

	var input UpdateEventInput

	if raw, exists := payload["requiredBloodGroups"]; exists {
		bloodGroups, ok := decodeBloodGroups(raw)
		if !ok {
			httputil.Error(w, http.StatusBadRequest, "requiredBloodGroups must be an array of strings")
			return
		}
		input.RequiredBloodGroups = &bloodGroups
	}

	if raw, exists := payload["date"]; exists {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			httputil.Error(w, http.StatusBadRequest, "Invalid date")
			return
		}
		parsed, ok := parseDate(value)
		if !ok {
			httputil.Error(w, http.StatusBadRequest, "Invalid date")
			return
		}
		input.Date = &parsed
	}

	for key, target := range map[string]**string{
		"title":         &input.Title,
		"description":   &input.Description,
		"location":      &input.Location,
		"city":          &input.City,
		"time":          &input.Time,
		"organizer":     &input.Organizer,
		"contactNumber": &input.ContactNumber,
	} {
		raw, exists := payload[key]
		if !exists {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			httputil.Error(w, http.StatusBadRequest, "Invalid fields in update payload")
			return
		}
		value = strings.TrimSpace(value)
		*target = &value
	}

	event, err := h.service.UpdateEvent(r.Context(), id, input)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// DeleteEvent handles DELETE /events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event deleted successfully",
	})
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrEventNotFound, Status: http.StatusNotFound},
}

// decodeBloodGroups unmarshals the requiredBloodGroups payload. Absent
// means an empty list; any non-string-array shape fails.
func decodeBloodGroups(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, true
	}

	var groups []string
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, false
	}

	for i, group := range groups {
		groups[i] = strings.TrimSpace(group)
	}
	return groups, true
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
