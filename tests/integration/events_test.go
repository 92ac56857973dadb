//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redveins/bloodlink/internal/testutil"
)

func TestEvents_PublicListing(t *testing.T) {
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Public Listing Drive")

	// Listing and detail are readable without any token.
	anon := newTestClient(t)

	resp, err := anon.GET("/events")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Events []struct {
			ID string `json:"id"`
		} `json:"events"`
	}
	testutil.DecodeJSON(t, resp, &listing)

	found := false
	for _, e := range listing.Events {
		if e.ID == eventID {
			found = true
		}
	}
	assert.True(t, found, "created event must appear in the public listing")

	resp, err = anon.GET("/events/" + eventID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Event struct {
			Title string `json:"title"`
		} `json:"event"`
	}
	testutil.DecodeJSON(t, resp, &detail)
	assert.Equal(t, "Public Listing Drive", detail.Event.Title)
}

func TestEvents_CreateRequiresAdmin(t *testing.T) {
	client := newTestClient(t)
	donor := signupDonor(t, client)

	resp, err := client.WithToken(donor.Token).POST("/events", eventPayload("Donor Attempt"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = newTestClient(t).POST("/events", eventPayload("Anonymous Attempt"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestEvents_CreateValidation(t *testing.T) {
	admin := adminClient(t)

	payload := eventPayload("Missing Fields Drive")
	delete(payload, "organizer")

	resp, err := admin.POST("/events", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", decodeMessage(t, resp))
}

func TestEvents_Update(t *testing.T) {
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Original Title")

	resp, err := admin.PUT("/events/"+eventID, map[string]interface{}{
		"title": "Updated Title",
		"city":  "Shelbyville",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		Event   struct {
			Title    string `json:"title"`
			City     string `json:"city"`
			Location string `json:"location"`
		} `json:"event"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "Event updated successfully", result.Message)
	assert.Equal(t, "Updated Title", result.Event.Title)
	assert.Equal(t, "Shelbyville", result.Event.City)
	assert.Equal(t, "Community Hall", result.Event.Location, "untouched field must survive")
}

func TestEvents_UpdateRejectsForeignFields(t *testing.T) {
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Strict Update Drive")

	resp, err := admin.PUT("/events/"+eventID, map[string]interface{}{
		"title":     "New Title",
		"createdBy": "someone-else",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid fields in update payload", decodeMessage(t, resp))
}

func TestEvents_UpdateEmptyBody(t *testing.T) {
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Empty Update Drive")

	resp, err := admin.PUT("/events/"+eventID, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "At least one field is required for update", decodeMessage(t, resp))
}

func TestEvents_GetUnknownID(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/events/00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Event not found", decodeMessage(t, resp))
}

func TestEvents_GetMalformedID(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/events/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid event id", decodeMessage(t, resp))
}

func TestEvents_Delete(t *testing.T) {
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Doomed Drive")

	resp, err := admin.DELETE("/events/" + eventID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Event deleted successfully", decodeMessage(t, resp))

	resp, err = admin.GET("/events/" + eventID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestEvents_DeleteLeavesRegistrations(t *testing.T) {
	// Event deletion must not cascade: registrations survive with a
	// detached event reference.
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Cancelled Drive")

	client := newTestClient(t)
	donor := signupDonor(t, client)
	authed := client.WithToken(donor.Token)

	resp, err := authed.POST("/registrations", map[string]string{"eventId": eventID})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.DELETE("/events/" + eventID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = authed.GET("/registrations/my")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Registrations []struct {
			EventID string      `json:"eventId"`
			Event   interface{} `json:"event"`
		} `json:"registrations"`
	}
	testutil.DecodeJSON(t, resp, &listing)
	require.Len(t, listing.Registrations, 1)
	assert.Equal(t, eventID, listing.Registrations[0].EventID)
	assert.Nil(t, listing.Registrations[0].Event, "deleted event must show as detached")
}
