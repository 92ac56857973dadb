//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/redveins/bloodlink/internal/testutil"
)

// signupResult holds the relevant fields of a signup response.
type signupResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// randomEmail returns a unique email so tests never collide on the
// unique index.
func randomEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

// signupPayload returns a valid signup body with the given email.
func signupPayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":        "Test Donor",
		"email":       email,
		"password":    "password123",
		"phone":       "555-0101",
		"bloodGroup":  "O+",
		"dateOfBirth": "1990-04-12",
		"city":        "Springfield",
		"location":    "123 Main St",
	}
}

// signupDonor registers a fresh donor and returns the signup response.
func signupDonor(t *testing.T, client *testutil.Client) signupResult {
	t.Helper()

	resp, err := client.POST("/auth/signup", signupPayload(randomEmail("donor")))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result signupResult
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Token)
	return result
}

// createAdmin registers a fresh account and promotes it to admin by
// direct SQL, the only path that produces an admin role.
func createAdmin(t *testing.T, client *testutil.Client) (email, password string) {
	t.Helper()

	email = randomEmail("admin")
	password = "admin-password-1"

	payload := signupPayload(email)
	payload["password"] = password

	resp, err := client.POST("/auth/signup", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	tag, err := testDB.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE email = $1`, email)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())

	return email, password
}

// adminClient returns a client logged in as a freshly promoted admin.
func adminClient(t *testing.T) *testutil.Client {
	t.Helper()

	client := newTestClient(t)
	email, password := createAdmin(t, client)
	client.LoginAsAdmin(t, email, password)
	return client
}

// eventPayload returns a valid event creation body.
func eventPayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":               title,
		"description":         "Integration test drive",
		"location":            "Community Hall",
		"city":                "Springfield",
		"date":                "2026-10-10",
		"time":                "09:00 - 17:00",
		"organizer":           "Test Organizer",
		"contactNumber":       "555-0199",
		"requiredBloodGroups": []string{"O+", "O-"},
	}
}

// createTestEvent creates an event as admin and returns its id.
func createTestEvent(t *testing.T, admin *testutil.Client, title string) string {
	t.Helper()

	resp, err := admin.POST("/events", eventPayload(title))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Event struct {
			ID string `json:"id"`
		} `json:"event"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Event.ID)
	return result.Event.ID
}
