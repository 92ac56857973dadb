//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redveins/bloodlink/internal/testutil"
)

func TestAdminLogin_RejectsDonorCredentials(t *testing.T) {
	client := newTestClient(t)

	email := randomEmail("donor-admin")
	resp, err := client.POST("/auth/signup", signupPayload(email))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Valid donor credentials at the admin door: same message as garbage
	// credentials, the response must not confirm the account exists.
	resp, err = client.POST("/admin/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid admin credentials", decodeMessage(t, resp))
}

func TestAdminLogin_Succeeds(t *testing.T) {
	client := newTestClient(t)
	email, password := createAdmin(t, client)

	resp, err := client.POST("/admin/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		Admin   struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"admin"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "Admin login successful", result.Message)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, email, result.Admin.Email)
	assert.Equal(t, "admin", result.Admin.Role)
}

func TestAdminProfile(t *testing.T) {
	admin := adminClient(t)

	resp, err := admin.GET("/admin/profile")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Admin struct {
			Role string `json:"role"`
		} `json:"admin"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "admin", result.Admin.Role)
}

func TestAdminStats_CountsGrow(t *testing.T) {
	admin := adminClient(t)

	resp, err := admin.GET("/admin/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var before struct {
		TotalUsers         int `json:"totalUsers"`
		TotalEvents        int `json:"totalEvents"`
		TotalRegistrations int `json:"totalRegistrations"`
	}
	testutil.DecodeJSON(t, resp, &before)

	eventID := createTestEvent(t, admin, "Stats Drive")
	client := newTestClient(t)
	donor := signupDonor(t, client)

	resp, err = client.WithToken(donor.Token).POST("/registrations", map[string]string{"eventId": eventID})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.GET("/admin/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after struct {
		TotalUsers         int `json:"totalUsers"`
		TotalEvents        int `json:"totalEvents"`
		TotalRegistrations int `json:"totalRegistrations"`
	}
	testutil.DecodeJSON(t, resp, &after)

	assert.GreaterOrEqual(t, after.TotalUsers, before.TotalUsers+1)
	assert.GreaterOrEqual(t, after.TotalEvents, before.TotalEvents+1)
	assert.GreaterOrEqual(t, after.TotalRegistrations, before.TotalRegistrations+1)
}

func TestAdminUsers_ListNeverLeaksHashes(t *testing.T) {
	admin := adminClient(t)
	client := newTestClient(t)
	signupDonor(t, client)

	resp, err := admin.GET("/admin/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := testutil.ReadBody(t, resp)
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "$2a$")
}

func TestAdminDeleteUser(t *testing.T) {
	admin := adminClient(t)
	client := newTestClient(t)
	donor := signupDonor(t, client)

	resp, err := admin.DELETE("/admin/users/" + donor.User.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		User    struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "User deleted successfully", result.Message)
	assert.Equal(t, donor.User.ID, result.User.ID)

	resp, err = admin.DELETE("/admin/users/" + donor.User.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", decodeMessage(t, resp))
}

func TestAdminDeleteUser_MalformedID(t *testing.T) {
	admin := adminClient(t)

	resp, err := admin.DELETE("/admin/users/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user id", decodeMessage(t, resp))
}

func TestAdminDeleteUser_LeavesRegistrations(t *testing.T) {
	// User deletion must not cascade: the registration stays, with a
	// detached registrant in the admin listing.
	admin := adminClient(t)
	eventID := createTestEvent(t, admin, "Orphaned Registrant Drive")

	client := newTestClient(t)
	donor := signupDonor(t, client)

	resp, err := client.WithToken(donor.Token).POST("/registrations", map[string]string{"eventId": eventID})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.DELETE("/admin/users/" + donor.User.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.GET("/registrations")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Registrations []struct {
			EventID string      `json:"eventId"`
			User    interface{} `json:"user"`
		} `json:"registrations"`
	}
	testutil.DecodeJSON(t, resp, &listing)

	found := false
	for _, reg := range listing.Registrations {
		if reg.EventID == eventID {
			found = true
			assert.Nil(t, reg.User, "deleted registrant must show as detached")
		}
	}
	assert.True(t, found, "registration must survive user deletion")
}

func TestAdminEndpoints_DonorForbidden(t *testing.T) {
	client := newTestClient(t)
	donor := signupDonor(t, client)
	authed := client.WithToken(donor.Token)

	for _, path := range []string{"/admin/profile", "/admin/stats", "/admin/users"} {
		resp, err := authed.GET(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "path %s", path)
		_ = resp.Body.Close()
	}
}
