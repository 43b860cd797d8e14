//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	server := newTestServer(t)

	registered := registerUser(t, server, "Asha", "asha@example.com", "pw12345")

	// Registration issues a working session immediately.
	meResp := get(t, server.URL+"/api/v1/auth/me", registered.AccessToken)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	// Login rotates the single refresh slot, invalidating the registration
	// refresh token.
	loginResp := postJSON(t, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "asha@example.com", "password": "pw12345",
	})
	defer loginResp.Body.Close()
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var loggedIn session
	decodeData(t, loginResp, &loggedIn)
	require.NotEqual(t, registered.RefreshToken, loggedIn.RefreshToken)

	staleResp := postJSON(t, server.URL+"/api/v1/auth/refresh", registered.RefreshToken, nil)
	defer staleResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, staleResp.StatusCode)

	// The current refresh token works and returns the owned stores list.
	refreshResp := postJSON(t, server.URL+"/api/v1/auth/refresh", loggedIn.RefreshToken, nil)
	defer refreshResp.Body.Close()
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)

	var refreshed struct {
		session
		Stores []json.RawMessage `json:"stores"`
	}
	decodeData(t, refreshResp, &refreshed)
	require.NotEmpty(t, refreshed.RefreshToken)
	assert.Empty(t, refreshed.Stores)

	// Access tokens are not revoked by rotation; the registration access
	// token keeps working until it expires.
	oldMeResp := get(t, server.URL+"/api/v1/auth/me", registered.AccessToken)
	defer oldMeResp.Body.Close()
	assert.Equal(t, http.StatusOK, oldMeResp.StatusCode)

	// Logout clears the slot; no refresh token works afterwards.
	logoutResp := postJSON(t, server.URL+"/api/v1/auth/logout", refreshed.AccessToken, nil)
	defer logoutResp.Body.Close()
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	afterLogoutResp := postJSON(t, server.URL+"/api/v1/auth/refresh", refreshed.RefreshToken, nil)
	defer afterLogoutResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, afterLogoutResp.StatusCode)
}

func TestSessionCookiesAreSet(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "pw12345",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	byName := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		byName[c.Name] = c
	}

	for _, name := range []string{"accessToken", "refreshToken"} {
		c, ok := byName[name]
		require.True(t, ok, "cookie %s missing", name)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	}
}

func TestLoginErrorTaxonomy(t *testing.T) {
	server := newTestServer(t)

	registerUser(t, server, "Asha", "asha@example.com", "pw12345")

	unknownResp := postJSON(t, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "pw12345",
	})
	defer unknownResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, unknownResp.StatusCode)

	wrongResp := postJSON(t, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "asha@example.com", "password": "wrong",
	})
	defer wrongResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)

	dupResp := postJSON(t, server.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Imposter", "email": "asha@example.com", "password": "pw99999",
	})
	defer dupResp.Body.Close()
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)
}

func TestRefreshWithoutTokenIsUnauthorized(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/refresh", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
