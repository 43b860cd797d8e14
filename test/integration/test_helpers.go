//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	"storefront-api/internal/imagehost"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"storefront-api/internal/router"
	"storefront-api/internal/service"
)

// session mirrors the data payload of the register/login endpoints.
type session struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	stores := repository.NewMemoryStoreRepository()
	items := repository.NewMemoryItemRepository()

	tokenService := service.NewTokenService("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
	authService := service.NewAuthService(users, stores, tokenService)
	images := imagehost.NewMemoryHost()
	storeService := service.NewStoreService(stores, items, images, nil)
	itemService := service.NewItemService(items, images, nil)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, users, stores)

	cfg := &config.Config{
		RequestTimeout: 30 * time.Second,
		CORSOrigins:    []string{"*"},
	}

	server := httptest.NewServer(router.New(cfg, authMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService, tokenService.AccessTTL(), tokenService.RefreshTTL()),
		Store: handler.NewStoreHandler(storeService),
		Item:  handler.NewItemHandler(itemService, nil),
	}))
	t.Cleanup(server.Close)

	return server
}

func registerUser(t *testing.T, server *httptest.Server, name string, email string, password string) session {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s session
	decodeData(t, resp, &s)
	require.NotEmpty(t, s.AccessToken)
	require.NotEmpty(t, s.RefreshToken)
	return s
}

func postJSON(t *testing.T, url string, accessToken string, payload any) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, accessToken, payload)
}

func doJSON(t *testing.T, method string, url string, accessToken string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, url string, accessToken string) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodGet, url, accessToken, nil)
}

// decodeData unwraps the response envelope and decodes its data field.
func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		StatusCode int             `json:"statusCode"`
		Message    string          `json:"message"`
		Data       json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, resp.StatusCode, envelope.StatusCode)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func createStore(t *testing.T, server *httptest.Server, accessToken string, name string) model.Store {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/v1/stores", accessToken, map[string]string{
		"name": name, "address": "1 Main St", "contact": "555-0100",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var store model.Store
	decodeData(t, resp, &store)
	require.NotEmpty(t, store.ID)
	return store
}
