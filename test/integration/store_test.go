//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/model"
)

func TestStoreOwnershipEnforcement(t *testing.T) {
	server := newTestServer(t)

	owner := registerUser(t, server, "Asha", "asha@example.com", "pw12345")
	other := registerUser(t, server, "Ben", "ben@example.com", "pw67890")

	store := createStore(t, server, owner.AccessToken, "Corner Shop")
	storeURL := server.URL + "/api/v1/stores/" + store.ID

	// Any authenticated user may read a store.
	readResp := get(t, storeURL, other.AccessToken)
	defer readResp.Body.Close()
	assert.Equal(t, http.StatusOK, readResp.StatusCode)

	// Mutations require ownership.
	patchResp := doJSON(t, http.MethodPatch, storeURL, other.AccessToken, map[string]string{"name": "Hijacked"})
	defer patchResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, patchResp.StatusCode)

	closeResp := postJSON(t, storeURL+"/close", other.AccessToken, nil)
	defer closeResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, closeResp.StatusCode)

	itemResp := postJSON(t, storeURL+"/items", other.AccessToken, map[string]any{
		"name": "Chai", "priceCents": 250,
	})
	defer itemResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, itemResp.StatusCode)

	// The owner's own mutation goes through.
	ownPatchResp := doJSON(t, http.MethodPatch, storeURL, owner.AccessToken, map[string]string{"name": "Renamed Shop"})
	defer ownPatchResp.Body.Close()
	require.Equal(t, http.StatusOK, ownPatchResp.StatusCode)

	var renamed model.Store
	decodeData(t, ownPatchResp, &renamed)
	assert.Equal(t, "Renamed Shop", renamed.Name)
}

func TestCloseAndReopenStore(t *testing.T) {
	server := newTestServer(t)

	owner := registerUser(t, server, "Asha", "asha@example.com", "pw12345")
	store := createStore(t, server, owner.AccessToken, "Corner Shop")
	storeURL := server.URL + "/api/v1/stores/" + store.ID

	closeResp := postJSON(t, storeURL+"/close", owner.AccessToken, nil)
	defer closeResp.Body.Close()
	require.Equal(t, http.StatusOK, closeResp.StatusCode)

	// Closing an already closed store is an input error, not idempotent.
	againResp := postJSON(t, storeURL+"/close", owner.AccessToken, nil)
	defer againResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, againResp.StatusCode)

	reopenResp := postJSON(t, storeURL+"/reopen", owner.AccessToken, nil)
	defer reopenResp.Body.Close()
	require.Equal(t, http.StatusOK, reopenResp.StatusCode)
}

func TestPublicStorefrontView(t *testing.T) {
	server := newTestServer(t)

	owner := registerUser(t, server, "Asha", "asha@example.com", "pw12345")
	store := createStore(t, server, owner.AccessToken, "Corner Shop")
	itemsURL := server.URL + "/api/v1/stores/" + store.ID + "/items"

	chaiResp := postJSON(t, itemsURL, owner.AccessToken, map[string]any{
		"name": "Chai", "priceCents": 250,
	})
	defer chaiResp.Body.Close()
	require.Equal(t, http.StatusCreated, chaiResp.StatusCode)

	var hidden model.Item
	samosaResp := postJSON(t, itemsURL, owner.AccessToken, map[string]any{
		"name": "Samosa", "priceCents": 150,
	})
	defer samosaResp.Body.Close()
	require.Equal(t, http.StatusCreated, samosaResp.StatusCode)
	decodeData(t, samosaResp, &hidden)

	offResp := doJSON(t, http.MethodPatch, itemsURL+"/"+hidden.ID, owner.AccessToken, map[string]any{
		"isAvailable": false,
	})
	defer offResp.Body.Close()
	require.Equal(t, http.StatusOK, offResp.StatusCode)

	// The storefront is public: no token, owner stripped, unavailable items
	// filtered out.
	viewURL := fmt.Sprintf("%s/api/v1/storefront/%d", server.URL, store.PublicID)
	viewResp := get(t, viewURL, "")
	defer viewResp.Body.Close()
	require.Equal(t, http.StatusOK, viewResp.StatusCode)

	var view struct {
		Store map[string]any   `json:"store"`
		Items []map[string]any `json:"items"`
	}
	decodeData(t, viewResp, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Chai", view.Items[0]["name"])
	assert.NotContains(t, view.Store, "owner")

	// A closed store disappears from the storefront.
	closeResp := postJSON(t, server.URL+"/api/v1/stores/"+store.ID+"/close", owner.AccessToken, nil)
	defer closeResp.Body.Close()
	require.Equal(t, http.StatusOK, closeResp.StatusCode)

	goneResp := get(t, viewURL, "")
	defer goneResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
}

func TestStoreEndpointsRequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server.URL+"/api/v1/stores", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
