package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

type fakeParser struct {
	claims map[string]*model.TokenClaims
}

func (p *fakeParser) ParseAccessToken(token string) (*model.TokenClaims, error) {
	claims, ok := p.claims[token]
	if !ok {
		return nil, apierror.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

type fakeUsers struct {
	users map[string]model.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("user not found")
	}
	return u, nil
}

type fakeStores struct {
	stores map[string]model.Store
}

func (f *fakeStores) FindByID(_ context.Context, id string) (model.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return model.Store{}, apierror.NotFound("store not found")
	}
	return s, nil
}

func newTestMiddleware() *AuthMiddleware {
	return NewAuthMiddleware(
		&fakeParser{claims: map[string]*model.TokenClaims{
			"good-token": {UserID: "u1", Type: "access"},
		}},
		&fakeUsers{users: map[string]model.User{
			"u1": {ID: "u1", Name: "Asha", Email: "asha@example.com", PasswordHash: "hash"},
		}},
		&fakeStores{stores: map[string]model.Store{
			"s1": {ID: "s1", PublicID: 42, Name: "Corner Shop", OwnerID: "u1", IsActive: true},
			"s2": {ID: "s2", PublicID: 43, Name: "Other Shop", OwnerID: "u2", IsActive: true},
		}},
	)
}

func authedHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "u1", user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthMissingToken(t *testing.T) {
	mw := newTestMiddleware()
	handler := mw.RequireAuth(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthBearerHeader(t *testing.T) {
	mw := newTestMiddleware()
	handler := mw.RequireAuth(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthCookieTakesPrecedence(t *testing.T) {
	mw := newTestMiddleware()
	handler := mw.RequireAuth(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good-token"})
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	mw := newTestMiddleware()
	handler := mw.RequireAuth(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func storeRequest(t *testing.T, mw *AuthMiddleware, storeID string, ownerGate bool) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, ok := StoreFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, storeID, store.ID)
		w.WriteHeader(http.StatusOK)
	})

	r := chi.NewRouter()
	gate := mw.RequireStore
	if ownerGate {
		gate = mw.RequireStoreOwner
	}
	r.With(mw.RequireAuth, gate).Get("/stores/{storeID}", inner.ServeHTTP)

	req := httptest.NewRequest(http.MethodGet, "/stores/"+storeID, nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireStoreOwner(t *testing.T) {
	mw := newTestMiddleware()

	// Own store passes the ownership gate.
	assert.Equal(t, http.StatusOK, storeRequest(t, mw, "s1", true).Code)

	// Someone else's store is Forbidden, not NotFound.
	assert.Equal(t, http.StatusForbidden, storeRequest(t, mw, "s2", true).Code)

	// Missing store is NotFound.
	assert.Equal(t, http.StatusNotFound, storeRequest(t, mw, "nope", true).Code)
}

func TestRequireStoreWithoutOwnership(t *testing.T) {
	mw := newTestMiddleware()

	// The non-owner gate attaches any existing store.
	assert.Equal(t, http.StatusOK, storeRequest(t, mw, "s2", false).Code)
}
