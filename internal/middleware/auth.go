package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

// AccessTokenCookie is where session endpoints place the access token; the
// bearer header is the fallback for non-cookie clients.
const AccessTokenCookie = "accessToken"

type accessTokenParser interface {
	ParseAccessToken(tokenString string) (*model.TokenClaims, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id string) (model.Store, error)
}

type contextKey string

const (
	userContextKey  contextKey = "acting_user"
	storeContextKey contextKey = "target_store"
)

// AuthMiddleware is the two-stage request pipeline: identity resolution from
// the access token, then store resolution with optional ownership
// enforcement. Any failing stage short-circuits before the handler.
type AuthMiddleware struct {
	tokens accessTokenParser
	users  userFinder
	stores storeFinder
}

func NewAuthMiddleware(tokens accessTokenParser, users userFinder, stores storeFinder) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, stores: stores}
}

// RequireAuth resolves the acting identity. The cookie takes precedence over
// the Authorization header.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r, AccessTokenCookie)
		if token == "" {
			writeAPIError(w, apierror.Unauthorized("missing access token"))
			return
		}

		claims, err := m.tokens.ParseAccessToken(token)
		if err != nil {
			writeAPIError(w, apierror.Unauthorized("invalid or expired token"))
			return
		}

		user, err := m.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			writeAPIError(w, apierror.Unauthorized("unauthorized request"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user.Public())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStore resolves the {storeID} route parameter and attaches the store
// without checking ownership.
func (m *AuthMiddleware) RequireStore(next http.Handler) http.Handler {
	return m.resolveStore(next, false)
}

// RequireStoreOwner resolves the store and additionally rejects callers who
// are not its owner. Must run after RequireAuth.
func (m *AuthMiddleware) RequireStoreOwner(next http.Handler) http.Handler {
	return m.resolveStore(next, true)
}

func (m *AuthMiddleware) resolveStore(next http.Handler, enforceOwner bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
		if storeID == "" {
			writeAPIError(w, apierror.BadRequest("store id is required"))
			return
		}

		store, err := m.stores.FindByID(r.Context(), storeID)
		if err != nil {
			writeAPIError(w, apierror.NotFound("store not found"))
			return
		}

		if enforceOwner {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAPIError(w, apierror.Unauthorized("authentication required"))
				return
			}

			if store.OwnerID != user.ID {
				writeAPIError(w, apierror.Forbidden("you do not own this store"))
				return
			}
		}

		ctx := context.WithValue(r.Context(), storeContextKey, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (model.PublicUser, bool) {
	user, ok := ctx.Value(userContextKey).(model.PublicUser)
	return user, ok
}

func StoreFromContext(ctx context.Context) (model.Store, bool) {
	store, ok := ctx.Value(storeContextKey).(model.Store)
	return store, ok
}

// extractToken prefers the named cookie and falls back to a bearer header.
func extractToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

func writeAPIError(w http.ResponseWriter, apiErr *apierror.APIError) {
	writeEnvelope(w, apiErr.StatusCode, apiErr.Message)
}
