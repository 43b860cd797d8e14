package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

const refreshTokenCookie = "refreshToken"

type sessionService interface {
	Register(ctx context.Context, name string, email string, password string) (model.Session, error)
	Login(ctx context.Context, email string, password string) (model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (model.Session, []model.PublicStore, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, patch model.UserPatch) (model.PublicUser, error)
}

type AuthHandler struct {
	service    sessionService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthHandler(service sessionService, accessTTL time.Duration, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: service, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	session, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookies(w, session)
	writeData(w, http.StatusOK, "user registered successfully", session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookies(w, session)
	writeData(w, http.StatusOK, "user logged in successfully", session)
}

// Refresh reads the refresh token from the cookie, falling back to a bearer
// header for non-cookie clients.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	session, stores, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookies(w, session)
	writeData(w, http.StatusOK, "session refreshed successfully", map[string]any{
		"user":         session.User,
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"stores":       stores,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	if err := h.service.Logout(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}

	h.clearSessionCookies(w)
	writeData(w, http.StatusOK, "user logged out successfully", map[string]any{})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	var payload model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), user.ID, payload.OldPassword, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "password changed successfully", map[string]any{})
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	var patch model.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "user details updated successfully", updated)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	writeData(w, http.StatusOK, "user fetched successfully", user)
}

// Session cookies are httpOnly and secure, and SameSite=None so a cross-site
// frontend can use them.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, session model.Session) {
	http.SetCookie(w, sessionCookie(middleware.AccessTokenCookie, session.AccessToken, h.accessTTL))
	http.SetCookie(w, sessionCookie(refreshTokenCookie, session.RefreshToken, h.refreshTTL))
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(middleware.AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, sessionCookie(refreshTokenCookie, "", -time.Second))
}

func sessionCookie(name string, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if value == "" {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(refreshTokenCookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}
