package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"storefront-api/pkg/apierror"
)

func newTestAuthService() (*AuthService, *repository.MemoryUserRepository, *repository.MemoryStoreRepository) {
	users := repository.NewMemoryUserRepository()
	stores := repository.NewMemoryStoreRepository()
	tokens := newTestTokenService(15*time.Minute, 24*time.Hour)
	return NewAuthService(users, stores, tokens), users, stores
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "asha@example.com", session.User.Email)

	relogin, err := svc.Login(ctx, "asha@example.com", "pw12345")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, relogin.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@x.com", "pw")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Register(ctx, "A", "a@x.com", "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "dup@example.com", "pw12345")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "B", "DUP@example.com", "pw67890")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

// Unknown email and wrong password are deliberately distinguishable: 404 vs 401.
func TestLoginFailureModes(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "pw12345")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestPasswordNeverStoredPlain(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	stored, err := users.FindByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw12345", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	first, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	second, _, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token is rejected even though it has not expired.
	_, _, err = svc.Refresh(ctx, first.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	// The newest token still works.
	_, _, err = svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshReturnsOwnedStoresWithoutOwner(t *testing.T) {
	svc, _, stores := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, stores.Create(ctx, model.Store{
		ID: "store-1", PublicID: 42, Name: "Corner Shop", Address: "1 Main St",
		Contact: "555-0100", IsActive: true, OwnerID: session.User.ID,
		CreatedAt: now, UpdatedAt: now,
	}))

	_, owned, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Corner Shop", owned[0].Name)
}

func TestRefreshRejectsForgedAndStaleInput(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	// A structurally valid refresh token whose user has an empty slot.
	require.NoError(t, users.UpdateRefreshToken(ctx, session.User.ID, ""))
	_, _, err = svc.Refresh(ctx, session.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLogoutClearsRefreshSlot(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.User.ID))

	stored, err := users.FindByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	_, _, err = svc.Refresh(ctx, session.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLogoutUnknownUserIsNotFound(t *testing.T) {
	svc, _, _ := newTestAuthService()

	err := svc.Logout(context.Background(), "ghost")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestChangePasswordKeepsSessionAlive(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, session.User.ID, "wrong", "newpw123")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	require.NoError(t, svc.ChangePassword(ctx, session.User.ID, "pw12345", "newpw123"))

	// Old password no longer verifies; the refresh token survives the change.
	_, err = svc.Login(ctx, "asha@example.com", "pw12345")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	stored, err := users.FindByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, session.RefreshToken, stored.RefreshToken)

	_, err = svc.Login(ctx, "asha@example.com", "newpw123")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	a, err := svc.Register(ctx, "Asha", "asha@example.com", "pw12345")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Ben", "ben@example.com", "pw67890")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, a.User.ID, model.UserPatch{})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	taken := "ben@example.com"
	_, err = svc.UpdateProfile(ctx, a.User.ID, model.UserPatch{Email: &taken})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	name := "Asha K"
	updated, err := svc.UpdateProfile(ctx, a.User.ID, model.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)
}

func TestVerifyPasswordNeverErrors(t *testing.T) {
	user := model.User{PasswordHash: "not even a bcrypt hash"}
	assert.False(t, verifyPassword(user, "anything"))
}
