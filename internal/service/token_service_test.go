package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(accessTTL time.Duration, refreshTTL time.Duration) *TokenService {
	return NewTokenService("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 24*time.Hour)

	token, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.NotEmpty(t, claims.TokenID)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	svc := newTestTokenService(-time.Minute, 24*time.Hour)

	token, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestTokenTypeEnforced(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 24*time.Hour)

	access, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken("user-1")
	require.NoError(t, err)

	// Each token only parses on its own path: the secrets and typ differ.
	_, err = svc.ParseRefreshToken(access)
	assert.Error(t, err)
	_, err = svc.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestTokenSignatureEnforced(t *testing.T) {
	issuer := newTestTokenService(15*time.Minute, 24*time.Hour)
	verifier := NewTokenService("other-access", "other-refresh", 15*time.Minute, 24*time.Hour)

	refresh, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	_, err = verifier.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 24*time.Hour)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ParseAccessToken(raw)
		assert.Error(t, err, "token %q", raw)
	}
}
