package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService issues and validates the two signed credentials of the
// session protocol. Access and refresh tokens are signed with distinct
// secrets; verification is stateless. Whether a refresh token is still the
// *current* one for its user is the caller's concern (AuthService cross
// checks the stored slot).
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, tokenTypeAccess, s.accessTTL, s.accessSecret)
}

func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, tokenTypeRefresh, s.refreshTTL, s.refreshSecret)
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func (s *TokenService) ParseAccessToken(tokenString string) (*model.TokenClaims, error) {
	return s.parse(tokenString, tokenTypeAccess, s.accessSecret)
}

// ParseRefreshToken verifies signature and expiry before any use of the
// claims. Expiry and signature failures are not distinguishable to callers.
func (s *TokenService) ParseRefreshToken(tokenString string) (*model.TokenClaims, error) {
	return s.parse(tokenString, tokenTypeRefresh, s.refreshSecret)
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) sign(userID string, typ string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})

	return token.SignedString(secret)
}

func (s *TokenService) parse(tokenString string, expectedType string, secret []byte) (*model.TokenClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthorized("invalid token signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Unauthorized("invalid or expired token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorized("invalid token claims")
	}

	claims := &model.TokenClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Type, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.Type != expectedType {
		return nil, apierror.Unauthorized("invalid token type")
	}

	if claims.UserID == "" {
		return nil, apierror.Unauthorized("invalid token subject")
	}

	return claims, nil
}
