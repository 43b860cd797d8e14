package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

const bcryptCost = 12

// UserRepo is the persistence surface AuthService needs from the user store.
type UserRepo interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateRefreshToken(ctx context.Context, userID string, token string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	UpdateProfile(ctx context.Context, userID string, patch model.UserPatch) (model.User, error)
}

// StoreLister is the slice of the store repository the refresh response needs.
type StoreLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Store, error)
}

// AuthService owns the credential store and the session protocol: it is the
// only component that reads or writes the per-user refresh token slot.
type AuthService struct {
	users  UserRepo
	stores StoreLister
	tokens *TokenService
}

func NewAuthService(users UserRepo, stores StoreLister, tokens *TokenService) *AuthService {
	return &AuthService{users: users, stores: stores, tokens: tokens}
}

// Register creates the user and immediately logs them in: the returned
// session carries a fresh access/refresh pair and the refresh token is
// already persisted on the new record.
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (model.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return model.Session{}, apierror.BadRequest("name, email and password are required")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.Session{}, err
	}
	if exists {
		return model.Session{}, apierror.Conflict("user already exists with this email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.Session{}, err
	}

	return s.issueSession(ctx, user)
}

// Login verifies credentials and rotates the stored refresh token. An
// unknown email is NotFound while a wrong password is Unauthorized; the two
// are deliberately distinguishable.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.Session{}, apierror.BadRequest("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return model.Session{}, err
	}

	if !verifyPassword(user, password) {
		return model.Session{}, apierror.Unauthorized("incorrect credentials")
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a valid refresh token for a brand-new pair. The token
// must carry a valid signature, be unexpired, and equal the single value
// currently stored on the user; anything else is Unauthorized. Alongside the
// new session it returns the stores the user owns, owner field stripped.
//
// Concurrent refreshes for the same user race on the stored slot with
// last-write-wins semantics: whichever rotation lands last holds the only
// refresh token that will be accepted next.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.Session, []model.PublicStore, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return model.Session{}, nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.Session{}, nil, apierror.Unauthorized("unauthorized request")
	}

	// Rotation check: an older token is rejected even if unexpired.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return model.Session{}, nil, apierror.Unauthorized("refresh token is no longer valid")
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return model.Session{}, nil, err
	}

	owned, err := s.stores.ListByOwner(ctx, user.ID)
	if err != nil {
		return model.Session{}, nil, err
	}

	stores := make([]model.PublicStore, 0, len(owned))
	for _, st := range owned {
		stores = append(stores, st.Public())
	}

	return session, stores, nil
}

// Logout clears the stored refresh token. Already-issued access tokens stay
// valid until they expire; only refresh is cut off.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	return s.users.UpdateRefreshToken(ctx, userID, "")
}

// ChangePassword re-hashes and persists the new password after verifying the
// old one. The refresh token slot is left untouched, so existing sessions
// survive a password change.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apierror.BadRequest("old and new passwords are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !verifyPassword(user, oldPassword) {
		return apierror.Unauthorized("incorrect credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// UpdateProfile applies the allow-listed patch to the acting user. A changed
// email is re-checked for uniqueness.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch model.UserPatch) (model.PublicUser, error) {
	if patch.Empty() {
		return model.PublicUser{}, apierror.BadRequest("nothing to update")
	}

	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		if trimmed == "" {
			return model.PublicUser{}, apierror.BadRequest("email cannot be empty")
		}
		patch.Email = &trimmed

		current, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return model.PublicUser{}, err
		}

		if !strings.EqualFold(current.Email, trimmed) {
			exists, err := s.users.ExistsByEmail(ctx, trimmed)
			if err != nil {
				return model.PublicUser{}, err
			}
			if exists {
				return model.PublicUser{}, apierror.Conflict("user already exists with this email")
			}
		}
	}

	updated, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return model.PublicUser{}, err
	}

	return updated.Public(), nil
}

// issueSession mints a new access/refresh pair and persists the refresh
// token, invalidating whatever was stored before.
func (s *AuthService) issueSession(ctx context.Context, user model.User) (model.Session, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return model.Session{}, err
	}

	return model.Session{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// verifyPassword never errors on mismatch, it only reports false.
func verifyPassword(user model.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}
