package model

import "time"

// User is the persisted credential record. It is never serialized outward;
// handlers only ever see the PublicUser projection.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the outward-facing projection of a User. Password hash and
// refresh token are omitted structurally, not stripped at encode time.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// UserPatch is the allow-list of profile fields a user may update about
// themselves. Password hash and refresh token are deliberately not here.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil
}

// TokenClaims is the decoded claim set of an access or refresh token.
type TokenClaims struct {
	UserID  string
	Type    string
	TokenID string
}

// Session is what the session endpoints return: the acting user's public
// profile plus the freshly issued token pair.
type Session struct {
	User         PublicUser `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}
