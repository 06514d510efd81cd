package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RoleNormal is the default role assigned on registration and federated sign-up.
	RoleNormal = "NORMAL"
	// RoleAdmin grants access to every user's resources and administrative listings.
	RoleAdmin = "ADMIN"
)

// User is the canonical identity aggregate.
// PasswordHash is empty for accounts created purely through Google sign-in;
// the Google token pair is present only once the account has been linked.
type User struct {
	UserID             uuid.UUID
	Name               string
	Email              string
	PasswordHash       string
	Role               string
	GoogleAccessToken  string
	GoogleRefreshToken string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasPassword reports whether the account carries a local credential.
// Federated-only accounts never set one, and that is a normal state.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// GoogleLinked reports whether a usable delegated token pair is stored.
// An access token without a refresh token cannot survive expiry, so both
// are required before any delegated call is attempted.
func (u User) GoogleLinked() bool {
	return u.GoogleAccessToken != "" && u.GoogleRefreshToken != ""
}

// IsAdmin reports whether the user holds the administrative role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TokenPair is a delegated access/refresh credential pair granted by Google.
// It is owned by exactly one user and mutated only through the token manager.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
