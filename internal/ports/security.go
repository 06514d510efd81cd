package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthClaims is the decoded content of a session credential. Claims are frozen
// at issuance; a later role change on the user does not alter tokens already
// in flight, which stay valid until expiry.
type AuthClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(token string) (AuthClaims, error)
}

// FederatedProfile is the authenticated identity and delegated credential set
// returned by a completed authorization-code exchange.
type FederatedProfile struct {
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
}

// GoogleProvider is the OAuth2 collaborator for federated login and delegated
// calendar access. Implementations exist only when client id, client secret,
// and redirect URI are all configured; the application layer treats a nil
// provider as "not configured" and fails fast.
type GoogleProvider interface {
	// AuthCodeURL builds the consent redirect carrying the anti-CSRF state.
	AuthCodeURL(state string) string
	// Exchange redeems an authorization code and verifies the returned
	// identity. Any failure means no authenticated profile exists.
	Exchange(ctx context.Context, code string) (FederatedProfile, error)
	// TokenSource wraps a stored token pair in a source that refreshes
	// through the provider when the access token is no longer fresh.
	TokenSource(ctx context.Context, accessToken, refreshToken string) oauth2.TokenSource
}
