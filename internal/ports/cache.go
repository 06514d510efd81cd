package ports

import (
	"context"
	"time"
)

// OAuthState is the short-lived envelope stored between the consent redirect
// and the provider callback.
type OAuthState struct {
	RedirectAfter string    `json:"redirect_after"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// OAuthStateStore holds one-time login states keyed by the state nonce.
// A nil result from Get means the state is unknown or already consumed.
type OAuthStateStore interface {
	Put(ctx context.Context, state string, value OAuthState, ttl time.Duration) error
	Get(ctx context.Context, state string) (*OAuthState, error)
	Delete(ctx context.Context, state string) error
}
