package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
	"golang.org/x/oauth2"
)

// delegatedSource is a cached, refresh-capable token source for one user.
// seed records the stored pair the source was built from so a relink (which
// changes the stored pair) forces a rebuild on the next request.
type delegatedSource struct {
	seed domain.TokenPair
	src  oauth2.TokenSource
}

// ValidAccessToken returns a fresh delegated access token for the user,
// refreshing through the provider when the cached one is no longer valid.
// Users without a stored pair fail before any network traffic.
func (s *Service) ValidAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	src, err := s.DelegatedTokenSource(ctx, userID)
	if err != nil {
		return "", err
	}
	tok, err := src.Token()
	if err != nil {
		return "", wrapProviderError(err)
	}
	return tok.AccessToken, nil
}

// DelegatedTokenSource returns the refresh-capable source for the user's
// stored pair. Sources are cached per user; the provider remains the
// authority on access-token freshness since no expiry is stored locally.
func (s *Service) DelegatedTokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error) {
	if s.google == nil {
		return nil, domain.ErrGoogleNotConfigured
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.GoogleLinked() {
		return nil, domain.ErrCalendarNotLinked
	}

	pair := domain.TokenPair{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
	}

	s.srcMu.Lock()
	defer s.srcMu.Unlock()
	if cached, ok := s.sources[userID]; ok && cached.seed == pair {
		return cached.src, nil
	}

	entry := &delegatedSource{seed: pair}
	entry.src = &rotationNotifyingSource{
		inner:      s.google.TokenSource(ctx, pair.AccessToken, pair.RefreshToken),
		lastAccess: pair.AccessToken,
		onRotate: func(tok *oauth2.Token) {
			s.persistRotatedToken(userID, entry, tok)
		},
	}
	s.sources[userID] = entry
	return entry.src, nil
}

// persistRotatedToken stores a provider-rotated token pair. The write is a
// single statement over both columns, and the repository retains the previous
// refresh token when the rotation response omitted one. Failures are logged
// and swallowed: the in-flight delegated call already holds a valid token and
// must not be aborted by a bookkeeping miss.
func (s *Service) persistRotatedToken(userID uuid.UUID, entry *delegatedSource, tok *oauth2.Token) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.users.UpdateGoogleTokens(ctx, userID, tok.AccessToken, tok.RefreshToken, s.nowFn()); err != nil {
		slog.Default().WarnContext(ctx, "failed to persist rotated google tokens",
			"module", "application",
			"operation", "persist_rotated_token",
			"outcome", "failure",
			"user_id", userID.String(),
			"error", err,
		)
		return
	}

	s.srcMu.Lock()
	entry.seed.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		entry.seed.RefreshToken = tok.RefreshToken
	}
	s.srcMu.Unlock()

	slog.Default().InfoContext(ctx, "rotated google tokens persisted",
		"module", "application",
		"operation", "persist_rotated_token",
		"outcome", "success",
		"user_id", userID.String(),
	)
}

// invalidateDelegatedSource drops the cached source after a relink so the
// next delegated call is built from the freshly stored pair.
func (s *Service) invalidateDelegatedSource(userID uuid.UUID) {
	s.srcMu.Lock()
	delete(s.sources, userID)
	s.srcMu.Unlock()
}

// rotationNotifyingSource calls onRotate whenever the underlying source hands
// back an access token different from the last one it observed. This is the
// synchronous counterpart of the provider client's token-renewal callback.
type rotationNotifyingSource struct {
	inner    oauth2.TokenSource
	onRotate func(tok *oauth2.Token)

	mu         sync.Mutex
	lastAccess string
}

func (r *rotationNotifyingSource) Token() (*oauth2.Token, error) {
	tok, err := r.inner.Token()
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	rotated := tok.AccessToken != r.lastAccess
	if rotated {
		r.lastAccess = tok.AccessToken
	}
	r.mu.Unlock()
	if rotated {
		r.onRotate(tok)
	}
	return tok, nil
}

// wrapProviderError maps provider-side rejections of a delegated call. Stored
// tokens are deliberately left in place; clearing them is a linking decision,
// not a call-failure one.
func wrapProviderError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrCalendarCallFailed, err)
}
