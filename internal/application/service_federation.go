package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// GoogleLoginURL starts the federated login flow: it mints a one-time state,
// stores it with a TTL, and returns the provider consent URL.
func (s *Service) GoogleLoginURL(ctx context.Context, redirectAfter string) (GoogleLoginStart, error) {
	if s.google == nil {
		return GoogleLoginStart{}, domain.ErrGoogleNotConfigured
	}

	state := randomHex(16)
	now := s.nowFn()
	if err := s.states.Put(ctx, state, ports.OAuthState{
		RedirectAfter: strings.TrimSpace(redirectAfter),
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.OAuthStateTTL),
	}, s.cfg.OAuthStateTTL); err != nil {
		return GoogleLoginStart{}, fmt.Errorf("store oauth state: %w", err)
	}

	return GoogleLoginStart{
		AuthorizeURL: s.google.AuthCodeURL(state),
		State:        state,
	}, nil
}

// CompleteGoogleLogin finishes the authorization-code flow: it validates the
// state, exchanges the code, resolves or creates the local identity, persists
// the delegated token pair, and issues a session credential.
//
// An existing identity keeps its role, name, and local password; only the
// token pair is updated. A failed or denied exchange mutates nothing.
func (s *Service) CompleteGoogleLogin(ctx context.Context, code, state string) (LoginResponse, error) {
	if s.google == nil {
		return LoginResponse{}, domain.ErrGoogleNotConfigured
	}
	if strings.TrimSpace(code) == "" || strings.TrimSpace(state) == "" {
		return LoginResponse{}, fmt.Errorf("%w: code and state are required", domain.ErrInvalidInput)
	}

	stored, err := s.states.Get(ctx, state)
	if err != nil {
		return LoginResponse{}, err
	}
	if stored == nil || stored.ExpiresAt.Before(s.nowFn()) {
		slog.Default().WarnContext(ctx, "google callback with unknown or expired state",
			"module", "application",
			"operation", "google_login",
			"outcome", "failure",
		)
		return LoginResponse{}, domain.ErrUnauthorized
	}
	_ = s.states.Delete(ctx, state)

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		slog.Default().WarnContext(ctx, "google code exchange failed",
			"module", "application",
			"operation", "google_login",
			"outcome", "failure",
			"error", err,
		)
		return LoginResponse{}, domain.ErrUnauthorized
	}

	user, err := s.linkFederatedProfile(ctx, profile)
	if err != nil {
		return LoginResponse{}, err
	}

	token, err := s.IssueSession(user)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
		User:      toUserView(user),
	}, nil
}

// linkFederatedProfile resolves the provider profile to a local identity.
// First sign-in creates the user with the default role and no local password;
// repeat sign-ins only replace the delegated token pair.
func (s *Service) linkFederatedProfile(ctx context.Context, profile ports.FederatedProfile) (domain.User, error) {
	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}

	now := s.nowFn()
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.UpdateGoogleTokens(ctx, user.UserID, profile.AccessToken, profile.RefreshToken, now); err != nil {
			return domain.User{}, fmt.Errorf("update google tokens: %w", err)
		}
		user.GoogleAccessToken = profile.AccessToken
		if profile.RefreshToken != "" {
			user.GoogleRefreshToken = profile.RefreshToken
		}
		s.invalidateDelegatedSource(user.UserID)
		slog.Default().InfoContext(ctx, "google identity relinked",
			"module", "application",
			"operation", "google_login",
			"outcome", "success",
			"user_id", user.UserID.String(),
		)
		return user, nil
	case errors.Is(err, domain.ErrNotFound):
		created, createErr := s.users.Create(ctx, ports.CreateUserParams{
			Name:               strings.TrimSpace(profile.Name),
			Email:              email,
			PasswordHash:       "",
			Role:               s.cfg.DefaultRole,
			GoogleAccessToken:  profile.AccessToken,
			GoogleRefreshToken: profile.RefreshToken,
			CreatedAtUTC:       now,
		})
		if createErr == nil {
			slog.Default().InfoContext(ctx, "google identity created new local user",
				"module", "application",
				"operation", "google_login",
				"outcome", "success",
				"user_id", created.UserID.String(),
			)
			return created, nil
		}
		// Lost a create race with a concurrent callback for the same email.
		if errors.Is(createErr, domain.ErrEmailTaken) {
			existing, getErr := s.users.GetByEmail(ctx, email)
			if getErr == nil {
				return existing, nil
			}
		}
		return domain.User{}, createErr
	default:
		return domain.User{}, err
	}
}
