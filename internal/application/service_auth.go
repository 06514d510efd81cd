package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// VerifyCredentials checks a local email/password pair. The failure shape is
// identical whether the email is unknown, the password is wrong, or the
// account has no local password at all: every wrong path runs one bcrypt
// comparison and returns ErrInvalidCredentials.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a comparison so unknown emails cost the same as bad passwords.
			_ = s.hasher.Compare(dummyHash, password)
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !user.HasPassword() {
		_ = s.hasher.Compare(dummyHash, password)
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// dummyHash is a bcrypt digest of an unguessable throwaway value, used only to
// equalize timing on failed lookups.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Login authenticates a local credential pair and issues a session credential.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.VerifyCredentials(ctx, req.Email, req.Password)
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

// IssueSession signs a stateless session credential for the given user.
// Claims are fixed at signing time; rotating the signing secret invalidates
// every outstanding credential.
func (s *Service) IssueSession(user domain.User) (string, error) {
	now := s.nowFn()
	token, err := s.signer.Sign(ports.AuthClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// ValidateToken decodes and validates a presented bearer credential.
func (s *Service) ValidateToken(_ context.Context, raw string) (ports.AuthClaims, error) {
	claims, err := s.signer.ParseAndValidate(raw)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}
