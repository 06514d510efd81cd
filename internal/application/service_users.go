package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// Register creates a local-credential identity. Duplicate emails surface as a
// conflict; the unique index on the store is the final authority so two
// concurrent registrations cannot both win.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (UserView, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return UserView{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return UserView{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return UserView{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         s.cfg.DefaultRole,
		CreatedAtUTC: s.nowFn(),
	})
	if err != nil {
		return UserView{}, err
	}
	return toUserView(user), nil
}

// GetUser returns one user. Non-admins asking about anyone but themselves get
// ErrNotFound rather than a denial.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID, claims ports.AuthClaims) (UserView, error) {
	if err := s.authorizeRead(userID, claims); err != nil {
		return UserView{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	return toUserView(user), nil
}

// ListUsers is an administrative listing; denial is an explicit Forbidden.
func (s *Service) ListUsers(ctx context.Context, claims ports.AuthClaims) ([]UserView, error) {
	if err := s.authorizeAdmin(claims); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views, nil
}

// DeleteUser removes an account. Self-deletion is allowed; deleting someone
// else requires the administrative role.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID, claims ports.AuthClaims) error {
	if err := s.authorizeRead(userID, claims); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.invalidateDelegatedSource(userID)
	return nil
}
