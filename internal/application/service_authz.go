package application

import (
	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// Authorize applies the single ownership rule used for every protected
// resource operation: admins may act on anything, everyone else only on
// resources they own.
func (s *Service) Authorize(resourceOwnerID uuid.UUID, claims ports.AuthClaims) bool {
	if claims.Role == domain.RoleAdmin {
		return true
	}
	return claims.UserID == resourceOwnerID
}

// authorizeRead denies access to a specific resource as ErrNotFound, so a
// caller probing foreign ids cannot tell a denied resource from a missing one.
func (s *Service) authorizeRead(resourceOwnerID uuid.UUID, claims ports.AuthClaims) error {
	if s.Authorize(resourceOwnerID, claims) {
		return nil
	}
	return domain.ErrNotFound
}

// authorizeAdmin gates listing and administrative operations, where denial is
// reported explicitly.
func (s *Service) authorizeAdmin(claims ports.AuthClaims) error {
	if claims.Role == domain.RoleAdmin {
		return nil
	}
	return domain.ErrForbidden
}
