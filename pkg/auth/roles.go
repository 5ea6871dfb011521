package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/ex9/authservice/pkg/logger"
)

// UserRoles is the role listing for one user.
type UserRoles struct {
	Login string
	Roles []string
}

// RoleService reads and mutates role assignments. Both operations
// evaluate the authorization gate before any existence lookup, so a
// denied caller learns nothing about which logins exist.
type RoleService struct {
	storage Storage
	logger  *slog.Logger
}

// RoleOption configures a RoleService.
type RoleOption func(*RoleService)

// WithRoleLogger sets a custom logger for the service.
func WithRoleLogger(l *slog.Logger) RoleOption {
	return func(s *RoleService) {
		s.logger = l
	}
}

// NewRoleService creates the role management service.
func NewRoleService(storage Storage, opts ...RoleOption) *RoleService {
	s := &RoleService{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRoles returns the target user's role listing. Allowed for ADMIN or
// for the user themselves; ErrUserNotFound only after the gate passes.
func (s *RoleService) GetRoles(ctx context.Context, principal Principal, targetLogin string) (UserRoles, error) {
	if err := AuthorizeUserAccess(principal, targetLogin); err != nil {
		return UserRoles{}, err
	}

	identity, err := s.storage.FindIdentityByLogin(ctx, targetLogin)
	if err != nil {
		return UserRoles{}, err
	}

	return UserRoles{
		Login: identity.Login,
		Roles: slices.Clone(identity.Roles),
	}, nil
}

// SetRoles replaces the target user's role assignments. ADMIN only;
// every referenced role must exist (ErrRoleNotFound otherwise, since
// roles are reference data and are never auto-created).
func (s *RoleService) SetRoles(ctx context.Context, principal Principal, targetLogin string, roleIDs []string) error {
	if err := AuthorizeRoleMutation(principal); err != nil {
		return err
	}

	identity, err := s.storage.FindIdentityByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	roles := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		role, err := s.storage.FindRoleByID(ctx, id)
		if err != nil {
			return err
		}
		roles = append(roles, role.ID)
	}

	identity.Roles = roles
	if err := s.storage.SaveIdentity(ctx, identity); err != nil {
		return fmt.Errorf("failed to save roles: %w", err)
	}

	s.logger.InfoContext(ctx, "roles updated",
		logger.UserLogin(targetLogin),
		slog.Any("roles", roles),
		logger.Component("roles"),
	)
	return nil
}
