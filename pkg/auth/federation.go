package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ex9/authservice/pkg/jwt"
	"github.com/ex9/authservice/pkg/logger"
)

// FederationService maps a verified external-provider identity onto a
// local one. The provider dance (OAuth2 redirects, code exchange, email
// verification) happens upstream; by the time ReconcileAndIssue runs the
// email is trusted.
type FederationService struct {
	storage Storage
	codec   *jwt.Service
	logger  *slog.Logger
}

// FederationOption configures a FederationService.
type FederationOption func(*FederationService)

// WithFederationLogger sets a custom logger for the service.
func WithFederationLogger(l *slog.Logger) FederationOption {
	return func(s *FederationService) {
		s.logger = l
	}
}

// NewFederationService creates the federated-login reconciler.
func NewFederationService(storage Storage, codec *jwt.Service, opts ...FederationOption) *FederationService {
	s := &FederationService{
		storage: storage,
		codec:   codec,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReconcileAndIssue finds or creates the local identity for a federated
// email and issues a bearer token for it. First login creates a
// federation-only account (login = email, no password) with the default
// USER role; a missing USER role returns ErrRoleNotFound. An email
// already bound to a password account returns ErrAccountConflict without
// touching storage, so a matching email at a provider can never absorb a
// password account. Re-running for an already-reconciled account is a
// no-op that issues a fresh token.
func (s *FederationService) ReconcileAndIssue(ctx context.Context, email string) (string, error) {
	identity, err := s.storage.FindIdentityByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		identity, err = s.register(ctx, email)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("failed to look up identity: %w", err)
	}

	if identity.HasPassword() {
		return "", ErrAccountConflict
	}

	token, err := s.codec.Issue(identity.Login, identity.Roles, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// register creates a federation-only identity for the email. Two
// concurrent first logins can both observe "not found" and race to
// create; the storage uniqueness constraint lets exactly one insert win,
// and the loser re-fetches the winner's row instead of failing.
func (s *FederationService) register(ctx context.Context, email string) (*Identity, error) {
	role, err := s.storage.FindRoleByID(ctx, RoleUser)
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		ID:        uuid.New(),
		Login:     email,
		Email:     email,
		Roles:     []string{role.ID},
		CreatedAt: time.Now(),
	}

	err = s.storage.SaveIdentity(ctx, identity)
	if err == nil {
		s.logger.InfoContext(ctx, "federated account created",
			logger.UserLogin(identity.Login),
			logger.Component("federation"),
		)
		return identity, nil
	}

	if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrLoginAlreadyExists) {
		// Lost the creation race; the winner's row is authoritative.
		existing, fetchErr := s.storage.FindIdentityByEmail(ctx, email)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to refetch identity after duplicate create: %w", fetchErr)
		}
		return existing, nil
	}

	return nil, fmt.Errorf("failed to create identity: %w", err)
}
