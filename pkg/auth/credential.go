package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/ex9/authservice/pkg/logger"
)

// CredentialService verifies login/password pairs against stored
// identities.
type CredentialService struct {
	storage Storage
	hasher  PasswordHasher
	logger  *slog.Logger
}

// CredentialOption configures a CredentialService.
type CredentialOption func(*CredentialService)

// WithCredentialLogger sets a custom logger for the service.
func WithCredentialLogger(l *slog.Logger) CredentialOption {
	return func(s *CredentialService) {
		s.logger = l
	}
}

// NewCredentialService creates a credential authenticator.
func NewCredentialService(storage Storage, hasher PasswordHasher, opts ...CredentialOption) *CredentialService {
	s := &CredentialService{
		storage: storage,
		hasher:  hasher,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies the login/password pair and returns the
// authenticated principal. Unknown logins and wrong passwords both
// return ErrInvalidCredentials so callers cannot enumerate accounts;
// there is no lockout or throttling here.
func (s *CredentialService) Authenticate(ctx context.Context, login, password string) (Principal, error) {
	identity, err := s.storage.FindIdentityByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, fmt.Errorf("failed to look up identity: %w", err)
	}

	if !s.hasher.Verify(password, identity.PasswordHash) {
		s.logger.DebugContext(ctx, "password verification failed",
			logger.UserLogin(login),
			logger.Component("credential"),
		)
		return Principal{}, ErrInvalidCredentials
	}

	return Principal{
		Subject:     identity.Login,
		Authorities: slices.Clone(identity.Roles),
	}, nil
}
