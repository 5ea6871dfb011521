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

// AccountService registers password accounts and exchanges credentials
// for bearer tokens.
type AccountService struct {
	storage     Storage
	credentials *CredentialService
	hasher      PasswordHasher
	codec       *jwt.Service
	logger      *slog.Logger
}

// AccountOption configures an AccountService.
type AccountOption func(*AccountService)

// WithAccountLogger sets a custom logger for the service.
func WithAccountLogger(l *slog.Logger) AccountOption {
	return func(s *AccountService) {
		s.logger = l
	}
}

// NewAccountService creates the sign-up/sign-in service.
func NewAccountService(storage Storage, credentials *CredentialService, hasher PasswordHasher, codec *jwt.Service, opts ...AccountOption) *AccountService {
	s := &AccountService{
		storage:     storage,
		credentials: credentials,
		hasher:      hasher,
		codec:       codec,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers a new password account with the default USER role.
// A taken login or email returns ErrAccountExists; a missing USER role
// is a reference-data fault and returns ErrRoleNotFound.
func (s *AccountService) SignUp(ctx context.Context, login, password, email string) error {
	taken, err := s.storage.ExistsByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("failed to check login: %w", err)
	}
	if taken {
		return ErrAccountExists
	}

	taken, err = s.storage.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ErrAccountExists
	}

	role, err := s.storage.FindRoleByID(ctx, RoleUser)
	if err != nil {
		s.logger.ErrorContext(ctx, "default role unavailable",
			logger.RoleID(RoleUser),
			logger.Error(err),
			logger.Component("account"),
		)
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	identity := &Identity{
		ID:           uuid.New(),
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{role.ID},
		CreatedAt:    time.Now(),
	}

	if err := s.storage.SaveIdentity(ctx, identity); err != nil {
		// A unique violation here means another sign-up won the race
		// between the exists checks and the save.
		if errors.Is(err, ErrLoginAlreadyExists) || errors.Is(err, ErrEmailAlreadyExists) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered",
		logger.UserLogin(login),
		logger.Component("account"),
	)
	return nil
}

// SignIn authenticates the credentials and issues a bearer token for
// the principal's login and roles.
func (s *AccountService) SignIn(ctx context.Context, login, password string) (string, error) {
	principal, err := s.credentials.Authenticate(ctx, login, password)
	if err != nil {
		return "", err
	}

	token, err := s.codec.Issue(principal.Subject, principal.Authorities, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
