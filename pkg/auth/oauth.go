package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ex9/authservice/pkg/logger"
)

// ProviderAdapter abstracts one external OAuth2 provider. Implementations
// own the provider specifics (endpoints, scopes, profile API) and hand
// the core flow nothing but a verified email.
type ProviderAdapter interface {
	// ProviderID returns the provider identifier.
	ProviderID() string

	// AuthURL builds the provider authorization URL carrying the given
	// state token.
	AuthURL(state string) (string, error)

	// ResolveEmail exchanges the authorization code and returns the
	// account email the provider vouches for. A failed exchange returns
	// ErrInvalidCode; a profile without a usable email returns
	// ErrNoProviderEmail or ErrProviderEmailUnverified.
	ResolveEmail(ctx context.Context, code string) (string, error)
}

// IdentityReconciler maps a trusted federated email onto a local
// identity and issues a token for it.
type IdentityReconciler interface {
	ReconcileAndIssue(ctx context.Context, email string) (string, error)
}

// OAuthService runs the provider login flow: it hands out authorization
// URLs with one-time CSRF state tokens and, on callback, exchanges the
// code for a verified email and delegates to the reconciler. State
// tokens live in memory; they are short-lived and bind a callback to
// this process, which also issued the redirect.
type OAuthService struct {
	adapter    ProviderAdapter
	reconciler IdentityReconciler
	stateTTL   time.Duration
	logger     *slog.Logger

	mu     sync.Mutex
	states map[string]time.Time
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithOAuthLogger sets a custom logger for the service.
func WithOAuthLogger(l *slog.Logger) OAuthOption {
	return func(s *OAuthService) {
		s.logger = l
	}
}

// WithOAuthStateTTL sets the lifetime of issued state tokens.
func WithOAuthStateTTL(ttl time.Duration) OAuthOption {
	return func(s *OAuthService) {
		s.stateTTL = ttl
	}
}

// NewOAuthService creates the provider login service.
func NewOAuthService(adapter ProviderAdapter, reconciler IdentityReconciler, opts ...OAuthOption) *OAuthService {
	s := &OAuthService{
		adapter:    adapter,
		reconciler: reconciler,
		stateTTL:   10 * time.Minute,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		states:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL generates a provider authorization URL with a fresh one-time
// state token.
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	s.storeState(state)

	url, err := s.adapter.AuthURL(state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// Callback completes the provider flow. The state must match a pending
// redirect and is consumed on first use, so a replayed or forged
// callback fails with ErrInvalidState before any provider call.
func (s *OAuthService) Callback(ctx context.Context, code, state string) (string, error) {
	if !s.consumeState(state) {
		return "", ErrInvalidState
	}

	email, err := s.adapter.ResolveEmail(ctx, code)
	if err != nil {
		return "", err
	}

	token, err := s.reconciler.ReconcileAndIssue(ctx, email)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "provider login completed",
		slog.String("provider", s.adapter.ProviderID()),
		logger.Component("oauth"),
	)
	return token, nil
}

func (s *OAuthService) storeState(state string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for st, exp := range s.states {
		if now.After(exp) {
			delete(s.states, st)
		}
	}
	s.states[state] = now.Add(s.stateTTL)
}

func (s *OAuthService) consumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(exp)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
