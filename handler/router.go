// Package handler binds the auth services to their HTTP routes. The
// binding is deliberately thin: request decoding, principal extraction,
// and error-to-status mapping; all decisions live in pkg/auth.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ex9/authservice/pkg/auth"
	"github.com/ex9/authservice/pkg/jwt"
)

// AccountService is the sign-up/sign-in surface the router mounts.
type AccountService interface {
	SignUp(ctx context.Context, login, password, email string) error
	SignIn(ctx context.Context, login, password string) (string, error)
}

// OAuthService runs the external-provider login flow the router mounts:
// a redirect to the provider and the code-exchange callback.
type OAuthService interface {
	AuthURL(ctx context.Context) (string, error)
	Callback(ctx context.Context, code, state string) (string, error)
}

// RoleService is the role management surface the router mounts.
type RoleService interface {
	GetRoles(ctx context.Context, principal auth.Principal, targetLogin string) (auth.UserRoles, error)
	SetRoles(ctx context.Context, principal auth.Principal, targetLogin string, roleIDs []string) error
}

// RouterConfig wires the services and the request authenticator.
type RouterConfig struct {
	Accounts AccountService
	OAuth    OAuthService
	Roles    RoleService
	Codec      *jwt.Service
	Identities auth.IdentitySource
	Logger     *slog.Logger
}

// publicRoutes need no bearer token: account creation, both login entry
// points and the provider-login landing page.
var publicRoutes = []string{
	"/auth/signup",
	"/auth/signin",
	"/auth/oauth",
	"/login",
}

// New builds the service router with request authentication applied to
// everything outside the public route set.
func New(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &handlers{
		accounts: cfg.Accounts,
		oauth:    cfg.OAuth,
		roles:    cfg.Roles,
		logger:   cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware(auth.MiddlewareConfig{
		Codec:      cfg.Codec,
		Identities: cfg.Identities,
		Public:     auth.PublicPrefixes(publicRoutes...),
		Logger:     cfg.Logger,
	}))

	r.Post("/auth/signup", h.signUp)
	r.Post("/auth/signin", h.signIn)
	r.Get("/auth/oauth", h.oauthStart)
	r.Get("/auth/oauth/callback", h.oauthCallback)
	r.Get("/login/success", h.loginSuccess)
	r.Get("/users/{login}/roles", h.getRoles)
	r.Put("/users/roles", h.setRoles)

	return r
}

type handlers struct {
	accounts AccountService
	oauth    OAuthService
	roles    RoleService
	logger   *slog.Logger
}
