package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/ex9/authservice/pkg/jwt"
	"github.com/ex9/authservice/pkg/logger"
)

// TokenExtractorFunc extracts a bearer token from an HTTP request.
type TokenExtractorFunc func(r *http.Request) (string, bool)

// SkipFunc reports whether a request targets a public route that needs
// no authentication at all.
type SkipFunc func(r *http.Request) bool

// MiddlewareConfig configures the request authenticator.
type MiddlewareConfig struct {
	Codec      *jwt.Service       // token codec used for verification
	Identities IdentitySource     // reloads the identity by subject per request
	Extractor  TokenExtractorFunc // defaults to BearerToken
	Public     SkipFunc           // optional public-route filter
	Logger     *slog.Logger
}

// Middleware authenticates every inbound request. Public routes pass
// through untouched. Elsewhere a missing, malformed or expired token
// never aborts the request: it proceeds unauthenticated and the
// authorization decision downstream produces the eventual 401/403. A
// valid token re-derives the principal's authorities by reloading the
// identity by subject, so role changes since issuance are honored at the
// cost of one storage lookup per request. A subject that no longer
// exists also proceeds unauthenticated, but a reload that fails for any
// other reason (the store being unreachable) is an internal failure and
// answers 500 rather than posing as an authorization outcome. Nothing
// survives the request; there is no session.
func Middleware(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if cfg.Extractor == nil {
		cfg.Extractor = BearerToken
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Public != nil && cfg.Public(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := cfg.Extractor(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := cfg.Codec.Parse(tokenString, time.Now())
			if err != nil {
				cfg.Logger.DebugContext(r.Context(), "rejected bearer token",
					logger.Error(err),
					logger.Component("middleware"),
				)
				next.ServeHTTP(w, r)
				return
			}

			identity, err := cfg.Identities.FindIdentityByLogin(r.Context(), claims.Subject)
			if errors.Is(err, ErrUserNotFound) {
				// Account deleted after the token was issued.
				cfg.Logger.DebugContext(r.Context(), "token subject no longer exists",
					logger.UserLogin(claims.Subject),
					logger.Component("middleware"),
				)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "failed to reload token subject",
					logger.UserLogin(claims.Subject),
					logger.Error(err),
					logger.Component("middleware"),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal error"}`))
				return
			}

			principal := Principal{
				Subject:     identity.Login,
				Authorities: slices.Clone(identity.Roles),
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// BearerToken extracts a token from an "Authorization: Bearer <token>"
// header per RFC 6750.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// PublicPrefixes builds a SkipFunc matching requests whose path equals
// one of the prefixes or descends under it.
func PublicPrefixes(prefixes ...string) SkipFunc {
	return func(r *http.Request) bool {
		for _, prefix := range prefixes {
			if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
				return true
			}
		}
		return false
	}
}
