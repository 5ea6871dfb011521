// Package auth is the identity core of the service: it verifies
// credentials, reconciles federated logins onto local identities,
// authenticates incoming requests and makes role-based access decisions.
//
// The package is storage-agnostic. All durable state lives behind the
// Storage interface; implementations must enforce login and email
// uniqueness (see pkg/pg for the PostgreSQL one).
//
// # Services
//
//   - CredentialService verifies a login/password pair and produces a
//     Principal. Unknown logins and wrong passwords are indistinguishable
//     to callers, both surface ErrInvalidCredentials.
//   - AccountService registers password accounts and exchanges valid
//     credentials for a signed bearer token.
//   - FederationService maps a verified external-provider email onto a
//     local identity, creating a federation-only account on first login.
//     An email already bound to a password account is rejected with
//     ErrAccountConflict so a provider match can never take over a
//     password account.
//   - OAuthService runs the provider side of that flow: a consent-screen
//     redirect guarded by a one-time CSRF state token, then the callback
//     code exchange through a ProviderAdapter (Google ships in
//     oauth_google.go) feeding the reconciler.
//   - RoleService reads and mutates role assignments. Authorization is
//     evaluated before any existence lookup so that non-admins cannot
//     probe which logins exist.
//
// # Request authentication
//
// Middleware turns a bearer token into a request-scoped Principal. A
// missing or invalid token never aborts the request; the request simply
// proceeds unauthenticated and the authorization decision downstream
// produces the eventual denial. The identity is reloaded by subject on
// every request so role changes made after issuance are honored.
//
//	r := chi.NewRouter()
//	r.Use(auth.Middleware(auth.MiddlewareConfig{
//		Codec:      codec,
//		Identities: storage,
//		Public:     auth.PublicPrefixes("/auth/signup", "/auth/signin", "/login"),
//	}))
//
// Handlers read the caller with auth.PrincipalFromContext and pass it
// explicitly into the authorization functions; there is no ambient
// security context.
package auth
