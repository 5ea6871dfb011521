package auth

import "errors"

// Account errors
var (
	ErrAccountExists      = errors.New("account already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Federation errors
var (
	// ErrAccountConflict is returned when a federated login targets an
	// email that already belongs to a password account.
	ErrAccountConflict = errors.New("account already registered with a password")
)

// OAuth provider errors
var (
	ErrInvalidState            = errors.New("invalid or expired oauth state")
	ErrInvalidCode             = errors.New("invalid oauth code")
	ErrNoProviderEmail         = errors.New("no email from oauth provider")
	ErrProviderEmailUnverified = errors.New("oauth provider email not verified")
)

// Role errors
var (
	ErrRoleNotFound = errors.New("role not found")
	ErrAccessDenied = errors.New("access denied")
)

// Storage errors surfaced by uniqueness constraints. The federation
// reconciler relies on these to resolve concurrent first-login races.
var (
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")
)
