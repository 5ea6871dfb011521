package auth

import "context"

// Storage is the durable store of identities and role assignments.
// Implementations must enforce login and email uniqueness and report
// violations with ErrLoginAlreadyExists / ErrEmailAlreadyExists so the
// federation reconciler can resolve concurrent-creation races.
type Storage interface {
	// FindIdentityByLogin returns ErrUserNotFound when no identity has the login.
	FindIdentityByLogin(ctx context.Context, login string) (*Identity, error)
	// FindIdentityByEmail returns ErrUserNotFound when no identity has the email.
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// SaveIdentity upserts the identity and its role assignments,
	// assigning an identifier on first save if the ID is zero.
	SaveIdentity(ctx context.Context, identity *Identity) error
	// FindRoleByID returns ErrRoleNotFound when the role does not exist.
	FindRoleByID(ctx context.Context, id string) (*Role, error)
}

// IdentitySource is the narrow read contract the request-authentication
// middleware needs; Storage satisfies it.
type IdentitySource interface {
	FindIdentityByLogin(ctx context.Context, login string) (*Identity, error)
}
