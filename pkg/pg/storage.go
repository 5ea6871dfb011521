package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ex9/authservice/pkg/auth"
)

// Storage implements auth.Storage on a pgx connection pool.
type Storage struct {
	pool *pgxpool.Pool
}

var _ auth.Storage = (*Storage)(nil)

// NewStorage creates the PostgreSQL identity store.
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

const identityQuery = `
	SELECT u.id, u.login, u.email, u.password_hash, u.created_at,
	       coalesce(array_agg(ur.role_id ORDER BY ur.role_id) FILTER (WHERE ur.role_id IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	WHERE %s
	GROUP BY u.id`

func (s *Storage) findIdentity(ctx context.Context, predicate string, arg any) (*auth.Identity, error) {
	var (
		identity auth.Identity
		hash     *string
	)
	row := s.pool.QueryRow(ctx, fmt.Sprintf(identityQuery, predicate), arg)
	if err := row.Scan(&identity.ID, &identity.Login, &identity.Email, &hash, &identity.CreatedAt, &identity.Roles); err != nil {
		if IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}
	if hash != nil {
		identity.PasswordHash = []byte(*hash)
	}
	return &identity, nil
}

// FindIdentityByLogin returns the identity with the login, or auth.ErrUserNotFound.
func (s *Storage) FindIdentityByLogin(ctx context.Context, login string) (*auth.Identity, error) {
	return s.findIdentity(ctx, "u.login = $1", login)
}

// FindIdentityByEmail returns the identity with the email, or auth.ErrUserNotFound.
func (s *Storage) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	return s.findIdentity(ctx, "u.email = $1", email)
}

// ExistsByLogin reports whether any identity has the login.
func (s *Storage) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)", login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check login: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether any identity has the email.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// SaveIdentity upserts the identity and replaces its role assignments in
// one transaction. Unique violations on login or email surface as
// auth.ErrLoginAlreadyExists / auth.ErrEmailAlreadyExists.
func (s *Storage) SaveIdentity(ctx context.Context, identity *auth.Identity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var hash *string
	if len(identity.PasswordHash) > 0 {
		h := string(identity.PasswordHash)
		hash = &h
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, login, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = excluded.email, password_hash = excluded.password_hash`,
		identity.ID, identity.Login, identity.Email, hash, identity.CreatedAt)
	if err != nil {
		return translateSaveError(err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM user_roles WHERE user_id = $1", identity.ID); err != nil {
		return fmt.Errorf("failed to clear roles: %w", err)
	}
	for _, roleID := range identity.Roles {
		if _, err := tx.Exec(ctx,
			"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)",
			identity.ID, roleID); err != nil {
			return fmt.Errorf("failed to assign role %q: %w", roleID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translateSaveError(err)
	}
	return nil
}

// FindRoleByID returns the role, or auth.ErrRoleNotFound.
func (s *Storage) FindRoleByID(ctx context.Context, id string) (*auth.Role, error) {
	var role auth.Role
	err := s.pool.QueryRow(ctx, "SELECT id FROM roles WHERE id = $1", id).Scan(&role.ID)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, auth.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return &role, nil
}

// translateSaveError maps unique violations onto the sentinel errors the
// auth package documents; anything else passes through wrapped.
func translateSaveError(err error) error {
	switch violatedConstraint(err) {
	case "users_login_key":
		return auth.ErrLoginAlreadyExists
	case "users_email_key":
		return auth.ErrEmailAlreadyExists
	}
	return fmt.Errorf("failed to save identity: %w", err)
}
