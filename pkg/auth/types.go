package auth

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reference roles seeded by the storage layer. Roles are reference data:
// request flows look them up but never create them.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity is one registered principal. Login and email are each
// globally unique; login is immutable once set.
type Identity struct {
	ID           uuid.UUID
	Login        string
	Email        string
	PasswordHash []byte // nil for federation-only accounts
	Roles        []string
	CreatedAt    time.Time
}

// HasPassword reports whether this is a password account, as opposed to
// one created solely via federated login.
func (i *Identity) HasPassword() bool {
	return len(i.PasswordHash) > 0 && strings.TrimSpace(string(i.PasswordHash)) != ""
}

// Role is a named authority grantable to an identity. The name itself is
// the key, there is no separate numeric id.
type Role struct {
	ID string
}

// Principal is the authenticated identity attached to one in-flight
// request: the subject login plus the granted authority strings. It is
// passed explicitly through the call chain and discarded with the
// request.
type Principal struct {
	Subject     string
	Authorities []string
}

// HasAuthority reports whether the principal was granted the authority.
func (p Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}
