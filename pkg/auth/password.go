package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the auth settings loaded from the environment.
type Config struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"0"` // BcryptCost is the bcrypt work factor; <= 0 selects bcrypt.DefaultCost.
}

// PasswordHasher hashes and verifies passwords with bcrypt. The salt is
// embedded in the digest, so two hashes of one plaintext differ while
// both verify against it.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given work factor. A
// non-positive cost falls back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// Hash derives a salted one-way digest of the plaintext.
func (h PasswordHasher) Hash(plaintext string) ([]byte, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return digest, nil
}

// Verify reports whether plaintext matches the stored digest. The
// comparison is constant-time at the library level; a malformed digest
// simply fails verification.
func (h PasswordHasher) Verify(plaintext string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}
