package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	t.Parallel()

	t.Run("non-positive cost falls back to default", func(t *testing.T) {
		t.Parallel()

		h := NewPasswordHasher(0)
		digest, err := h.Hash("secret")
		require.NoError(t, err)

		cost, err := bcrypt.Cost(digest)
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})

	t.Run("custom cost is applied", func(t *testing.T) {
		t.Parallel()

		h := NewPasswordHasher(bcrypt.MinCost)
		digest, err := h.Hash("secret")
		require.NoError(t, err)

		cost, err := bcrypt.Cost(digest)
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})
}

func TestPasswordHasher_Verify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	t.Run("accepts matching plaintext", func(t *testing.T) {
		t.Parallel()

		digest, err := h.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, h.Verify("correct horse battery staple", digest))
	})

	t.Run("rejects different plaintext", func(t *testing.T) {
		t.Parallel()

		digest, err := h.Hash("password-one")
		require.NoError(t, err)
		assert.False(t, h.Verify("password-two", digest))
	})

	t.Run("salts make digests differ but both verify", func(t *testing.T) {
		t.Parallel()

		first, err := h.Hash("same-input")
		require.NoError(t, err)
		second, err := h.Hash("same-input")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, h.Verify("same-input", first))
		assert.True(t, h.Verify("same-input", second))
	})

	t.Run("malformed digest fails instead of panicking", func(t *testing.T) {
		t.Parallel()

		assert.False(t, h.Verify("anything", []byte("not-a-bcrypt-digest")))
		assert.False(t, h.Verify("anything", nil))
	})
}
