package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ex9/authservice/pkg/jwt"
)

func newAccountService(t *testing.T, storage *MockStorage) (*AccountService, *jwt.Service) {
	t.Helper()

	codec, err := jwt.New([]byte("test-secret-key-32-bytes-long!!!"), time.Hour)
	require.NoError(t, err)

	hasher := NewPasswordHasher(bcrypt.MinCost)
	credentials := NewCredentialService(storage, hasher)
	return NewAccountService(storage, credentials, hasher, codec), codec
}

func TestAccountService_SignUp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("registers a password account with the USER role", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		storage.On("ExistsByLogin", mock.Anything, "bob").Return(false, nil)
		storage.On("ExistsByEmail", mock.Anything, "bob@x.com").Return(false, nil)
		storage.On("FindRoleByID", mock.Anything, RoleUser).Return(&Role{ID: RoleUser}, nil)
		storage.On("SaveIdentity", mock.Anything, mock.MatchedBy(func(i *Identity) bool {
			return i.Login == "bob" &&
				i.Email == "bob@x.com" &&
				i.HasPassword() &&
				len(i.Roles) == 1 && i.Roles[0] == RoleUser &&
				!i.CreatedAt.IsZero()
		})).Return(nil)

		svc, _ := newAccountService(t, storage)
		require.NoError(t, svc.SignUp(ctx, "bob", "pw123", "bob@x.com"))
		storage.AssertExpectations(t)
	})

	t.Run("stores a verifiable hash, never the plaintext", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		var saved *Identity
		storage.On("ExistsByLogin", mock.Anything, "bob").Return(false, nil)
		storage.On("ExistsByEmail", mock.Anything, "bob@x.com").Return(false, nil)
		storage.On("FindRoleByID", mock.Anything, RoleUser).Return(&Role{ID: RoleUser}, nil)
		storage.On("SaveIdentity", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*Identity)
		}).Return(nil)

		svc, _ := newAccountService(t, storage)
		require.NoError(t, svc.SignUp(ctx, "bob", "pw123", "bob@x.com"))

		require.NotNil(t, saved)
		assert.NotContains(t, string(saved.PasswordHash), "pw123")
		assert.True(t, NewPasswordHasher(bcrypt.MinCost).Verify("pw123", saved.PasswordHash))
	})

	t.Run("taken login", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		storage.On("ExistsByLogin", mock.Anything, "bob").Return(true, nil)

		svc, _ := newAccountService(t, storage)
		assert.ErrorIs(t, svc.SignUp(ctx, "bob", "pw123", "bob@x.com"), ErrAccountExists)
		storage.AssertNotCalled(t, "SaveIdentity", mock.Anything, mock.Anything)
	})

	t.Run("taken email", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		storage.On("ExistsByLogin", mock.Anything, "bob").Return(false, nil)
		storage.On("ExistsByEmail", mock.Anything, "bob@x.com").Return(true, nil)

		svc, _ := newAccountService(t, storage)
		assert.ErrorIs(t, svc.SignUp(ctx, "bob", "pw123", "bob@x.com"), ErrAccountExists)
	})

	t.Run("save-time unique violation is a taken account", func(t *testing.T) {
		t.Parallel()

		// A concurrent sign-up can slip between the exists checks and
		// the save; the violation must surface as the client error, not
		// as an internal failure.
		for _, race := range []error{ErrLoginAlreadyExists, ErrEmailAlreadyExists} {
			storage := &MockStorage{}
			storage.On("ExistsByLogin", mock.Anything, "bob").Return(false, nil)
			storage.On("ExistsByEmail", mock.Anything, "bob@x.com").Return(false, nil)
			storage.On("FindRoleByID", mock.Anything, RoleUser).Return(&Role{ID: RoleUser}, nil)
			storage.On("SaveIdentity", mock.Anything, mock.Anything).Return(race)

			svc, _ := newAccountService(t, storage)
			assert.ErrorIs(t, svc.SignUp(ctx, "bob", "pw123", "bob@x.com"), ErrAccountExists)
		}
	})

	t.Run("missing USER role is a reference-data fault", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		storage.On("ExistsByLogin", mock.Anything, "bob").Return(false, nil)
		storage.On("ExistsByEmail", mock.Anything, "bob@x.com").Return(false, nil)
		storage.On("FindRoleByID", mock.Anything, RoleUser).Return(nil, ErrRoleNotFound)

		svc, _ := newAccountService(t, storage)
		assert.ErrorIs(t, svc.SignUp(ctx, "bob", "pw123", "bob@x.com"), ErrRoleNotFound)
	})
}

func TestAccountService_SignIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("issues a token carrying login and roles", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		storage.On("FindIdentityByLogin", mock.Anything, "bob").
			Return(testIdentity(t, "bob", "pw123", RoleUser), nil)

		svc, codec := newAccountService(t, storage)
		token, err := svc.SignIn(ctx, "bob", "pw123")
		require.NoError(t, err)

		claims, err := codec.Parse(token, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "bob", claims.Subject)
		assert.Contains(t, claims.Roles, RoleUser)
	})

	t.Run("bad credentials issue nothing", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		storage.On("FindIdentityByLogin", mock.Anything, "bob").Return(nil, ErrUserNotFound)

		svc, _ := newAccountService(t, storage)
		_, err := svc.SignIn(ctx, "bob", "pw123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
