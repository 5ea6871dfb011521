package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ex9/authservice/pkg/jwt"
)

// memStorage is a minimal in-memory Storage used to exercise the whole
// sign-up → sign-in → request → authorize chain without mocks. It
// enforces the same uniqueness rules the real store does.
type memStorage struct {
	mu         sync.Mutex
	identities map[uuid.UUID]*Identity
	roles      map[string]struct{}
}

func newMemStorage(roles ...string) *memStorage {
	s := &memStorage{
		identities: make(map[uuid.UUID]*Identity),
		roles:      make(map[string]struct{}),
	}
	for _, r := range roles {
		s.roles[r] = struct{}{}
	}
	return s
}

func (s *memStorage) FindIdentityByLogin(_ context.Context, login string) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.identities {
		if i.Login == login {
			clone := *i
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memStorage) FindIdentityByEmail(_ context.Context, email string) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.identities {
		if i.Email == email {
			clone := *i
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memStorage) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	_, err := s.FindIdentityByLogin(ctx, login)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *memStorage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindIdentityByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *memStorage) SaveIdentity(_ context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.identities {
		if id == identity.ID {
			continue
		}
		if existing.Login == identity.Login {
			return ErrLoginAlreadyExists
		}
		if existing.Email == identity.Email {
			return ErrEmailAlreadyExists
		}
	}
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	clone := *identity
	s.identities[identity.ID] = &clone
	return nil
}

func (s *memStorage) FindRoleByID(_ context.Context, id string) (*Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[id]; !ok {
		return nil, ErrRoleNotFound
	}
	return &Role{ID: id}, nil
}

func TestEndToEndFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newMemStorage(RoleUser, RoleAdmin)

	codec, err := jwt.New([]byte("test-secret-key-32-bytes-long!!!"), time.Hour)
	require.NoError(t, err)

	hasher := NewPasswordHasher(bcrypt.MinCost)
	credentials := NewCredentialService(storage, hasher)
	accounts := NewAccountService(storage, credentials, hasher, codec)
	roles := NewRoleService(storage)

	// sign-up
	require.NoError(t, accounts.SignUp(ctx, "bob", "pw123", "bob@x.com"))

	// duplicate sign-up is rejected
	assert.ErrorIs(t, accounts.SignUp(ctx, "bob", "other", "else@x.com"), ErrAccountExists)
	assert.ErrorIs(t, accounts.SignUp(ctx, "bob2", "other", "bob@x.com"), ErrAccountExists)

	// sign-in yields a token for bob with the USER role
	token, err := accounts.SignIn(ctx, "bob", "pw123")
	require.NoError(t, err)

	claims, err := codec.Parse(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Contains(t, claims.Roles, RoleUser)

	// the request authenticator turns the token into a principal
	var principal Principal
	mw := Middleware(MiddlewareConfig{Codec: codec, Identities: storage})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ = PrincipalFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/users/bob/roles", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "bob", principal.Subject)

	// and that principal may read its own roles
	result, err := roles.GetRoles(ctx, principal, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Login)
	assert.Equal(t, []string{RoleUser}, result.Roles)

	// but not anyone else's
	_, err = roles.GetRoles(ctx, principal, "root")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestEndToEndFederation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newMemStorage(RoleUser, RoleAdmin)

	codec, err := jwt.New([]byte("test-secret-key-32-bytes-long!!!"), time.Hour)
	require.NoError(t, err)

	hasher := NewPasswordHasher(bcrypt.MinCost)
	credentials := NewCredentialService(storage, hasher)
	accounts := NewAccountService(storage, credentials, hasher, codec)
	federation := NewFederationService(storage, codec)

	// two federated logins, one identity
	first, err := federation.ReconcileAndIssue(ctx, "new@example.com")
	require.NoError(t, err)
	second, err := federation.ReconcileAndIssue(ctx, "new@example.com")
	require.NoError(t, err)

	for _, token := range []string{first, second} {
		claims, err := codec.Parse(token, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", claims.Subject)
	}

	count := 0
	for _, i := range storage.identities {
		if i.Email == "new@example.com" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// a password account with the same email blocks federation
	require.NoError(t, accounts.SignUp(ctx, "carol", "pw123", "carol@x.com"))
	_, err = federation.ReconcileAndIssue(ctx, "carol@x.com")
	assert.ErrorIs(t, err, ErrAccountConflict)

	// and a federation-only account cannot password sign-in
	_, err = accounts.SignIn(ctx, "new@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
