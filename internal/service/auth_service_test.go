package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/service/auth"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

// fakeTransactioner satisfies store.Transactioner without a database.
// The in-memory fakes ignore the nil transaction handed to them.
type fakeTransactioner struct{}

func (fakeTransactioner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// fakeUserStore is an in-memory store.UserStore with the same duplicate
// semantics as the Postgres implementation.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return store.ErrInvalidEntity
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}

func newTestAuthService(t *testing.T, users *fakeUserStore) *AuthServiceImpl {
	t.Helper()
	jwtService := auth.NewTestJWTService(
		"test-secret-that-is-long-enough-for-testing", 0, nil)
	return NewAuthService(users, jwtService, auth.NewBcryptHasher(4), fakeTransactioner{}, nil)
}

func registration() domain.RegistrationInput {
	return domain.RegistrationInput{
		Username:  "jane_doe",
		Email:     "jane@example.com",
		Password:  "Secret1",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc := newTestAuthService(t, users)

		result, err := svc.Register(ctx, registration())
		require.NoError(t, err)
		require.NotNil(t, result)
		require.NotEmpty(t, result.Token)

		// Plaintext never survives registration.
		assert.Empty(t, result.User.Password)
		assert.NotEmpty(t, result.User.HashedPassword)
		assert.NotEqual(t, "Secret1", result.User.HashedPassword)
		assert.True(t, result.User.IsActive)

		stored, err := users.GetByID(ctx, result.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", stored.Email)

		// The token identifies the new user.
		claims, err := svc.jwtService.ValidateToken(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc := newTestAuthService(t, users)

		_, err := svc.Register(ctx, registration())
		require.NoError(t, err)

		in := registration()
		in.Username = "other_name"
		_, err = svc.Register(ctx, in)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc := newTestAuthService(t, users)

		_, err := svc.Register(ctx, registration())
		require.NoError(t, err)

		in := registration()
		in.Email = "other@example.com"
		_, err = svc.Register(ctx, in)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("rejects invalid input without storing", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc := newTestAuthService(t, users)

		in := registration()
		in.Password = "weak"
		_, err := svc.Register(ctx, in)
		require.NotNil(t, domain.AsValidationError(err))
		assert.Empty(t, users.users)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthServiceImpl, *fakeUserStore, *domain.User) {
		users := newFakeUserStore()
		svc := newTestAuthService(t, users)
		result, err := svc.Register(ctx, registration())
		require.NoError(t, err)
		return svc, users, result.User
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc, _, user := setup(t)

		result, err := svc.Login(ctx, "jane@example.com", "Secret1")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		assert.Equal(t, user.ID, result.User.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		_, err := svc.Login(ctx, "nobody@example.com", "Secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		_, err := svc.Login(ctx, "jane@example.com", "Secret2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		t.Parallel()
		svc, users, user := setup(t)

		users.users[user.ID].IsActive = false

		_, err := svc.Login(ctx, "jane@example.com", "Secret1")
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestGetProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFakeUserStore()
	svc := newTestAuthService(t, users)
	result, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", user.Username)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

// Guard against the registration timestamp accidentally using local time.
func TestRegisterTimestampsUTC(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, newFakeUserStore())
	result, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	assert.Equal(t, time.UTC, result.User.CreatedAt.Location())
}
