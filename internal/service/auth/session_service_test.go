package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "Str0ng!pass"
)

// low cost keeps the hashing fast in tests
func newTestSessionService(t *testing.T) (*SessionService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	passwords := NewBcryptPasswordService(4)
	jwtService := NewJWTService("test-secret-key-that-is-long-enough", 30*time.Minute)

	svc := NewSessionService(nil, users, tokens, jwtService, passwords, passwords, 7*24*time.Hour, nil)
	svc.runTx = passTx
	return svc, users, tokens
}

func register(t *testing.T, svc *SessionService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), testEmail, testPassword, "Alice", "Smith")
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newTestSessionService(t)
		user := register(t, svc)

		stored, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.HashedPassword)
		assert.NotEqual(t, testPassword, stored.HashedPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		register(t, svc)
		_, err := svc.Register(ctx, testEmail, testPassword, "Bob", "Smith")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("weak password lists every unmet requirement", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		_, err := svc.Register(ctx, testEmail, "weak", "Alice", "Smith")
		require.Error(t, err)
		var policyErr *domain.PasswordPolicyError
		require.ErrorAs(t, err, &policyErr)
		assert.Contains(t, policyErr.Requirements, "at least 8 characters")
		assert.Contains(t, policyErr.Requirements, "an uppercase letter")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success issues a token pair", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		registered := register(t, svc)

		user, pair, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Len(t, pair.RefreshToken, 128)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		register(t, svc)
		_, _, err := svc.Login(ctx, testEmail, "Wr0ng!pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		_, _, err := svc.Login(ctx, "nobody@example.com", testPassword)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newTestSessionService(t)
		user := register(t, svc)
		stored, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		stored.IsActive = false
		require.NoError(t, users.Update(ctx, stored))

		_, _, err = svc.Login(ctx, testEmail, testPassword)
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotation issues a new pair and burns the old token", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		register(t, svc)
		_, pair, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		rotated, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

		// replaying the original token must fail
		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)

		// the rotated token still works
		_, err = svc.Refresh(ctx, rotated.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		_, err := svc.Refresh(ctx, "not-a-real-token")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		svc, _, tokens := newTestSessionService(t)
		user := register(t, svc)

		expired, err := domain.NewRefreshToken(user.ID, time.Hour)
		require.NoError(t, err)
		expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		require.NoError(t, tokens.Create(ctx, expired))

		_, err = svc.Refresh(ctx, expired.Token)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("revokes the token", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		register(t, svc)
		_, pair, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestSessionService(t)
		register(t, svc)
		_, pair, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
		assert.NoError(t, svc.Logout(ctx, pair.RefreshToken))
		assert.NoError(t, svc.Logout(ctx, ""))
	})
}

func TestLogoutAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newTestSessionService(t)
	user := register(t, svc)

	_, first, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	n, err := svc.LogoutAll(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
