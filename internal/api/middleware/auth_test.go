package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/service/auth"
)

// stubJWTService accepts exactly one token.
type stubJWTService struct {
	validToken string
	userID     uuid.UUID
}

func (s *stubJWTService) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.validToken, nil
}

func (s *stubJWTService) ValidateAccessToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == s.validToken {
		return s.userID, nil
	}
	return uuid.Nil, auth.ErrInvalidToken
}

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	authn := NewAuthenticator(&stubJWTService{validToken: "good-token", userID: userID})

	var gotUserID uuid.UUID
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotUserID, _ = shared.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := authn.Middleware(next)

	do := func(authHeader string) *httptest.ResponseRecorder {
		reached = false
		r := httptest.NewRequest("GET", "/api/users/me", nil)
		if authHeader != "" {
			r.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("valid token passes and stamps the user", func(t *testing.T) {
		w := do("Bearer good-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, reached)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := do("Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := do("Bearer forged-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
	})
}
