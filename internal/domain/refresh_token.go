package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// refreshTokenBytes is the entropy of an opaque refresh token. The hex
// encoding doubles it to a 128-character string on the wire.
const refreshTokenBytes = 64

// RefreshToken is an opaque, single-use credential persisted server-side.
// Unlike access tokens it can be revoked, and each successful refresh
// revokes the presented token and issues a new one (rotation).
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	IsRevoked bool      `json:"is_revoked"`
}

// NewRefreshToken mints a refresh token for the user with a random opaque
// value and the given lifetime.
func NewRefreshToken(userID uuid.UUID, lifetime time.Duration) (*RefreshToken, error) {
	value, err := GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	token := &RefreshToken{
		ID:        uuid.New(),
		Token:     value,
		UserID:    userID,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	return token, nil
}

// GenerateOpaqueToken returns a hex-encoded random token value.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Validate checks the RefreshToken's fields.
func (t *RefreshToken) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.Token == "" {
		return NewValidationError("token", "cannot be empty", ErrValidation)
	}
	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if t.ExpiresAt.IsZero() {
		return NewValidationError("expires_at", "cannot be empty", ErrValidation)
	}
	return nil
}

// Expired reports whether the token is past its expiry at the given time.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
