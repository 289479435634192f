package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
)

// RefreshTokenStore defines persistence operations for refresh tokens.
type RefreshTokenStore interface {
	// Create persists a new refresh token.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// Revoke marks the token revoked and returns the revoked row, but only
	// if it was still active (not revoked, not expired) at the given time.
	// The check and the update are a single atomic statement so a token
	// presented twice concurrently succeeds exactly once. Returns
	// ErrRefreshTokenNotFound when no active row matched.
	Revoke(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error)

	// RevokeAllForUser revokes every active token belonging to the user and
	// returns how many rows changed.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteExpired removes tokens that expired before the given time and
	// returns how many rows were deleted.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// WithTx returns a RefreshTokenStore bound to the given transaction.
	WithTx(tx *sql.Tx) RefreshTokenStore
}
