package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// PostgresRefreshTokenStore implements store.RefreshTokenStore.
type PostgresRefreshTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.RefreshTokenStore = (*PostgresRefreshTokenStore)(nil)

// NewPostgresRefreshTokenStore creates a PostgresRefreshTokenStore. If
// logger is nil the process default is used.
func NewPostgresRefreshTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRefreshTokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRefreshTokenStore{
		db:     db,
		logger: logger.With("component", "refresh_token_store"),
	}
}

// WithTx returns a RefreshTokenStore bound to the given transaction.
func (s *PostgresRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &PostgresRefreshTokenStore{db: tx, logger: s.logger}
}

// Create persists a new refresh token.
func (s *PostgresRefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO refresh_tokens (id, token, user_id, expires_at, created_at, is_revoked)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		token.ID, token.Token, token.UserID, token.ExpiresAt, token.CreatedAt, token.IsRevoked)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		return fmt.Errorf("inserting refresh token: %w", err)
	}
	return nil
}

// Revoke atomically marks an active token revoked and returns it. The
// single UPDATE guarantees that two concurrent presentations of the same
// token cannot both succeed.
func (s *PostgresRefreshTokenStore) Revoke(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = TRUE
		WHERE token = $1 AND NOT is_revoked AND expires_at > $2
		RETURNING id, token, user_id, expires_at, created_at, is_revoked`

	var revoked domain.RefreshToken
	err := s.db.QueryRowContext(ctx, query, token, now).Scan(
		&revoked.ID, &revoked.Token, &revoked.UserID, &revoked.ExpiresAt, &revoked.CreatedAt, &revoked.IsRevoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}

	s.logger.DebugContext(ctx, "refresh token revoked", "user_id", revoked.UserID)
	return &revoked, nil
}

// RevokeAllForUser revokes every active token belonging to the user.
func (s *PostgresRefreshTokenStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE refresh_tokens SET is_revoked = TRUE WHERE user_id = $1 AND NOT is_revoked`
	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("revoking user tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

// DeleteExpired removes tokens that expired before the given time.
func (s *PostgresRefreshTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("deleting expired tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
