package auth

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

// TokenPair is the credential set issued on login and refresh: a short-lived
// JWT access token and an opaque refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// SessionService handles registration, login, token refresh, and logout.
type SessionService struct {
	db       *sql.DB
	users    store.UserStore
	tokens   store.RefreshTokenStore
	jwt      JWTService
	hasher   PasswordHasher
	verifier PasswordVerifier

	refreshLifetime time.Duration
	logger          *slog.Logger
	timeFunc        func() time.Time

	// runTx wraps refresh rotation in a transaction, injectable for tests.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewSessionService creates a SessionService. If logger is nil the process
// default is used.
func NewSessionService(
	db *sql.DB,
	users store.UserStore,
	tokens store.RefreshTokenStore,
	jwtService JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	refreshLifetime time.Duration,
	logger *slog.Logger,
) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		db:              db,
		users:           users,
		tokens:          tokens,
		jwt:             jwtService,
		hasher:          hasher,
		verifier:        verifier,
		refreshLifetime: refreshLifetime,
		logger:          logger.With("component", "session_service"),
		timeFunc:        time.Now,
		runTx:           store.RunInTransaction,
	}
}

// Register creates a new account. The password must satisfy the policy in
// domain.ValidatePassword; the email must not be registered already.
func (s *SessionService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	user, err := domain.NewUser(email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues a token pair. A missing user
// and a wrong password both map to ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	if err := s.verifier.Compare(ctx, user.HashedPassword, password); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, s.tokens, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued, all in one transaction. A token that is unknown, expired,
// or already used yields ErrInvalidRefreshToken.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tokens := s.tokens.WithTx(tx)

		revoked, err := tokens.Revoke(ctx, refreshToken, s.timeFunc().UTC())
		if err != nil {
			if errors.Is(err, store.ErrRefreshTokenNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}

		user, err := s.users.WithTx(tx).GetByID(ctx, revoked.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}
		if !user.IsActive {
			return ErrInactiveUser
		}

		pair, err = s.issueTokens(ctx, tokens, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the presented refresh token. Logging out with a token that
// is already revoked or unknown succeeds, so repeated logouts are harmless.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := s.tokens.Revoke(ctx, refreshToken, s.timeFunc().UTC())
	if err != nil && !errors.Is(err, store.ErrRefreshTokenNotFound) {
		return err
	}
	return nil
}

// LogoutAll revokes every active refresh token the user holds, ending all
// their sessions.
func (s *SessionService) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

// PurgeExpiredTokens deletes refresh tokens that expired before now. Run
// periodically or at startup; rows for live sessions are untouched.
func (s *SessionService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.timeFunc().UTC())
}

func (s *SessionService) issueTokens(ctx context.Context, tokens store.RefreshTokenStore, userID uuid.UUID) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	refresh, err := domain.NewRefreshToken(userID, s.refreshLifetime)
	if err != nil {
		return nil, err
	}
	if err := tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresAt:    refresh.ExpiresAt,
	}, nil
}
