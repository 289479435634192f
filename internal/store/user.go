package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	// Create persists a new user. The user's HashedPassword must already be
	// set. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if no user
	// exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if no
	// user exists with the given email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update saves changes to an existing user. Returns ErrUserNotFound if
	// the user does not exist and ErrEmailExists on an email collision.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user. Returns ErrUserNotFound if the user does not
	// exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
