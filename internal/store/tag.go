package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
)

// TagStore defines persistence operations for tags.
type TagStore interface {
	// Create persists a new tag. Returns ErrDuplicateTag if the name is
	// already taken within the family.
	Create(ctx context.Context, tag *domain.Tag) error

	// CreateBatch persists several tags at once, used to seed a new family's
	// default tag set.
	CreateBatch(ctx context.Context, tags []*domain.Tag) error

	// GetByID retrieves a tag by ID. Returns ErrTagNotFound if no tag exists
	// with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// GetByIDsForFamily returns the tags among ids that belong to the given
	// family. IDs that do not exist or belong to another family are omitted
	// from the result rather than reported as errors.
	GetByIDsForFamily(ctx context.Context, familyID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error)

	// ListByFamily returns the family's tags ordered by name.
	ListByFamily(ctx context.Context, familyID uuid.UUID) ([]*domain.Tag, error)

	// Update saves changes to an existing tag. Returns ErrTagNotFound if the
	// tag does not exist and ErrDuplicateTag on a name collision.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes a tag and its task associations. Returns ErrTagNotFound
	// if the tag does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TagStore bound to the given transaction.
	WithTx(tx *sql.Tx) TagStore
}
