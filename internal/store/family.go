package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
)

// FamilyStore defines persistence operations for families and their
// memberships.
type FamilyStore interface {
	// Create persists a new family.
	Create(ctx context.Context, family *domain.Family) error

	// GetByID retrieves a family by ID. Returns ErrFamilyNotFound if no
	// family exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Family, error)

	// Update saves changes to an existing family. Returns ErrFamilyNotFound
	// if the family does not exist.
	Update(ctx context.Context, family *domain.Family) error

	// Delete removes a family and, via foreign keys, its memberships, tasks,
	// and tags. Returns ErrFamilyNotFound if the family does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser returns all families the user belongs to.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Family, error)

	// AddMember persists a membership row. Returns ErrDuplicateMember if the
	// user already belongs to the family.
	AddMember(ctx context.Context, member *domain.FamilyMember) error

	// GetMember retrieves the membership linking a user to a family.
	// Returns ErrMemberNotFound if the user does not belong to the family.
	GetMember(ctx context.Context, familyID, userID uuid.UUID) (*domain.FamilyMember, error)

	// GetMemberByID retrieves a membership row by its own ID. Returns
	// ErrMemberNotFound if it does not exist.
	GetMemberByID(ctx context.Context, memberID uuid.UUID) (*domain.FamilyMember, error)

	// ListMembers returns the family's memberships with each member's User
	// populated.
	ListMembers(ctx context.Context, familyID uuid.UUID) ([]*domain.FamilyMember, error)

	// RemoveMember deletes a membership row by its ID. Returns
	// ErrMemberNotFound if it does not exist.
	RemoveMember(ctx context.Context, memberID uuid.UUID) error

	// IsMember reports whether the user belongs to the family.
	IsMember(ctx context.Context, familyID, userID uuid.UUID) (bool, error)

	// IsAdmin reports whether the user is an admin of the family. A user who
	// is not a member at all is not an admin.
	IsAdmin(ctx context.Context, familyID, userID uuid.UUID) (bool, error)

	// WithTx returns a FamilyStore bound to the given transaction.
	WithTx(tx *sql.Tx) FamilyStore
}
