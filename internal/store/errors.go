package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is the base error for lookups that match no row. The
// entity-specific variants below wrap it, so callers can test either the
// specific error or the general class with errors.Is.
var ErrNotFound = errors.New("entity not found")

// Entity-specific not-found errors.
var (
	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrFamilyNotFound       = fmt.Errorf("%w: family", ErrNotFound)
	ErrMemberNotFound       = fmt.Errorf("%w: family member", ErrNotFound)
	ErrTaskNotFound         = fmt.Errorf("%w: task", ErrNotFound)
	ErrTagNotFound          = fmt.Errorf("%w: tag", ErrNotFound)
	ErrRefreshTokenNotFound = fmt.Errorf("%w: refresh token", ErrNotFound)
)

// Uniqueness violations surfaced from the database.
var (
	// ErrEmailExists is returned when creating a user with an email that is
	// already registered.
	ErrEmailExists = errors.New("email already exists")

	// ErrDuplicateMember is returned when adding a user to a family they
	// already belong to.
	ErrDuplicateMember = errors.New("user is already a family member")

	// ErrDuplicateTag is returned when creating a tag whose name is already
	// taken within the family.
	ErrDuplicateTag = errors.New("tag name already exists in family")
)

// ErrInvalidEntity is returned when an entity fails validation before a
// write is attempted.
var ErrInvalidEntity = errors.New("invalid entity")
