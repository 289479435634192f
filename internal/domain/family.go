package domain

import (
	"time"

	"github.com/google/uuid"
)

// Family is the tenant boundary: tasks, tags, and memberships are all scoped
// to exactly one family. Deleting a family cascades to all three.
type Family struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFamily creates a Family with a fresh ID and timestamps.
func NewFamily(name string) (*Family, error) {
	now := time.Now().UTC()
	family := &Family{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := family.Validate(); err != nil {
		return nil, err
	}
	return family, nil
}

// Validate checks the Family's fields.
func (f *Family) Validate() error {
	if f.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if f.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrValidation)
	}
	return nil
}

// FamilyMember links a user to a family with a free-text role (e.g. "parent",
// "child") and an admin flag. A user appears at most once per family.
type FamilyMember struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	FamilyID uuid.UUID `json:"family_id"`
	Role     string    `json:"role"`
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`

	// User is the member's account details, populated on reads that join
	// against the users table. Nil when not loaded.
	User *User `json:"user,omitempty"`
}

// NewFamilyMember creates a membership row with a fresh ID.
func NewFamilyMember(userID, familyID uuid.UUID, role string, isAdmin bool) (*FamilyMember, error) {
	member := &FamilyMember{
		ID:       uuid.New(),
		UserID:   userID,
		FamilyID: familyID,
		Role:     role,
		IsAdmin:  isAdmin,
		JoinedAt: time.Now().UTC(),
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}
	return member, nil
}

// Validate checks the FamilyMember's fields.
func (m *FamilyMember) Validate() error {
	if m.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if m.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if m.FamilyID == uuid.Nil {
		return NewValidationError("family_id", "cannot be empty", ErrInvalidID)
	}
	if m.Role == "" {
		return NewValidationError("role", "cannot be empty", ErrValidation)
	}
	return nil
}
