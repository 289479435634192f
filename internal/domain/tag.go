package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a family-scoped label that can be attached to tasks. Tag names are
// unique within a family.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	FamilyID  uuid.UUID `json:"family_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTags returns the tag set seeded into every new family.
func DefaultTags(familyID uuid.UUID) []*Tag {
	seed := []struct {
		name  string
		color string
	}{
		{"Important", "#f44336"},
		{"Shopping", "#4caf50"},
		{"Housework", "#3f51b5"},
		{"Childcare", "#ff9800"},
		{"Work", "#9c27b0"},
		{"Hobby", "#00bcd4"},
	}
	now := time.Now().UTC()
	tags := make([]*Tag, 0, len(seed))
	for _, s := range seed {
		tags = append(tags, &Tag{
			ID:        uuid.New(),
			Name:      s.name,
			Color:     s.color,
			FamilyID:  familyID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return tags
}

// NewTag creates a Tag with a fresh ID and timestamps.
func NewTag(name, color string, familyID uuid.UUID) (*Tag, error) {
	now := time.Now().UTC()
	tag := &Tag{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		FamilyID:  familyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	return tag, nil
}

// Validate checks the Tag's fields.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrValidation)
	}
	if t.FamilyID == uuid.Nil {
		return NewValidationError("family_id", "cannot be empty", ErrInvalidID)
	}
	return nil
}
