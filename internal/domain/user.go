package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// passwordSpecials is the set of characters that count as "special" for the
// password policy.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// User represents a registered account. A user may belong to any number of
// families through FamilyMember rows.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // never expose the hash in JSON
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID and timestamps. The caller is
// responsible for hashing the password and setting HashedPassword before the
// user is stored; NewUser never sees the plaintext.
func NewUser(email, firstName, lastName string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the User's fields.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrValidation)
	}
	if !validEmail(u.Email) {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	if u.FirstName == "" {
		return NewValidationError("first_name", "cannot be empty", ErrValidation)
	}
	if u.LastName == "" {
		return NewValidationError("last_name", "cannot be empty", ErrValidation)
	}
	return nil
}

// ValidatePassword checks a plaintext password against the registration
// policy: minimum 8 characters with at least one uppercase letter, one
// lowercase letter, one digit, and one special character. It returns a
// PasswordPolicyError listing every unmet requirement.
func ValidatePassword(password string) error {
	var missing []string
	if len(password) < 8 {
		missing = append(missing, "at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !special {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return &PasswordPolicyError{Requirements: missing}
	}
	return nil
}

// validEmail performs basic structural validation of an email address:
// a non-empty local part, an @, and a domain containing an interior dot.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
