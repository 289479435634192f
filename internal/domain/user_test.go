package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice@example.com", "Alice", "Smith")
		require.NoError(t, err)
		assert.NotEqual(t, "", user.ID.String())
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Empty(t, user.HashedPassword)
	})

	t.Run("empty email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("", "Alice", "Smith")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed email", func(t *testing.T) {
		t.Parallel()
		for _, email := range []string{"no-at-sign", "@example.com", "alice@", "alice@nodot", "alice@.com"} {
			_, err := NewUser(email, "Alice", "Smith")
			assert.ErrorIs(t, err, ErrInvalidEmail, "email %q should be rejected", email)
		}
	})

	t.Run("missing names", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("alice@example.com", "", "Smith")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = NewUser("alice@example.com", "Alice", "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		missing  []string
	}{
		{
			name:     "valid password",
			password: "Str0ng!pass",
			missing:  nil,
		},
		{
			name:     "too short but otherwise complete",
			password: "Ab1!",
			missing:  []string{"at least 8 characters"},
		},
		{
			name:     "no uppercase",
			password: "weak1pass!",
			missing:  []string{"an uppercase letter"},
		},
		{
			name:     "no special character",
			password: "Weak1pass",
			missing:  []string{"a special character"},
		},
		{
			name:     "everything missing",
			password: "",
			missing: []string{
				"at least 8 characters",
				"an uppercase letter",
				"a lowercase letter",
				"a digit",
				"a special character",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.missing == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var policyErr *PasswordPolicyError
			require.True(t, errors.As(err, &policyErr))
			assert.Equal(t, tc.missing, policyErr.Requirements)
		})
	}
}
