package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/service"
	"github.com/famsync/famsync-api/internal/service/auth"
	"github.com/famsync/famsync-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), store.ErrFamilyNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"duplicate tag", store.ErrDuplicateTag, http.StatusConflict},
		{"already member", service.ErrAlreadyMember, http.StatusBadRequest},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"bad refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"not a member", service.ErrNotFamilyMember, http.StatusForbidden},
		{"not an admin", service.ErrNotFamilyAdmin, http.StatusForbidden},
		{"inactive user", auth.ErrInactiveUser, http.StatusForbidden},
		{"validation", domain.NewValidationError("title", "cannot be empty", domain.ErrValidation), http.StatusBadRequest},
		{"password policy", &domain.PasswordPolicyError{Requirements: []string{"a digit"}}, http.StatusBadRequest},
		{"self removal", service.ErrSelfRemoval, http.StatusBadRequest},
		{"subtask depth", service.ErrSubtaskDepth, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	t.Run("password policy carries the requirement list", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/auth/register", nil)

		respondServiceError(w, r, &domain.PasswordPolicyError{
			Requirements: []string{"at least 8 characters", "a digit"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body struct {
			Data struct {
				Requirements []string `json:"requirements"`
			} `json:"data"`
			Success bool `json:"success"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, []string{"at least 8 characters", "a digit"}, body.Data.Requirements)
	})

	t.Run("other errors keep the plain envelope", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/families", nil)

		respondServiceError(w, r, store.ErrFamilyNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body struct {
			Data    interface{} `json:"data"`
			Success bool        `json:"success"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Nil(t, body.Data)
	})
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("validation errors describe themselves", func(t *testing.T) {
		t.Parallel()
		err := domain.NewValidationError("title", "cannot be empty", domain.ErrValidation)
		assert.Equal(t, "title cannot be empty", GetSafeErrorMessage(err))
	})

	t.Run("credentials stay vague", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "incorrect email or password", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	})

	t.Run("internals never leak", func(t *testing.T) {
		t.Parallel()
		err := errors.New("pq: connection refused on 10.0.0.5")
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "an internal error occurred", msg)
	})
}
