// Package api implements the HTTP handlers and request/response models.
package api

import (
	"errors"
	"net/http"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/service"
	"github.com/famsync/famsync-api/internal/service/auth"
	"github.com/famsync/famsync-api/internal/store"
)

// MapErrorToStatusCode translates service and store errors into HTTP status
// codes. Anything unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicateTag):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInactiveUser),
		errors.Is(err, service.ErrNotFamilyMember),
		errors.Is(err, service.ErrNotFamilyAdmin),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrSelfRemoval),
		errors.Is(err, service.ErrSubtaskDepth),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns an error message suitable for clients.
// Validation and authorization errors describe themselves; everything else
// collapses to a generic message so internals never leak.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicateTag),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrNotFamilyMember),
		errors.Is(err, service.ErrNotFamilyAdmin),
		errors.Is(err, service.ErrSelfRemoval),
		errors.Is(err, service.ErrSubtaskDepth),
		errors.Is(err, auth.ErrInactiveUser):
		return err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "incorrect email or password"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "could not validate credentials"
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return "invalid or expired refresh token"
	default:
		return "an internal error occurred"
	}
}

// respondServiceError is the common failure path for handlers. Password
// policy violations additionally carry the list of unmet requirements under
// data so clients can render them individually.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var policyErr *domain.PasswordPolicyError
	if errors.As(err, &policyErr) {
		shared.RespondWithErrorData(w, r, http.StatusBadRequest,
			map[string][]string{"requirements": policyErr.Requirements}, policyErr.Error())
		return
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
