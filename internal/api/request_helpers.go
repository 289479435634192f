package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/domain"
)

// defaultPageLimit bounds list endpoints when the client sends no limit.
const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// decodeAndValidate parses the JSON body into dst and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			shared.RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("field %s failed validation (%s)", strings.ToLower(fe.Field()), fe.Tag()))
			return false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// userIDFromRequest returns the authenticated user's ID. The auth
// middleware guarantees it is set on protected routes; a miss means a
// wiring bug, reported as a 500.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"an internal error occurred", errors.New("user ID missing from authenticated request"))
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a UUID path parameter. On failure it writes a 400 and
// returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid %s", param))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

// parseDueDate converts an optional due-date string from a request body.
func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDueDate(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
