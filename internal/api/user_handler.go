package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/service/auth"
	"github.com/famsync/famsync-api/internal/store"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	validate *validator.Validate
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users store.UserStore, hasher auth.PasswordHasher, validate *validator.Validate) *UserHandler {
	return &UserHandler{users: users, hasher: hasher, validate: validate}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, user, "current user")
}

// UpdateMe handles PUT /api/users/me. A new password must pass the same
// policy as registration.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Password != nil {
		if err := domain.ValidatePassword(*req.Password); err != nil {
			respondServiceError(w, r, err)
			return
		}
		hash, err := h.hasher.Hash(r.Context(), *req.Password)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		user.HashedPassword = hash
	}

	if err := user.Validate(); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := h.users.Update(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, user, "profile updated")
}
