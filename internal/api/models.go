package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/service/auth"
)

// Request bodies. Responses use the domain entities directly; their JSON
// tags already shape the wire format and never expose password hashes.

// Optional is a request field that distinguishes absence from an explicit
// JSON null. Decoding any value, null included, marks the field Set; a Set
// field with a nil Value means the client asked to clear it.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the access token. The refresh token travels only in
// an HTTP-only cookie.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   pair.ExpiresAt,
	}
}

// UpdateUserRequest is the body for PUT /users/me. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	AvatarURL *string `json:"avatar_url"`
	Password  *string `json:"password"`
}

// CreateFamilyRequest is the body for POST /families.
type CreateFamilyRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateFamilyRequest is the body for PUT /families/{familyID}.
type UpdateFamilyRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddMemberRequest is the body for POST /families/{familyID}/members.
type AddMemberRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role" validate:"required"`
	IsAdmin bool   `json:"is_admin"`
}

// CreateTagRequest is the body for POST /families/{familyID}/tags.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// UpdateTagRequest is the body for PUT /tags/{tagID}.
type UpdateTagRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// CreateTaskRequest is the body for POST /tasks.
type CreateTaskRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	FamilyID    uuid.UUID   `json:"family_id" validate:"required"`
	AssigneeID  *uuid.UUID  `json:"assignee_id"`
	DueDate     *string     `json:"due_date"`
	Status      string      `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	IsRoutine   bool        `json:"is_routine"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

// CreateSubtaskRequest is the body for POST /tasks/{taskID}/subtasks. The
// family is inherited from the parent, so none is accepted here.
type CreateSubtaskRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	AssigneeID  *uuid.UUID  `json:"assignee_id"`
	DueDate     *string     `json:"due_date"`
	Status      string      `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	IsRoutine   bool        `json:"is_routine"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

// BulkSubtasksRequest is the body for POST /tasks/{taskID}/subtasks/bulk.
type BulkSubtasksRequest struct {
	Subtasks []CreateSubtaskRequest `json:"subtasks" validate:"required,min=1,dive"`
}

// UpdateTaskRequest is the body for PATCH /tasks/{taskID}. Omitted fields
// are left unchanged; an explicit null on assignee_id or due_date clears it.
type UpdateTaskRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1"`
	Description *string             `json:"description"`
	AssigneeID  Optional[uuid.UUID] `json:"assignee_id"`
	DueDate     Optional[string]    `json:"due_date"`
	Status      *string             `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string             `json:"priority" validate:"omitempty,oneof=low medium high"`
	IsRoutine   *bool               `json:"is_routine"`
	TagIDs      *[]uuid.UUID        `json:"tag_ids"`
}
