package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/service"
)

// TagHandler serves tag endpoints. Tag management goes through the task
// service since tags exist to label tasks.
type TagHandler struct {
	tasks    *service.TaskService
	validate *validator.Validate
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(tasks *service.TaskService, validate *validator.Validate) *TagHandler {
	return &TagHandler{tasks: tasks, validate: validate}
}

// Create handles POST /api/families/{familyID}/tags.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	var req CreateTagRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	tag, err := h.tasks.CreateTag(r.Context(), userID, familyID, req.Name, req.Color)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, tag, "tag created")
}

// List handles GET /api/families/{familyID}/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	tags, err := h.tasks.ListTags(r.Context(), userID, familyID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tags, "tags retrieved")
}

// Update handles PUT /api/tags/{tagID}.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	tagID, ok := pathUUID(w, r, "tagID")
	if !ok {
		return
	}

	var req UpdateTagRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	tag, err := h.tasks.UpdateTag(r.Context(), userID, tagID, req.Name, req.Color)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tag, "tag updated")
}

// Delete handles DELETE /api/tags/{tagID}.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	tagID, ok := pathUUID(w, r, "tagID")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTag(r.Context(), userID, tagID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil, "tag deleted")
}
