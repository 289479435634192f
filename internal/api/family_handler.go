package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/service"
)

// FamilyHandler serves family and membership endpoints.
type FamilyHandler struct {
	families *service.FamilyService
	validate *validator.Validate
}

// NewFamilyHandler creates a FamilyHandler.
func NewFamilyHandler(families *service.FamilyService, validate *validator.Validate) *FamilyHandler {
	return &FamilyHandler{families: families, validate: validate}
}

// Create handles POST /api/families. The creator becomes the family's first
// admin and the default tags are seeded.
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateFamilyRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	family, err := h.families.CreateFamily(r.Context(), userID, req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, family, "family created")
}

// List handles GET /api/families.
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	families, err := h.families.ListFamilies(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, families, "families retrieved")
}

// Get handles GET /api/families/{familyID}.
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	family, err := h.families.GetFamily(r.Context(), userID, familyID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, family, "family retrieved")
}

// Update handles PUT /api/families/{familyID}.
func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	var req UpdateFamilyRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	family, err := h.families.UpdateFamily(r.Context(), userID, familyID, req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, family, "family updated")
}

// Delete handles DELETE /api/families/{familyID}.
func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	if err := h.families.DeleteFamily(r.Context(), userID, familyID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil, "family deleted")
}

// AddMember handles POST /api/families/{familyID}/members.
func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	var req AddMemberRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	member, err := h.families.AddMemberByEmail(r.Context(), userID, familyID, req.Email, req.Role, req.IsAdmin)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, member, "member added")
}

// ListMembers handles GET /api/families/{familyID}/members.
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}

	members, err := h.families.ListMembers(r.Context(), userID, familyID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, members, "members retrieved")
}

// RemoveMember handles DELETE /api/families/{familyID}/members/{memberID}.
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	familyID, ok := pathUUID(w, r, "familyID")
	if !ok {
		return
	}
	memberID, ok := pathUUID(w, r, "memberID")
	if !ok {
		return
	}

	if err := h.families.RemoveMember(r.Context(), userID, familyID, memberID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil, "member removed")
}
