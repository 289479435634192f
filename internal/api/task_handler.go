package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/service"
	"github.com/famsync/famsync-api/internal/store"
)

// TaskHandler serves task and subtask endpoints.
type TaskHandler struct {
	tasks    *service.TaskService
	validate *validator.Validate
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks *service.TaskService, validate *validator.Validate) *TaskHandler {
	return &TaskHandler{tasks: tasks, validate: validate}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		FamilyID:    req.FamilyID,
		AssigneeID:  req.AssigneeID,
		DueDate:     due,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		IsRoutine:   req.IsRoutine,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, task, "task created")
}

// List handles GET /api/tasks. Roots and subtasks come back as a flat list.
// The family_id query parameter is required; the same filter and pagination
// parameters as GetRoots apply.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	familyID, err := uuid.Parse(r.URL.Query().Get("family_id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid family_id")
		return
	}

	filter, skip, limit, err := parseTaskFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, total, err := h.tasks.ListTasks(r.Context(), userID, familyID, filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.NewPaginatedEnvelope(tasks, "tasks retrieved", total, skip, limit))
}

// GetRoots handles GET /api/tasks/roots. The family_id query parameter is
// required; status, priority, assignee_id, is_routine, due_before,
// due_after, and tag_ids narrow the listing, and skip/limit paginate it.
func (h *TaskHandler) GetRoots(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	familyID, err := uuid.Parse(r.URL.Query().Get("family_id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid family_id")
		return
	}

	filter, skip, limit, err := parseTaskFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, total, err := h.tasks.ListRootTasks(r.Context(), userID, familyID, filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.NewPaginatedEnvelope(tasks, "tasks retrieved", total, skip, limit))
}

// Get handles GET /api/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, task, "task retrieved")
}

// Update handles PATCH /api/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		IsRoutine:   req.IsRoutine,
		TagIDs:      req.TagIDs,
	}
	if req.AssigneeID.Set {
		input.AssigneeID = &req.AssigneeID.Value
	}
	if req.DueDate.Set {
		due, err := parseDueDate(req.DueDate.Value)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		input.DueDate = &due
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, task, "task updated")
}

// Delete handles DELETE /api/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil, "task deleted")
}

// CreateSubtask handles POST /api/tasks/{taskID}/subtasks.
func (h *TaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req CreateSubtaskRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	input, err := subtaskInput(req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	task, err := h.tasks.CreateSubtask(r.Context(), userID, taskID, input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, task, "subtask created")
}

// CreateSubtasksBulk handles POST /api/tasks/{taskID}/subtasks/bulk. All
// subtasks are created in one transaction; one bad entry sinks the batch.
func (h *TaskHandler) CreateSubtasksBulk(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req BulkSubtasksRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	inputs := make([]service.CreateTaskInput, 0, len(req.Subtasks))
	for _, sub := range req.Subtasks {
		input, err := subtaskInput(sub)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		inputs = append(inputs, input)
	}

	tasks, err := h.tasks.CreateSubtasks(r.Context(), userID, taskID, inputs)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, tasks, "subtasks created")
}

func subtaskInput(req CreateSubtaskRequest) (service.CreateTaskInput, error) {
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return service.CreateTaskInput{}, err
	}
	return service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueDate:     due,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		IsRoutine:   req.IsRoutine,
		TagIDs:      req.TagIDs,
	}, nil
}

// parseTaskFilter reads the filter and pagination query parameters.
func parseTaskFilter(r *http.Request) (store.TaskFilter, int, int, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.Valid() {
			return filter, 0, 0, domain.NewValidationError("status", "has invalid value", domain.ErrInvalidStatus)
		}
		filter.Status = &status
	}
	if raw := q.Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !priority.Valid() {
			return filter, 0, 0, domain.NewValidationError("priority", "has invalid value", domain.ErrInvalidPriority)
		}
		filter.Priority = &priority
	}
	if raw := q.Get("assignee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, 0, 0, domain.NewValidationError("assignee_id", "has invalid value", domain.ErrInvalidID)
		}
		filter.AssigneeID = &id
	}
	if raw := q.Get("is_routine"); raw != "" {
		routine, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, 0, 0, domain.NewValidationError("is_routine", "has invalid value", domain.ErrValidation)
		}
		filter.IsRoutine = &routine
	}
	if raw := q.Get("due_before"); raw != "" {
		d, err := domain.ParseDueDate(raw)
		if err != nil {
			return filter, 0, 0, domain.NewValidationError("due_before", "has invalid value", domain.ErrInvalidDueDate)
		}
		filter.DueBefore = &d
	}
	if raw := q.Get("due_after"); raw != "" {
		d, err := domain.ParseDueDate(raw)
		if err != nil {
			return filter, 0, 0, domain.NewValidationError("due_after", "has invalid value", domain.ErrInvalidDueDate)
		}
		filter.DueAfter = &d
	}
	if raw := q.Get("tag_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return filter, 0, 0, domain.NewValidationError("tag_ids", "has invalid value", domain.ErrInvalidID)
			}
			filter.TagIDs = append(filter.TagIDs, id)
		}
	}

	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		return filter, 0, 0, domain.NewValidationError("skip", "has invalid value", domain.ErrValidation)
	}
	limit, err := queryInt(r, "limit", defaultPageLimit)
	if err != nil {
		return filter, 0, 0, domain.NewValidationError("limit", "has invalid value", domain.ErrValidation)
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if limit == 0 {
		limit = defaultPageLimit
	}

	filter.Offset = skip
	filter.Limit = limit
	return filter, skip, limit, nil
}
