package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid returns true if the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid returns true if the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// DueDateFormat is the canonical wire format for due dates (date only).
const DueDateFormat = "2006-01-02"

// ParseDueDate parses a due-date string, accepting the date-only form or a
// full RFC 3339 timestamp (the date part is kept). Malformed input is
// rejected with ErrInvalidDueDate rather than silently dropped.
func ParseDueDate(value string) (time.Time, error) {
	if d, err := time.Parse(DueDateFormat, value); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Time{}, NewValidationError("due_date", "has invalid format", ErrInvalidDueDate)
}

// Task is a unit of work owned by a family. A task may reference a parent
// task in the same family; the hierarchy is traversed one level deep only
// (parent to direct children).
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	FamilyID    uuid.UUID    `json:"family_id"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
	CreatedByID *uuid.UUID   `json:"created_by_id,omitempty"` // nil after creator account deletion
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	IsRoutine   bool         `json:"is_routine"`
	ParentID    *uuid.UUID   `json:"parent_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Tags holds the task's tag set when loaded.
	Tags []*Tag `json:"tags"`

	// Subtasks holds direct children when the read path requested them.
	// Children never carry their own Subtasks.
	Subtasks []*Task `json:"subtasks,omitempty"`
}

// NewTask creates a Task with a fresh ID, timestamps, and defaults applied
// (pending status, medium priority).
func NewTask(title string, familyID uuid.UUID, createdBy uuid.UUID) (*Task, error) {
	now := time.Now().UTC()
	creator := createdBy
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		FamilyID:    familyID,
		CreatedByID: &creator,
		Status:      TaskStatusPending,
		Priority:    TaskPriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the Task's fields.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrValidation)
	}
	if t.FamilyID == uuid.Nil {
		return NewValidationError("family_id", "cannot be empty", ErrInvalidID)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be pending, in_progress, or completed", ErrInvalidStatus)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be low, medium, or high", ErrInvalidPriority)
	}
	return nil
}
