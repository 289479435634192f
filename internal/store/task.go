package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
)

// TaskFilter narrows task listings. Zero-value fields are ignored.
// TagIDs matches tasks carrying ANY of the given tags; every other set
// field must match simultaneously.
type TaskFilter struct {
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	AssigneeID *uuid.UUID
	IsRoutine  *bool
	TagIDs     []uuid.UUID

	// DueBefore and DueAfter bound the due date inclusively. Tasks without
	// a due date never match either bound.
	DueBefore *time.Time
	DueAfter  *time.Time

	// Offset and Limit paginate the listing. Limit <= 0 means no limit.
	Offset int
	Limit  int
}

// TaskStore defines persistence operations for tasks.
type TaskStore interface {
	// Create persists a new task along with its tag associations
	// (task.Tags must already be resolved to tags of the task's family).
	Create(ctx context.Context, task *domain.Task) error

	// CreateBatch persists several tasks at once. Callers wanting
	// all-or-nothing semantics run it through WithTx.
	CreateBatch(ctx context.Context, tasks []*domain.Task) error

	// GetByID retrieves a task with its tags and direct subtasks loaded.
	// Returns ErrTaskNotFound if no task exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task and replaces its tag
	// associations with task.Tags. Returns ErrTaskNotFound if the task does
	// not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and, via foreign keys, its subtasks. Returns
	// ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all of the family's tasks, roots and subtasks alike,
	// matching the filter, newest first, with tags loaded.
	List(ctx context.Context, familyID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Count returns the total number of tasks matching the filter, ignoring
	// the filter's pagination fields.
	Count(ctx context.Context, familyID uuid.UUID, filter TaskFilter) (int, error)

	// ListRoots returns the family's root tasks (those without a parent)
	// matching the filter, newest first, with tags and subtasks loaded.
	ListRoots(ctx context.Context, familyID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// CountRoots returns the total number of root tasks matching the filter,
	// ignoring the filter's pagination fields.
	CountRoots(ctx context.Context, familyID uuid.UUID, filter TaskFilter) (int, error)

	// ResetCompletedRoutines flips every completed routine task back to
	// pending and returns how many rows changed.
	ResetCompletedRoutines(ctx context.Context) (int64, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
