package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// AccessChecker gates operations on family membership. FamilyService is the
// production implementation.
type AccessChecker interface {
	RequireMember(ctx context.Context, familyID, userID uuid.UUID) error
}

// CreateTaskInput carries the fields accepted when creating a task or
// subtask. Zero-value Status and Priority fall back to the defaults
// (pending, medium). For subtasks FamilyID is ignored; the parent's family
// wins.
type CreateTaskInput struct {
	Title       string
	Description string
	FamilyID    uuid.UUID
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	IsRoutine   bool
	TagIDs      []uuid.UUID
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged.
// AssigneeID and DueDate are nullable columns and take a second level of
// indirection: a nil outer pointer leaves the field alone, a non-nil outer
// pointer wrapping nil clears it.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssigneeID  **uuid.UUID
	DueDate     **time.Time
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	IsRoutine   *bool
	TagIDs      *[]uuid.UUID
}

// TaskService manages tasks, subtasks, and tags.
type TaskService struct {
	db     *sql.DB
	tasks  store.TaskStore
	tags   store.TagStore
	access AccessChecker
	logger *slog.Logger

	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewTaskService creates a TaskService. If logger is nil the process
// default is used.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	tags store.TagStore,
	access AccessChecker,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		db:     db,
		tasks:  tasks,
		tags:   tags,
		access: access,
		logger: logger.With("component", "task_service"),
		runTx:  store.RunInTransaction,
	}
}

// CreateTask creates a root task in the given family. Members only. Tag IDs
// that do not belong to the family are dropped silently.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	if err := s.access.RequireMember(ctx, input.FamilyID, userID); err != nil {
		return nil, err
	}

	task, err := s.buildTask(ctx, userID, input.FamilyID, nil, input)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "family_id", task.FamilyID)
	return task, nil
}

// CreateSubtask creates a child of an existing task. The subtask belongs to
// the parent's family regardless of what the input says, and only one level
// of nesting is allowed.
func (s *TaskService) CreateSubtask(ctx context.Context, userID, parentID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	parent, err := s.loadGuarded(ctx, userID, parentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, ErrSubtaskDepth
	}

	task, err := s.buildTask(ctx, userID, parent.FamilyID, &parent.ID, input)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateSubtasks creates several children of one task in a single
// transaction, so either all of them exist afterwards or none do.
func (s *TaskService) CreateSubtasks(ctx context.Context, userID, parentID uuid.UUID, inputs []CreateTaskInput) ([]*domain.Task, error) {
	parent, err := s.loadGuarded(ctx, userID, parentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, ErrSubtaskDepth
	}

	tasks := make([]*domain.Task, 0, len(inputs))
	for _, input := range inputs {
		task, err := s.buildTask(ctx, userID, parent.FamilyID, &parent.ID, input)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).CreateBatch(ctx, tasks)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "subtasks created", "parent_id", parentID, "count", len(tasks))
	return tasks, nil
}

// GetTask returns a task with tags and subtasks if the user belongs to its
// family.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.loadGuarded(ctx, userID, taskID)
}

// UpdateTask applies a partial update. Members of the task's family only.
// When TagIDs is set the tag list is replaced, again dropping IDs that do
// not belong to the family.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.loadGuarded(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.AssigneeID != nil {
		task.AssigneeID = *input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.IsRoutine != nil {
		task.IsRoutine = *input.IsRoutine
	}
	if input.TagIDs != nil {
		tags, err := s.tags.GetByIDsForFamily(ctx, task.FamilyID, *input.TagIDs)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and its subtasks. Members of the task's family
// only.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.loadGuarded(ctx, userID, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// ListTasks returns all of the family's tasks matching the filter, roots and
// subtasks alike, plus the total count before pagination. Members only.
func (s *TaskService) ListTasks(ctx context.Context, userID, familyID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, int, error) {
	if err := s.access.RequireMember(ctx, familyID, userID); err != nil {
		return nil, 0, err
	}

	total, err := s.tasks.Count(ctx, familyID, filter)
	if err != nil {
		return nil, 0, err
	}
	tasks, err := s.tasks.List(ctx, familyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ListRootTasks returns the family's root tasks matching the filter plus
// the total count before pagination. Members only.
func (s *TaskService) ListRootTasks(ctx context.Context, userID, familyID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, int, error) {
	if err := s.access.RequireMember(ctx, familyID, userID); err != nil {
		return nil, 0, err
	}

	total, err := s.tasks.CountRoots(ctx, familyID, filter)
	if err != nil {
		return nil, 0, err
	}
	tasks, err := s.tasks.ListRoots(ctx, familyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// CreateTag creates a tag in the family. Members only.
func (s *TaskService) CreateTag(ctx context.Context, userID, familyID uuid.UUID, name, color string) (*domain.Tag, error) {
	if err := s.access.RequireMember(ctx, familyID, userID); err != nil {
		return nil, err
	}

	tag, err := domain.NewTag(name, color, familyID)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns the family's tags. Members only.
func (s *TaskService) ListTags(ctx context.Context, userID, familyID uuid.UUID) ([]*domain.Tag, error) {
	if err := s.access.RequireMember(ctx, familyID, userID); err != nil {
		return nil, err
	}
	return s.tags.ListByFamily(ctx, familyID)
}

// UpdateTag renames or recolors a tag. Members of the tag's family only.
func (s *TaskService) UpdateTag(ctx context.Context, userID, tagID uuid.UUID, name, color string) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, tag.FamilyID, userID); err != nil {
		return nil, err
	}

	tag.Name = name
	tag.Color = color
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag from the family and from every task carrying it.
// Members of the tag's family only.
func (s *TaskService) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if err := s.access.RequireMember(ctx, tag.FamilyID, userID); err != nil {
		return err
	}
	return s.tags.Delete(ctx, tagID)
}

// loadGuarded fetches a task and verifies the user belongs to its family.
func (s *TaskService) loadGuarded(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, task.FamilyID, userID); err != nil {
		return nil, err
	}
	return task, nil
}

// buildTask assembles a task from the input, resolving tag IDs against the
// owning family. Unknown or foreign tag IDs are dropped, not rejected.
func (s *TaskService) buildTask(ctx context.Context, userID, familyID uuid.UUID, parentID *uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.Title, familyID, userID)
	if err != nil {
		return nil, err
	}

	task.Description = input.Description
	task.AssigneeID = input.AssigneeID
	task.DueDate = input.DueDate
	task.IsRoutine = input.IsRoutine
	task.ParentID = parentID
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	tags, err := s.tags.GetByIDsForFamily(ctx, familyID, input.TagIDs)
	if err != nil {
		return nil, err
	}
	task.Tags = tags
	return task, nil
}
