package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a PostgresTaskStore. If logger is nil the
// process default is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With("component", "task_store"),
	}
}

// WithTx returns a TaskStore bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

const taskColumns = `id, title, description, family_id, assignee_id, created_by_id, due_date,
	status, priority, is_routine, parent_id, created_at, updated_at`

// Create persists a new task and its tag associations.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, nullableString(task.Description), task.FamilyID,
		nullableUUID(task.AssigneeID), nullableUUID(task.CreatedByID), nullableTime(task.DueDate),
		task.Status, task.Priority, task.IsRoutine, nullableUUID(task.ParentID),
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrTaskNotFound
		}
		return fmt.Errorf("inserting task: %w", err)
	}

	if err := s.insertTaskTags(ctx, task.ID, task.Tags); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "task created", "task_id", task.ID, "family_id", task.FamilyID)
	return nil
}

// CreateBatch persists several tasks in order.
func (s *PostgresTaskStore) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	for _, task := range tasks {
		if err := s.Create(ctx, task); err != nil {
			return fmt.Errorf("inserting task %q: %w", task.Title, err)
		}
	}
	return nil
}

// GetByID retrieves a task with its tags and direct subtasks.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}

	if err := s.attachChildren(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// Update saves changes to an existing task and replaces its tag set.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, assignee_id = $4, due_date = $5,
		    status = $6, priority = $7, is_routine = $8, updated_at = NOW()
		WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, nullableString(task.Description), nullableUUID(task.AssigneeID),
		nullableTime(task.DueDate), task.Status, task.Priority, task.IsRoutine)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if err := requireRowAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, task.ID); err != nil {
		return fmt.Errorf("clearing task tags: %w", err)
	}
	return s.insertTaskTags(ctx, task.ID, task.Tags)
}

// Delete removes a task. Subtasks and tag associations go with it through
// ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRowAffected(result, store.ErrTaskNotFound)
}

// List returns all of the family's tasks matching the filter, newest first,
// with tags loaded. Subtasks appear as their own rows rather than nested
// under their parents.
func (s *PostgresTaskStore) List(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.listFiltered(ctx, familyID, filter, false)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count returns the total number of tasks matching the filter.
func (s *PostgresTaskStore) Count(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) (int, error) {
	return s.countFiltered(ctx, familyID, filter, false)
}

// ListRoots returns the family's root tasks matching the filter, newest
// first, with tags and direct subtasks loaded.
func (s *PostgresTaskStore) ListRoots(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.listFiltered(ctx, familyID, filter, true)
	if err != nil {
		return nil, err
	}
	if err := s.attachChildren(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountRoots returns the total number of root tasks matching the filter.
func (s *PostgresTaskStore) CountRoots(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) (int, error) {
	return s.countFiltered(ctx, familyID, filter, true)
}

func (s *PostgresTaskStore) listFiltered(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter, rootsOnly bool) ([]*domain.Task, error) {
	where, args := buildTaskFilter(familyID, filter, rootsOnly)

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE ` + where + ` ORDER BY t.created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *PostgresTaskStore) countFiltered(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter, rootsOnly bool) (int, error) {
	where, args := buildTaskFilter(familyID, filter, rootsOnly)

	var total int
	query := `SELECT COUNT(*) FROM tasks t WHERE ` + where
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return total, nil
}

// ResetCompletedRoutines flips completed routine tasks back to pending.
func (s *PostgresTaskStore) ResetCompletedRoutines(ctx context.Context) (int64, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = NOW()
		WHERE is_routine AND status = $2`
	result, err := s.db.ExecContext(ctx, query, domain.TaskStatusPending, domain.TaskStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("resetting routine tasks: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

// buildTaskFilter assembles the WHERE clause shared by the list and count
// queries. Tag filtering matches tasks carrying any of the given tags.
func buildTaskFilter(familyID uuid.UUID, filter store.TaskFilter, rootsOnly bool) (string, []interface{}) {
	clauses := []string{"t.family_id = $1"}
	args := []interface{}{familyID}
	if rootsOnly {
		clauses = append(clauses, "t.parent_id IS NULL")
	}

	next := func() int { return len(args) + 1 }

	if filter.Status != nil {
		clauses = append(clauses, fmt.Sprintf("t.status = $%d", next()))
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		clauses = append(clauses, fmt.Sprintf("t.priority = $%d", next()))
		args = append(args, *filter.Priority)
	}
	if filter.AssigneeID != nil {
		clauses = append(clauses, fmt.Sprintf("t.assignee_id = $%d", next()))
		args = append(args, *filter.AssigneeID)
	}
	if filter.IsRoutine != nil {
		clauses = append(clauses, fmt.Sprintf("t.is_routine = $%d", next()))
		args = append(args, *filter.IsRoutine)
	}
	if filter.DueBefore != nil {
		clauses = append(clauses, fmt.Sprintf("t.due_date <= $%d", next()))
		args = append(args, *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		clauses = append(clauses, fmt.Sprintf("t.due_date >= $%d", next()))
		args = append(args, *filter.DueAfter)
	}
	if len(filter.TagIDs) > 0 {
		placeholders := make([]string, 0, len(filter.TagIDs))
		for _, id := range filter.TagIDs {
			placeholders = append(placeholders, fmt.Sprintf("$%d", next()))
			args = append(args, id)
		}
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag_id IN (%s))",
			strings.Join(placeholders, ", ")))
	}

	return strings.Join(clauses, " AND "), args
}

// insertTaskTags writes the task_tags rows for a task.
func (s *PostgresTaskStore) insertTaskTags(ctx context.Context, taskID uuid.UUID, tags []*domain.Tag) error {
	for _, tag := range tags {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, tag.ID)
		if err != nil {
			return fmt.Errorf("inserting task tag: %w", err)
		}
	}
	return nil
}

// attachTags loads tags for the given tasks and leaves subtasks unloaded.
func (s *PostgresTaskStore) attachTags(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(tasks))
	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	for _, task := range tasks {
		task.Tags = []*domain.Tag{}
		task.Subtasks = []*domain.Task{}
		ids = append(ids, task.ID)
		byID[task.ID] = task
	}
	return s.loadTags(ctx, ids, byID)
}

// attachChildren loads tags for the given tasks and their direct subtasks,
// then hangs the subtasks (with their own tags) off each parent.
func (s *PostgresTaskStore) attachChildren(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	parentIDs := make([]uuid.UUID, 0, len(tasks))
	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	for _, task := range tasks {
		task.Tags = []*domain.Tag{}
		task.Subtasks = []*domain.Task{}
		parentIDs = append(parentIDs, task.ID)
		byID[task.ID] = task
	}

	subtasks, err := s.listByParents(ctx, parentIDs)
	if err != nil {
		return err
	}

	allIDs := parentIDs
	for _, sub := range subtasks {
		sub.Tags = []*domain.Tag{}
		allIDs = append(allIDs, sub.ID)
		byID[sub.ID] = sub
	}

	if err := s.loadTags(ctx, allIDs, byID); err != nil {
		return err
	}

	for _, sub := range subtasks {
		if parent, ok := byID[*sub.ParentID]; ok {
			parent.Subtasks = append(parent.Subtasks, sub)
		}
	}
	return nil
}

// listByParents returns the direct children of the given tasks, oldest
// first.
func (s *PostgresTaskStore) listByParents(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.Task, error) {
	placeholders, args := uuidPlaceholders(parentIDs)
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_id IN (` + placeholders + `) ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying subtasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// loadTags attaches tags to the tasks in byID.
func (s *PostgresTaskStore) loadTags(ctx context.Context, taskIDs []uuid.UUID, byID map[uuid.UUID]*domain.Task) error {
	placeholders, args := uuidPlaceholders(taskIDs)
	query := `
		SELECT tt.task_id, g.id, g.name, g.color, g.family_id, g.created_at, g.updated_at
		FROM task_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.task_id IN (` + placeholders + `)
		ORDER BY g.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID uuid.UUID
		var tag domain.Tag
		var color sql.NullString
		err := rows.Scan(&taskID, &tag.ID, &tag.Name, &color, &tag.FamilyID, &tag.CreatedAt, &tag.UpdatedAt)
		if err != nil {
			return fmt.Errorf("scanning task tag: %w", err)
		}
		tag.Color = color.String
		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, &tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating task tags: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var assigneeID, createdByID, parentID uuid.NullUUID
	var dueDate sql.NullTime

	err := row.Scan(&task.ID, &task.Title, &description, &task.FamilyID,
		&assigneeID, &createdByID, &dueDate,
		&task.Status, &task.Priority, &task.IsRoutine, &parentID,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if assigneeID.Valid {
		id := assigneeID.UUID
		task.AssigneeID = &id
	}
	if createdByID.Valid {
		id := createdByID.UUID
		task.CreatedByID = &id
	}
	if parentID.Valid {
		id := parentID.UUID
		task.ParentID = &id
	}
	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}
	return &task, nil
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// uuidPlaceholders renders $1..$n placeholders and the matching args for an
// IN clause.
func uuidPlaceholders(ids []uuid.UUID) (string, []interface{}) {
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}
	return strings.Join(placeholders, ", "), args
}

// nullableUUID converts a nil pointer to a NULL-valued parameter.
func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// nullableTime converts a nil pointer to a NULL-valued parameter.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
