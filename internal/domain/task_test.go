package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	familyID := uuid.New()
	creatorID := uuid.New()

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Take out trash", familyID, creatorID)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
		assert.False(t, task.IsRoutine)
		require.NotNil(t, task.CreatedByID)
		assert.Equal(t, creatorID, *task.CreatedByID)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask("", familyID, creatorID)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Task {
		task, err := NewTask("Homework", uuid.New(), uuid.New())
		require.NoError(t, err)
		return task
	}

	t.Run("bad status", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Status = TaskStatus("done")
		assert.ErrorIs(t, task.Validate(), ErrInvalidStatus)
	})

	t.Run("bad priority", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Priority = TaskPriority("urgent")
		assert.ErrorIs(t, task.Validate(), ErrInvalidPriority)
	})
}

func TestParseDueDate(t *testing.T) {
	t.Parallel()

	t.Run("date only", func(t *testing.T) {
		t.Parallel()
		d, err := ParseDueDate("2026-03-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("rfc3339 timestamp keeps the date", func(t *testing.T) {
		t.Parallel()
		d, err := ParseDueDate("2026-03-15T18:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("malformed input rejected", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"15/03/2026", "tomorrow", "2026-13-40", ""} {
			_, err := ParseDueDate(raw)
			assert.ErrorIs(t, err, ErrInvalidDueDate, "input %q should be rejected", raw)
		}
	})
}
