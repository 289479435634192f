package service

import (
	"context"
	"log/slog"

	"github.com/famsync/famsync-api/internal/store"
)

// RoutineService resets completed routine tasks so they come back as
// pending for the next day. It runs at startup and on demand through the
// admin API.
type RoutineService struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewRoutineService creates a RoutineService. If logger is nil the process
// default is used.
func NewRoutineService(tasks store.TaskStore, logger *slog.Logger) *RoutineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoutineService{
		tasks:  tasks,
		logger: logger.With("component", "routine_service"),
	}
}

// ResetCompletedRoutineTasks flips every completed routine task back to
// pending across all families and returns how many tasks were reset.
func (s *RoutineService) ResetCompletedRoutineTasks(ctx context.Context) (int64, error) {
	n, err := s.tasks.ResetCompletedRoutines(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "routine tasks reset", "count", n)
	return n, nil
}
