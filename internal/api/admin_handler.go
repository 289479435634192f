package api

import (
	"net/http"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/service"
)

// AdminHandler serves maintenance endpoints.
type AdminHandler struct {
	routines *service.RoutineService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(routines *service.RoutineService) *AdminHandler {
	return &AdminHandler{routines: routines}
}

// ResetRoutineTasks handles POST /api/admin/reset-routine-tasks, flipping
// every completed routine task back to pending. The same sweep runs at
// startup; this endpoint exists for off-schedule resets.
func (h *AdminHandler) ResetRoutineTasks(w http.ResponseWriter, r *http.Request) {
	n, err := h.routines.ResetCompletedRoutineTasks(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, map[string]int64{"reset_count": n}, "routine tasks reset")
}
