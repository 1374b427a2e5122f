package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/wodboard/internal/domain/types"
)

// EventDependencies defines the interface for per-event tables.
type EventDependencies interface {
	EventResults(ctx context.Context, eventID, category string) (types.EventResults, error)
}

// EventsHandler handles event table requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleGetEvent handles GET /events/{eventID}/{category} requests.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	res, err := h.deps.EventResults(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "category"))
	if err != nil {
		writeLookupError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// WorkoutDependencies defines the interface for workout descriptions.
type WorkoutDependencies interface {
	Workouts(ctx context.Context) []types.Workout
}

// WorkoutsHandler serves workout descriptions.
type WorkoutsHandler struct {
	deps WorkoutDependencies
}

// NewWorkoutsHandler creates a new workouts handler.
func NewWorkoutsHandler(deps WorkoutDependencies) *WorkoutsHandler {
	return &WorkoutsHandler{deps: deps}
}

// HandleGetWorkouts handles GET /workouts requests.
func (h *WorkoutsHandler) HandleGetWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Workouts(r.Context()))
}
