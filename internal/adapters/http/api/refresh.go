package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/domain/types"
)

// RefreshDependencies defines the interface for on-demand recomputation.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (types.RefreshReport, error)
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh requests. A refresh that could not
// publish new boards answers 503 with the report of what was attempted; a
// request that overlaps a running refresh answers 409.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	report, err := h.deps.Refresh(r.Context())
	if err != nil {
		if report.Outcome == "" {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, service.ErrRefreshInProgress) {
				writeError(w, http.StatusConflict, "refresh_in_progress", WrapKind(op, ErrConflict, err))
				return
			}
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeJSON(w, http.StatusServiceUnavailable, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
