// internal/app/features/progress/handler.go
package progress

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/reporting"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
)

// Handler serves the internee progress report.
type Handler struct {
	Reporting *reporting.Service
	ErrLog    *apierrors.ErrorLogger
}

// NewHandler constructs a progress handler.
func NewHandler(rep *reporting.Service, errLog *apierrors.ErrorLogger) *Handler {
	return &Handler{Reporting: rep, ErrLog: errLog}
}

// ServeProgress returns per-internee assignment counts, including
// internees with nothing assigned.
//
// Route: GET /internees/progress
func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := h.Reporting.InterneeProgress(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, rows)
}
