// internal/app/features/assignments/handler.go
package assignments

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// Handler lets admins move assignments between pending and in_progress.
type Handler struct {
	Workflow *workflow.Service
	Audit    *auditlog.Logger
	ErrLog   *apierrors.ErrorLogger
}

// NewHandler constructs an Assignments handler.
func NewHandler(wf *workflow.Service, audit *auditlog.Logger, errLog *apierrors.ErrorLogger) *Handler {
	return &Handler{Workflow: wf, Audit: audit, ErrLog: errLog}
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus sets an assignment to pending or in_progress. Leaving
// completed clears the submission reference.
//
// Route: PUT /assignments/{id}/status
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	id, err := workflow.ParseID(chi.URLParam(r, "id"), "assignment")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req statusRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Workflow.SetAssignmentStatus(ctx, actor, id, req.Status)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.AssignmentStatusSet(ctx, r, actor.ID, a.ID, a.InterneeID, a.Status)
	httpjson.Write(w, http.StatusOK, a)
}
