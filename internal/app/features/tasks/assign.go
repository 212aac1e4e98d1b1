// internal/app/features/tasks/assign.go
package tasks

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleAssign assigns the task to an internee. The internee id is read
// from the query string (?internee_id=) or a JSON body.
//
// Route: POST /tasks/{id}/assign
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	taskID, err := workflow.ParseID(chi.URLParam(r, "id"), "task")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("internee_id"))
	if raw == "" {
		var req assignRequest
		if err := httpjson.Decode(w, r, &req); err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		raw = req.InterneeID
	}
	interneeID, err := workflow.ParseID(raw, "internee")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Workflow.AssignTask(ctx, actor, taskID, interneeID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.TaskAssigned(ctx, r, actor.ID, taskID, interneeID)
	httpjson.Write(w, http.StatusOK, a)
}
