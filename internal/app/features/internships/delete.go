// internal/app/features/internships/delete.go
package internships

import (
	"context"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type deleteResponse struct {
	Success bool                       `json:"success"`
	Data    workflow.DeletedInternship `json:"data"`
	Message string                     `json:"message"`
}

// HandleDelete removes an internship together with its tasks, their
// assignments and all applications to it, in one transaction.
//
// Route: DELETE /internships/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	id, err := workflow.ParseID(chi.URLParam(r, "id"), "internship")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Workflow.DeleteInternship(ctx, actor, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Log.Info("internship deleted",
		zap.String("internship_id", id.Hex()),
		zap.Int64("tasks", res.Removed.Tasks),
		zap.Int64("assignments", res.Removed.Assignments),
		zap.Int64("applications", res.Removed.Applications))
	h.Audit.InternshipDeleted(ctx, r, actor.ID, id)

	httpjson.Write(w, http.StatusOK, deleteResponse{
		Success: true,
		Data:    res,
		Message: "Internship deleted successfully",
	})
}
