// internal/app/features/internships/edit.go
package internships

import (
	"context"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate publishes a new internship.
//
// Route: POST /internships/
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req internshipRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	in, err := h.Workflow.CreateInternship(ctx, actor, req.input())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.InternshipCreated(ctx, r, actor.ID, in.ID, in.Title)
	httpjson.Write(w, http.StatusOK, in)
}

// HandleUpdate replaces an internship's title, description and status.
//
// Route: PUT /internships/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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
	var req internshipRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	in, err := h.Workflow.UpdateInternship(ctx, actor, id, req.input())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.InternshipUpdated(ctx, r, actor.ID, in.ID, in.Status)
	httpjson.Write(w, http.StatusOK, in)
}
