// internal/app/features/internships/list.go
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

// ServeAvailable lists open internships. No credential is required.
//
// Route: GET /internships/available
func (h *Handler) ServeAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Workflow.ListAvailable(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeAll lists every internship regardless of status.
//
// Route: GET /internships/all
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Workflow.ListAll(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeOne returns a single internship.
//
// Route: GET /internships/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
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
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	in, err := h.Workflow.GetInternship(ctx, actor, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, in)
}
