// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
)

// ServeAdminTasks lists the tasks the calling admin created, newest first.
//
// Route: GET /tasks/admin
func (h *Handler) ServeAdminTasks(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Reporting.AdminTasks(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeAssigned lists the caller's assignments with their task details,
// latest due date first.
//
// Route: GET /tasks/assigned
func (h *Handler) ServeAssigned(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Reporting.AssignedTasks(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
