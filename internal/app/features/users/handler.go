// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/identity"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/store/audit"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
)

// Handler serves user lookups.
type Handler struct {
	Identity *identity.Service
	Workflow *workflow.Service
	Audit    *audit.Store
	ErrLog   *apierrors.ErrorLogger
}

// NewHandler constructs a users handler.
func NewHandler(id *identity.Service, wf *workflow.Service, auditStore *audit.Store, errLog *apierrors.ErrorLogger) *Handler {
	return &Handler{Identity: id, Workflow: wf, Audit: auditStore, ErrLog: errLog}
}

// ServeMe returns the caller's own record.
//
// Route: GET /users/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Identity.Me(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// ServeInternees lists every internee, newest first.
//
// Route: GET /users/internees
func (h *Handler) ServeInternees(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Workflow.ListInternees(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
