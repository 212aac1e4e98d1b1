// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Handler serves application review.
type Handler struct {
	Workflow *workflow.Service
	Audit    *auditlog.Logger
	ErrLog   *apierrors.ErrorLogger
}

// NewHandler constructs an Applications handler.
func NewHandler(wf *workflow.Service, audit *auditlog.Logger, errLog *apierrors.ErrorLogger) *Handler {
	return &Handler{Workflow: wf, Audit: audit, ErrLog: errLog}
}

// ServeList returns every application joined with its internship title and
// the applicant's handle and email, newest first.
//
// Route: GET /applications
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Workflow.ListApplications(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, rows)
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Message     string             `json:"message"`
	Application models.Application `json:"application"`
}

// HandleSetStatus approves or rejects an application. Decisions may be
// changed any number of times.
//
// Route: PUT /applications/{id}/status
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	id, err := workflow.ParseID(chi.URLParam(r, "id"), "application")
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

	app, err := h.Workflow.DecideApplication(ctx, actor, id, req.Status)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.ApplicationDecided(ctx, r, actor.ID, app.ID, app.InterneeID, app.Status)
	httpjson.Write(w, http.StatusOK, statusResponse{
		Message:     "Application " + app.Status + " successfully",
		Application: app,
	})
}
