// internal/app/features/tasks/submit.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/services/intake"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/formutil"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleStart marks the caller's assignment of the task in progress.
//
// Route: POST /tasks/{id}/start
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Workflow.StartTask(ctx, actor, taskID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, a)
}

type submitResponse struct {
	Message    string                `json:"message"`
	Assignment models.TaskAssignment `json:"assignment"`
}

// HandleSubmit stores the uploaded work (multipart file field "file") and
// completes the caller's assignment.
//
// Route: POST /tasks/{id}/submit
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
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
	if err := formutil.ParseMultipart(w, r, h.MaxUploadBytes); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, hdr, err := formutil.File(r, "file")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	a, err := h.Intake.Submit(ctx, actor, taskID, intake.Upload{
		Name:        formutil.BaseName(hdr),
		ContentType: formutil.ContentType(hdr),
		Body:        f,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, submitResponse{Message: "Task submitted successfully", Assignment: a})
}
