// internal/app/features/tasks/edit.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate adds a task to an internship.
//
// Route: POST /tasks/
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req taskRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	in, err := req.input(true)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Workflow.CreateTask(ctx, actor, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.TaskCreated(ctx, r, actor.ID, task.ID, task.InternshipID)
	httpjson.Write(w, http.StatusOK, task)
}

// HandleUpdate edits a task's title, description and due date. The
// owning internship cannot be changed.
//
// Route: PUT /tasks/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	id, err := workflow.ParseID(chi.URLParam(r, "id"), "task")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req taskRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	in, _ := req.input(false)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Workflow.UpdateTask(ctx, actor, id, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.TaskUpdated(ctx, r, actor.ID, task.ID)
	httpjson.Write(w, http.StatusOK, task)
}

type deleteResponse struct {
	Message            string `json:"message"`
	RemovedAssignments int64  `json:"removed_assignments"`
}

// HandleDelete removes a task and its assignments.
//
// Route: DELETE /tasks/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	id, err := workflow.ParseID(chi.URLParam(r, "id"), "task")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	removed, err := h.Workflow.DeleteTask(ctx, actor, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.TaskDeleted(ctx, r, actor.ID, id, removed)
	httpjson.Write(w, http.StatusOK, deleteResponse{
		Message:            "Task deleted successfully",
		RemovedAssignments: removed,
	})
}
