// internal/app/features/internships/apply.go
package internships

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

type applyResponse struct {
	Message     string             `json:"message"`
	Application models.Application `json:"application"`
}

// HandleApply files (or refreshes) the caller's application without
// details. Applying again resets the status to pending.
//
// Route: POST /internships/{id}/apply
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, err := h.Workflow.Apply(ctx, actor, id, models.ApplicationDetails{})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, applyResponse{Message: "Application submitted", Application: app})
}

// HandleApplyWithDetails files an application with metadata and a PDF
// resume (multipart fields name, university_name, degree, semester and
// file field resume).
//
// Route: POST /internships/{id}/apply_with_details
func (h *Handler) HandleApplyWithDetails(w http.ResponseWriter, r *http.Request) {
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
	if err := formutil.ParseMultipart(w, r, h.MaxUploadBytes); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, hdr, err := formutil.File(r, "resume")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	app, err := h.Intake.ApplyWithDetails(ctx, actor, id,
		intake.ApplicationForm{
			Name:           r.FormValue("name"),
			UniversityName: r.FormValue("university_name"),
			Degree:         r.FormValue("degree"),
			Semester:       r.FormValue("semester"),
		},
		intake.Resume{
			Name:        formutil.BaseName(hdr),
			ContentType: formutil.ContentType(hdr),
			Body:        f,
		})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, applyResponse{Message: "Application submitted with details", Application: app})
}
