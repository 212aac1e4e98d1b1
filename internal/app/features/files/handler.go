// internal/app/features/files/handler.go
package files

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/intake"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves stored submissions and resumes.
type Handler struct {
	Intake *intake.Service
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a files handler.
func NewHandler(in *intake.Service, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Intake: in, ErrLog: errLog, Log: logger}
}

// ServeFile streams an artifact, or redirects to a presigned URL when the
// store supports it. Admins may read any artifact; internees only their own.
//
// Route: GET /files/{owner_id}/{name}
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	art, err := h.Intake.Fetch(ctx, actor, chi.URLParam(r, "owner_id"), chi.URLParam(r, "name"))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if art.RedirectURL != "" {
		http.Redirect(w, r, art.RedirectURL, http.StatusFound)
		return
	}
	defer art.Body.Close()

	name := path.Base(art.Key)
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, art.Body); err != nil {
		h.Log.Warn("artifact stream interrupted", zap.String("key", art.Key), zap.Error(err))
	}
}
