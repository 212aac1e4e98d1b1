// internal/app/features/users/audit.go
package users

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/store/audit"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// ServeAudit lists the most recent audit events performed by or affecting
// a user, newest first. ?limit= caps the result (default 50, max 200).
//
// Route: GET /users/{id}/audit
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.ActorFrom(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	userID, err := workflow.ParseID(chi.URLParam(r, "id"), "user")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Audit.GetByUser(ctx, userID, limit)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Internalf(err, "list audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httpjson.Write(w, http.StatusOK, events)
}

func parseLimit(raw string) (int64, error) {
	if raw == "" {
		return defaultAuditLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.New(apperr.InvalidInput, "limit must be a positive integer.")
	}
	if n > maxAuditLimit {
		n = maxAuditLimit
	}
	return int64(n), nil
}
