// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts application review under the base path
// (typically "/applications" from bootstrap). All routes are admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeList)
	r.Put("/{id}/status", h.HandleSetStatus)
	return r
}
