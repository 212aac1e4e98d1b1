// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts assignment administration (typically under "/assignments").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Put("/{id}/status", h.HandleSetStatus)
	return r
}
