// internal/app/features/progress/routes.go
package progress

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the progress report (typically under "/internees").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/progress", h.ServeProgress)
	return r
}
