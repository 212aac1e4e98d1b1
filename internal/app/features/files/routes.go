// internal/app/features/files/routes.go
package files

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts artifact downloads (typically under "/files").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/{owner_id}/{name}", h.ServeFile)
	return r
}
