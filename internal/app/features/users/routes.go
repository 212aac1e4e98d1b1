// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user endpoints (typically under "/users").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/internees", h.ServeInternees)
		pr.Get("/{id}/audit", h.ServeAudit)
	})

	return r
}
