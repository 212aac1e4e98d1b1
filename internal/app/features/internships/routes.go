// internal/app/features/internships/routes.go
package internships

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Internship routes under the base path
// (typically "/internships" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Public listing
	r.Get("/available", h.ServeAvailable)

	// Admin-only routes
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/all", h.ServeAll)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeOne)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	// Internee routes
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("internee"))

		pr.Post("/{id}/apply", h.HandleApply)
		pr.Post("/{id}/apply_with_details", h.HandleApplyWithDetails)
	})

	return r
}
