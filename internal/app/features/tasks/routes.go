// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Task routes under the base path
// (typically "/tasks" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Admin-only routes
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/admin", h.ServeAdminTasks)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/assign", h.HandleAssign)
	})

	// Internee routes
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("internee"))

		pr.Get("/assigned", h.ServeAssigned)
		pr.Post("/{id}/start", h.HandleStart)
		pr.Post("/{id}/submit", h.HandleSubmit)
	})

	return r
}
