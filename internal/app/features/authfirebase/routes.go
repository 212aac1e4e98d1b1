// internal/app/features/authfirebase/routes.go
package authfirebase

import "github.com/go-chi/chi/v5"

// Routes returns the public identity endpoints. They are mounted at the
// root, so paths are absolute.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/firebase-register", h.HandleRegister)
	r.Post("/firebase-login", h.HandleLogin)
	r.Post("/token", h.HandlePasswordToken)
	return r
}
