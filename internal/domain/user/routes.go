package user

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches user endpoints to the shared /users subtree. The
// caller owns the middleware stack; the block and relation endpoints of the
// same subtree belong to the relationship handler.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/me/privacy", h.UpdatePrivacy)
	r.Get("/{id}", h.Get)
}
