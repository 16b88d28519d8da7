package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the /posts router. Reads allow anonymous viewers, who only
// ever see public content; writes require authentication.
func (h *Handler) Routes(authMiddleware, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/{id}", h.GetPost)
		r.Get("/{id}/comments", h.ListComments)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.CreatePost)
		r.Post("/{id}/quote", h.QuotePost)
		r.Delete("/{id}", h.DeletePost)
		r.Post("/{id}/comments", h.AddComment)
	})

	return r
}

// FeedRoutes returns the /feed router (anonymous viewers allowed).
func (h *Handler) FeedRoutes(optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(optionalAuth)

	r.Get("/", h.ListFeed)

	return r
}
