package relationship

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// FriendRoutes returns the /friends router. All routes require authentication.
func (h *Handler) FriendRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListFriends)
	r.Delete("/{id}", h.Remove)

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.SendRequest)
		r.Get("/incoming", h.ListIncoming)
		r.Get("/outgoing", h.ListOutgoing)
		r.Post("/{id}/accept", h.Accept)
		r.Delete("/{id}", h.DeleteRequest)
	})

	return r
}

// BucketRoutes returns the /relationships router. The websocket stream is
// mounted separately in main so the query-token shim can run before auth.
func (h *Handler) BucketRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.GetBuckets)

	return r
}

// MountUserRoutes attaches the block and relation endpoints that live under
// the shared /users subtree.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Get("/me/blocked", h.ListBlocked)
	r.Post("/{id}/block", h.Block)
	r.Delete("/{id}/block", h.Unblock)
	r.Get("/{id}/relationship", h.RelationTo)
}
