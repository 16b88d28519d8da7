package relationship

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/middleware"
	"github.com/ripplehq/ripple-api/internal/pkg/response"
	"github.com/ripplehq/ripple-api/internal/pkg/validator"
)

// Handler handles relationship HTTP requests
type Handler struct {
	friends  *Service
	blocks   *BlockService
	users    UserDirectory
	notifier Notifier
	upgrader websocket.Upgrader
}

// NewHandler creates relationship handler
func NewHandler(friends *Service, blocks *BlockService, users UserDirectory, notifier Notifier, allowedOrigins []string) *Handler {
	return &Handler{
		friends:  friends,
		blocks:   blocks,
		users:    users,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// SendRequest handles POST /friends/requests
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var input SendRequestInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}
	recipientID, err := uuid.Parse(input.RecipientID)
	if err != nil {
		response.BadRequest(w, "Invalid recipient ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	f, err := h.friends.SendRequest(r.Context(), actor, recipientID)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.Created(w, FriendshipFromEntity(f, actor))
}

// Accept handles POST /friends/requests/{id}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	f, err := h.friends.Accept(r.Context(), requestID, actor)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.OK(w, FriendshipFromEntity(f, actor))
}

// DeleteRequest handles DELETE /friends/requests/{id}: the recipient rejects,
// the initiator withdraws.
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	if err := h.friends.DeletePending(r.Context(), requestID, actor); err != nil {
		h.mapError(w, err)
		return
	}

	response.NoContent(w)
}

// Remove handles DELETE /friends/{id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	friendshipID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid friendship ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	if err := h.friends.Remove(r.Context(), friendshipID, actor); err != nil {
		h.mapError(w, err)
		return
	}

	response.NoContent(w)
}

// ListFriends handles GET /friends
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserID(r.Context())
	fs, err := h.friends.ListFriends(r.Context(), actor)
	if err != nil {
		h.mapError(w, err)
		return
	}
	response.OK(w, FriendshipsFromEntities(fs, actor))
}

// ListIncoming handles GET /friends/requests/incoming
func (h *Handler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserID(r.Context())
	fs, err := h.friends.ListIncoming(r.Context(), actor)
	if err != nil {
		h.mapError(w, err)
		return
	}
	response.OK(w, FriendshipsFromEntities(fs, actor))
}

// ListOutgoing handles GET /friends/requests/outgoing
func (h *Handler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserID(r.Context())
	fs, err := h.friends.ListOutgoing(r.Context(), actor)
	if err != nil {
		h.mapError(w, err)
		return
	}
	response.OK(w, FriendshipsFromEntities(fs, actor))
}

// Block handles POST /users/{id}/block
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	if err := h.blocks.Block(r.Context(), actor, targetID); err != nil {
		h.mapError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Unblock handles DELETE /users/{id}/block
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	if err := h.blocks.Unblock(r.Context(), actor, targetID); err != nil {
		h.mapError(w, err)
		return
	}

	response.NoContent(w)
}

// ListBlocked handles GET /users/me/blocked
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserID(r.Context())
	blocks, err := h.blocks.ListBlocked(r.Context(), actor)
	if err != nil {
		h.mapError(w, err)
		return
	}

	items := make([]*BlockedUserResponse, 0, len(blocks))
	for _, b := range blocks {
		items = append(items, BlockFromEntity(b))
	}
	response.OK(w, items)
}

// RelationTo handles GET /users/{id}/relationship
func (h *Handler) RelationTo(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	rel, err := h.friends.Status(r.Context(), actor, targetID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	blocked, err := h.blocks.IsBlocked(r.Context(), actor, targetID)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.OK(w, RelationResponse{Status: rel, Blocked: blocked})
}

// GetBuckets handles GET /relationships: one consistent snapshot of the five
// disjoint buckets.
func (h *Handler) GetBuckets(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserID(r.Context())
	view := NewView(actor, h.friends, h.blocks, h.users, h.notifier)

	buckets, err := view.Refresh(r.Context())
	if err != nil {
		// This view is per-request, so a failed query has no prior snapshot
		// to fall back on: serving the result would dump blocked users and
		// friends into discoverable. Long-lived views (Watch) keep their last
		// good snapshots instead.
		h.mapError(w, err)
		return
	}

	response.OK(w, buckets)
}

// mapError translates domain errors to HTTP responses
func (h *Handler) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidTarget):
		response.BadRequest(w, ErrInvalidTarget.Error())
	case errors.Is(err, ErrAlreadyRelated):
		response.Conflict(w, ErrAlreadyRelated.Error())
	case errors.Is(err, ErrBlocked):
		response.Conflict(w, "This user cannot be added")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, ErrForbidden.Error())
	case errors.Is(err, ErrStoreUnavailable):
		response.ServiceUnavailable(w)
	default:
		log.Error().Err(err).Msg("Unhandled relationship error")
		response.InternalError(w)
	}
}
