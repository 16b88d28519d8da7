package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/middleware"
	"github.com/ripplehq/ripple-api/internal/pkg/response"
	"github.com/ripplehq/ripple-api/internal/pkg/validator"
)

// PrivacyListener is notified after a user flips their privacy flag, so
// denormalized copies of it elsewhere stay in sync.
type PrivacyListener interface {
	UpdateOwnerPrivacy(ctx context.Context, ownerID uuid.UUID, isPrivate bool) error
}

// Handler handles user HTTP requests
type Handler struct {
	repo    Repository
	privacy PrivacyListener
}

// NewHandler creates user handler. privacy may be nil.
func NewHandler(repo Repository, privacy PrivacyListener) *Handler {
	return &Handler{repo: repo, privacy: privacy}
}

// List handles GET /users: the candidate universe the UI derives its
// discoverable list from.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	profiles := make([]*Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, ProfileFromEntity(u))
	}
	response.OK(w, profiles)
}

// Get handles GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, ProfileFromEntity(u))
}

// UpdatePrivacy handles PATCH /users/me/privacy
func (h *Handler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	var input UpdatePrivacyInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.repo.UpdatePrivacy(r.Context(), userID, *input.IsPrivate); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	if h.privacy != nil {
		if err := h.privacy.UpdateOwnerPrivacy(r.Context(), userID, *input.IsPrivate); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to propagate privacy change")
		}
	}

	response.OK(w, map[string]bool{"is_private": *input.IsPrivate})
}
