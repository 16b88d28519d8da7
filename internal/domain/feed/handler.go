package feed

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/domain/relationship"
	"github.com/ripplehq/ripple-api/internal/middleware"
	"github.com/ripplehq/ripple-api/internal/pkg/imaging"
	"github.com/ripplehq/ripple-api/internal/pkg/response"
	"github.com/ripplehq/ripple-api/internal/pkg/validator"
)

// Handler handles feed HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates feed handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreatePost handles POST /posts
// Multipart form: body + optional image
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxFileSize)

	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	input := CreatePostInput{Body: r.FormValue("body")}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	var image io.Reader
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		if !imaging.ValidateType(header.Filename) {
			response.BadRequest(w, "Unsupported image type")
			return
		}
		image = file
	}

	actor := middleware.GetUserID(r.Context())
	p, err := h.service.CreatePost(r.Context(), actor, input.Body, image)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.Created(w, PostFromEntity(p))
}

// QuotePost handles POST /posts/{id}/quote
func (h *Handler) QuotePost(w http.ResponseWriter, r *http.Request) {
	quotedID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	var input QuotePostInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	actor := middleware.GetUserID(r.Context())
	p, err := h.service.QuotePost(r.Context(), actor, quotedID, input.Body)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.Created(w, PostFromEntity(p))
}

// GetPost handles GET /posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	viewer := middleware.GetUserID(r.Context())
	p, err := h.service.GetPost(r.Context(), viewer, postID)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.OK(w, p)
}

// ListFeed handles GET /feed
func (h *Handler) ListFeed(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r.Context())
	posts, err := h.service.ListFeed(r.Context(), viewer)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.OK(w, posts)
}

// DeletePost handles DELETE /posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	actor := middleware.GetUserID(r.Context())
	if err := h.service.DeletePost(r.Context(), actor, postID); err != nil {
		h.mapError(w, err)
		return
	}

	response.NoContent(w)
}

// AddComment handles POST /posts/{id}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	var input CreateCommentInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	actor := middleware.GetUserID(r.Context())
	c, err := h.service.AddComment(r.Context(), actor, postID, input.Body)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.Created(w, CommentFromEntity(c))
}

// ListComments handles GET /posts/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	viewer := middleware.GetUserID(r.Context())
	comments, err := h.service.ListComments(r.Context(), viewer, postID)
	if err != nil {
		h.mapError(w, err)
		return
	}

	response.OK(w, CommentsFromEntities(comments))
}

// mapError translates domain errors to HTTP responses
func (h *Handler) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		response.NotFound(w, ErrPostNotFound.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, ErrNotOwner.Error())
	case errors.Is(err, relationship.ErrStoreUnavailable):
		response.ServiceUnavailable(w)
	default:
		log.Error().Err(err).Msg("Unhandled feed error")
		response.InternalError(w)
	}
}
