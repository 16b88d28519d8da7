package auth

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/pkg/response"
	"github.com/ripplehq/ripple-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Register(r.Context(), &input)
	if err != nil {
		if errors.Is(err, ErrHandleAlreadyTaken) {
			response.Conflict(w, ErrHandleAlreadyTaken.Error())
			return
		}
		log.Error().Err(err).Msg("Registration failed")
		response.InternalError(w)
		return
	}

	response.Created(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := response.DecodeJSON(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(input); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Login(r.Context(), &input)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, ErrInvalidCredentials.Error())
			return
		}
		log.Error().Err(err).Msg("Login failed")
		response.InternalError(w)
		return
	}

	response.OK(w, resp)
}
