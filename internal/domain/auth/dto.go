package auth

import "github.com/ripplehq/ripple-api/internal/domain/user"

// RegisterInput for POST /auth/register
type RegisterInput struct {
	Handle      string `json:"handle" validate:"required,handle"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=80"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	IsPrivate   bool   `json:"is_private"`
}

// LoginInput for POST /auth/login
type LoginInput struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the access token and the authenticated profile
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	User        *user.Profile `json:"user"`
}
