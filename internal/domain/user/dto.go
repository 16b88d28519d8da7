package user

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public shape of a user
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"display_name"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   string    `json:"created_at"`
}

// ProfileFromEntity converts an entity to its public shape
func ProfileFromEntity(u *User) *Profile {
	return &Profile{
		ID:          u.ID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
		IsPrivate:   u.IsPrivate,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// UpdatePrivacyInput for PATCH /users/me/privacy
type UpdatePrivacyInput struct {
	IsPrivate *bool `json:"is_private" validate:"required"`
}
