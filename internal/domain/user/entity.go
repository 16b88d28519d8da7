package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account. IsPrivate gates content visibility: private
// users' content is only visible to accepted friends.
type User struct {
	ID           uuid.UUID `db:"id"`
	Handle       string    `db:"handle"`
	DisplayName  string    `db:"display_name"`
	IsPrivate    bool      `db:"is_private"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
