package feed

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Post is a feed item. The owner's privacy flag is denormalized onto the row
// at write time so visibility filtering never joins against users.
type Post struct {
	ID             uuid.UUID      `db:"id"`
	OwnerID        uuid.UUID      `db:"owner_id"`
	OwnerIsPrivate bool           `db:"owner_is_private"`
	Body           string         `db:"body"`
	ImageURL       sql.NullString `db:"image_url"`
	ThumbURL       sql.NullString `db:"thumb_url"`
	QuotedPostID   uuid.NullUUID  `db:"quoted_post_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

// ContentOwner implements relationship.Content
func (p *Post) ContentOwner() (uuid.UUID, bool) {
	return p.OwnerID, p.OwnerIsPrivate
}

// Comment hangs off a post. Comment visibility follows the post's owner, not
// the comment author.
type Comment struct {
	ID        uuid.UUID `db:"id"`
	PostID    uuid.UUID `db:"post_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
