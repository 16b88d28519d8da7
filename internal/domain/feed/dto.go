package feed

import (
	"time"

	"github.com/google/uuid"
)

// CreatePostInput for post creation (the image rides the multipart form)
type CreatePostInput struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// QuotePostInput for quoting an existing post
type QuotePostInput struct {
	Body string `json:"body" validate:"max=2000"`
}

// CreateCommentInput for commenting on a post
type CreateCommentInput struct {
	Body string `json:"body" validate:"required,max=1000"`
}

// QuotedPost is the embedded rendition of a quoted post. When the viewer
// may not see the quoted owner, only the ID and Visible=false are returned.
type QuotedPost struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id,omitempty"`
	Body    string    `json:"body,omitempty"`
	Visible bool      `json:"visible"`
}

// PostResponse for API responses
type PostResponse struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Body      string      `json:"body"`
	ImageURL  string      `json:"image_url,omitempty"`
	ThumbURL  string      `json:"thumb_url,omitempty"`
	Quoted    *QuotedPost `json:"quoted,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// PostFromEntity converts post to response DTO
func PostFromEntity(p *Post) *PostResponse {
	resp := &PostResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
	}
	if p.ImageURL.Valid {
		resp.ImageURL = p.ImageURL.String
	}
	if p.ThumbURL.Valid {
		resp.ThumbURL = p.ThumbURL.String
	}
	return resp
}

// CommentResponse for API responses
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentFromEntity converts comment to response DTO
func CommentFromEntity(c *Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// CommentsFromEntities converts a slice of comments
func CommentsFromEntities(comments []*Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentFromEntity(c))
	}
	return out
}
