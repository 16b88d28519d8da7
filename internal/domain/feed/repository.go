package feed

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines feed data access
type Repository interface {
	CreatePost(ctx context.Context, p *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListRecent(ctx context.Context, limit int) ([]*Post, error)
	UpdateOwnerPrivacy(ctx context.Context, ownerID uuid.UUID, isPrivate bool) error

	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new feed repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePost(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (id, owner_id, owner_is_private, body, image_url, thumb_url, quoted_post_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.OwnerID, p.OwnerIsPrivate, p.Body, p.ImageURL, p.ThumbURL, p.QuotedPostID, p.CreatedAt)
	return err
}

func (r *repository) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	query := `SELECT * FROM posts WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]*Post, error) {
	query := `SELECT * FROM posts ORDER BY created_at DESC LIMIT $1`
	var posts []*Post
	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateOwnerPrivacy re-denormalizes the privacy flag onto the owner's posts
// when they flip it, keeping write-time denormalization honest.
func (r *repository) UpdateOwnerPrivacy(ctx context.Context, ownerID uuid.UUID, isPrivate bool) error {
	query := `UPDATE posts SET owner_is_private = $2 WHERE owner_id = $1`
	_, err := r.db.ExecContext(ctx, query, ownerID, isPrivate)
	return err
}

func (r *repository) CreateComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.PostID, c.AuthorID, c.Body, c.CreatedAt)
	return err
}

func (r *repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	query := `SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at ASC`
	var comments []*Comment
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, err
	}
	return comments, nil
}
