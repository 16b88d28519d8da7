package feed

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/domain/relationship"
	"github.com/ripplehq/ripple-api/internal/domain/user"
	"github.com/ripplehq/ripple-api/internal/pkg/imaging"
	"github.com/ripplehq/ripple-api/internal/pkg/storage"
)

const defaultFeedLimit = 50

// Service handles feed business logic. Every read goes through the
// visibility resolver before anything reaches a viewer.
type Service struct {
	repo      Repository
	userRepo  user.Repository
	resolver  *relationship.Resolver
	store     storage.Storage
	processor *imaging.Processor
}

// NewService creates feed service
func NewService(repo Repository, userRepo user.Repository, resolver *relationship.Resolver, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:      repo,
		userRepo:  userRepo,
		resolver:  resolver,
		store:     store,
		processor: processor,
	}
}

// CreatePost creates a post, denormalizing the owner's privacy flag and
// storing the optional image attachment.
func (s *Service) CreatePost(ctx context.Context, ownerID uuid.UUID, body string, image io.Reader) (*Post, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	p := &Post{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		OwnerIsPrivate: owner.IsPrivate,
		Body:           body,
		CreatedAt:      time.Now(),
	}

	if image != nil {
		if err := s.attachImage(ctx, p, image); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// QuotePost creates a post quoting another. The actor must be able to view
// the quoted post's owner at quote time.
func (s *Service) QuotePost(ctx context.Context, actorID, quotedID uuid.UUID, body string) (*Post, error) {
	quoted, err := s.repo.GetPost(ctx, quotedID)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolver.CanView(ctx, actorID, quoted.OwnerID, quoted.OwnerIsPrivate)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	p := &Post{
		ID:             uuid.New(),
		OwnerID:        actorID,
		OwnerIsPrivate: actor.IsPrivate,
		Body:           body,
		QuotedPostID:   uuid.NullUUID{UUID: quotedID, Valid: true},
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost returns a post if the viewer may see it. Invisible posts read as
// not found rather than forbidden, so existence is not leaked.
func (s *Service) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*PostResponse, error) {
	p, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolver.CanView(ctx, viewerID, p.OwnerID, p.OwnerIsPrivate)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}

	snap, err := s.resolver.SnapshotFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.renderPost(ctx, p, snap), nil
}

// ListFeed returns recent posts the viewer may see, newest first. The whole
// page is scrubbed against one relationship snapshot; re-running the filter
// after a relationship change is the caller's responsibility (the UI
// re-fetches on relationship stream updates).
func (s *Service) ListFeed(ctx context.Context, viewerID uuid.UUID) ([]*PostResponse, error) {
	posts, err := s.repo.ListRecent(ctx, defaultFeedLimit)
	if err != nil {
		return nil, err
	}

	snap, err := s.resolver.SnapshotFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]*PostResponse, 0, len(posts))
	for p := range relationship.FilterVisible(snap, posts) {
		out = append(out, s.renderPost(ctx, p, snap))
	}
	return out, nil
}

// DeletePost deletes the actor's own post and its stored media.
func (s *Service) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	p, err := s.repo.GetPost(ctx, postID)
	if errors.Is(err, ErrPostNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.OwnerID != actorID {
		return ErrNotOwner
	}

	if err := s.repo.DeletePost(ctx, p.ID); err != nil {
		return err
	}

	if p.ImageURL.Valid {
		if err := s.store.Delete(ctx, mediaKey(p.OwnerID, p.ID, "image")); err != nil {
			log.Warn().Err(err).Str("post_id", p.ID.String()).Msg("Failed to delete post image")
		}
		if err := s.store.Delete(ctx, mediaKey(p.OwnerID, p.ID, "thumb")); err != nil {
			log.Warn().Err(err).Str("post_id", p.ID.String()).Msg("Failed to delete post thumbnail")
		}
	}
	return nil
}

// AddComment adds a comment; the actor must be able to view the post.
func (s *Service) AddComment(ctx context.Context, actorID, postID uuid.UUID, body string) (*Comment, error) {
	p, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolver.CanView(ctx, actorID, p.OwnerID, p.OwnerIsPrivate)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}

	c := &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  actorID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments lists a post's comments for a viewer who may see the post.
func (s *Service) ListComments(ctx context.Context, viewerID, postID uuid.UUID) ([]*Comment, error) {
	p, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolver.CanView(ctx, viewerID, p.OwnerID, p.OwnerIsPrivate)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}

	return s.repo.ListComments(ctx, postID)
}

func (s *Service) attachImage(ctx context.Context, p *Post, image io.Reader) error {
	processed, err := s.processor.Process(image)
	if err != nil {
		return fmt.Errorf("image processing failed: %w", err)
	}

	imageKey := mediaKey(p.OwnerID, p.ID, "image")
	thumbKey := mediaKey(p.OwnerID, p.ID, "thumb")

	if err := s.store.Put(ctx, imageKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return err
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return err
	}

	p.ImageURL = sql.NullString{String: s.store.URL(imageKey), Valid: true}
	p.ThumbURL = sql.NullString{String: s.store.URL(thumbKey), Valid: true}
	return nil
}

// renderPost resolves the quoted post, if any, against the same snapshot.
// A quote of an invisible post renders without the quoted body.
func (s *Service) renderPost(ctx context.Context, p *Post, snap *relationship.Snapshot) *PostResponse {
	resp := PostFromEntity(p)
	if !p.QuotedPostID.Valid {
		return resp
	}

	quoted, err := s.repo.GetPost(ctx, p.QuotedPostID.UUID)
	if err != nil {
		resp.Quoted = &QuotedPost{ID: p.QuotedPostID.UUID, Visible: false}
		return resp
	}
	if !snap.CanView(quoted.OwnerID, quoted.OwnerIsPrivate) {
		resp.Quoted = &QuotedPost{ID: quoted.ID, Visible: false}
		return resp
	}

	resp.Quoted = &QuotedPost{
		ID:      quoted.ID,
		OwnerID: quoted.OwnerID,
		Body:    quoted.Body,
		Visible: true,
	}
	return resp
}

func mediaKey(ownerID, postID uuid.UUID, variant string) string {
	return fmt.Sprintf("posts/%s/%s_%s", ownerID, postID, variant)
}
