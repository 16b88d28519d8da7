package relationship

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BlockService owns block and unblock operations. Blocking cascades: any
// friendship between the pair is removed in the same operation, and a block
// in either direction overrides privacy and friendship when visibility is
// resolved.
type BlockService struct {
	repo     Repository
	notifier Notifier
}

// NewBlockService creates the block service
func NewBlockService(repo Repository, notifier Notifier) *BlockService {
	return &BlockService{repo: repo, notifier: notifier}
}

// Block records a directed block and destroys any existing friendship with
// the target. Blocking an already-blocked user is a no-op success.
func (s *BlockService) Block(ctx context.Context, blocker, target uuid.UUID) error {
	if blocker == target {
		return ErrInvalidTarget
	}

	b := &Block{
		ID:        uuid.New(),
		BlockerID: blocker,
		BlockedID: target,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateBlock(ctx, b); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventBlocked, Actor: blocker, Other: target, At: b.CreatedAt})
	return nil
}

// Unblock removes a block the user created. It does not restore any
// friendship the block destroyed. Unblocking a user who was never blocked is
// a no-op success.
func (s *BlockService) Unblock(ctx context.Context, blocker, target uuid.UUID) error {
	if err := s.repo.DeleteBlock(ctx, blocker, target); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventUnblocked, Actor: blocker, Other: target, At: time.Now()})
	return nil
}

// IsBlocked reports whether a block exists between two users in either
// direction.
func (s *BlockService) IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.BlockExists(ctx, a, b)
}

// ListBlocked returns the users this user has blocked. Users who blocked
// them are never included.
func (s *BlockService) ListBlocked(ctx context.Context, userID uuid.UUID) ([]*Block, error) {
	return s.repo.ListBlocks(ctx, userID)
}

// blockedEither returns every counterpart with a block relation in either
// direction. Visibility treats blocks as symmetric, the blocked list shown to
// the user does not.
func (s *BlockService) blockedEither(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListBlockedEither(ctx, userID)
}

func (s *BlockService) publish(ctx context.Context, ev Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Msg("Failed to publish relationship event")
	}
}
