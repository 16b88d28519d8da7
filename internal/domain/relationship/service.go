package relationship

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service owns the friendship state machine: request, accept, reject,
// cancel, remove, and the derived relation between any two users.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates the friendship service
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// SendRequest creates a pending friendship with initiator as UserA.
// Duplicate protection rides on the canonical pair key, so two users
// requesting each other at the same time produce exactly one record.
// A block in either direction fails the request with ErrBlocked; letting it
// through would let an accept violate the block cascade invariant.
func (s *Service) SendRequest(ctx context.Context, initiator, recipient uuid.UUID) (*Friendship, error) {
	if initiator == recipient {
		return nil, ErrInvalidTarget
	}

	blocked, err := s.repo.BlockExists(ctx, initiator, recipient)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	now := time.Now()
	f := &Friendship{
		ID:        uuid.New(),
		PairKey:   PairKey(initiator, recipient),
		UserA:     initiator,
		UserB:     recipient,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateFriendship(ctx, f); err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventRequested, Actor: initiator, Other: recipient, At: now})
	return f, nil
}

// Accept transitions a pending request to accepted. Only the recipient may
// accept.
func (s *Service) Accept(ctx context.Context, requestID, actor uuid.UUID) (*Friendship, error) {
	f, err := s.repo.GetFriendship(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if f.Status != StatusPending {
		return nil, ErrNotFound
	}
	if f.UserB != actor {
		return nil, ErrForbidden
	}

	if err := s.repo.UpdateFriendshipStatus(ctx, f.ID, StatusAccepted); err != nil {
		return nil, err
	}
	f.Status = StatusAccepted
	f.UpdatedAt = time.Now()

	s.publish(ctx, Event{Type: EventAccepted, Actor: actor, Other: f.UserA, At: f.UpdatedAt})
	return f, nil
}

// Reject deletes a pending request; called by the recipient.
func (s *Service) Reject(ctx context.Context, requestID, actor uuid.UUID) error {
	return s.deletePending(ctx, requestID, actor, "reject")
}

// Cancel deletes a pending request; called by the initiator. Same data
// effect as Reject, kept separate for audit and messaging.
func (s *Service) Cancel(ctx context.Context, requestID, actor uuid.UUID) error {
	return s.deletePending(ctx, requestID, actor, "cancel")
}

// DeletePending removes a pending request on behalf of either side: the
// recipient's delete is a reject, the initiator's a cancel.
func (s *Service) DeletePending(ctx context.Context, requestID, actor uuid.UUID) error {
	f, err := s.repo.GetFriendship(ctx, requestID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if f.UserB == actor {
		return s.Reject(ctx, requestID, actor)
	}
	return s.Cancel(ctx, requestID, actor)
}

func (s *Service) deletePending(ctx context.Context, requestID, actor uuid.UUID, op string) error {
	f, err := s.repo.GetFriendship(ctx, requestID)
	if errors.Is(err, ErrNotFound) {
		// Already gone; a double click or a listener racing the delete.
		return nil
	}
	if err != nil {
		return err
	}
	if !f.IsParty(actor) {
		return ErrForbidden
	}
	if f.Status != StatusPending {
		// The request was accepted before the delete arrived. Removing the
		// friendship now is Remove's job, not a stale reject/cancel's.
		log.Debug().Str("op", op).Str("friendship_id", f.ID.String()).Msg("Stale pending delete ignored")
		return nil
	}

	if err := s.repo.DeleteFriendship(ctx, f.ID); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventRemoved, Actor: actor, Other: f.Counterpart(actor), At: time.Now()})
	return nil
}

// Remove deletes a friendship record. Either party may call it, and removing
// an already-removed relation is a no-op success.
func (s *Service) Remove(ctx context.Context, friendshipID, actor uuid.UUID) error {
	f, err := s.repo.GetFriendship(ctx, friendshipID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !f.IsParty(actor) {
		return ErrForbidden
	}
	if f.Status != StatusAccepted {
		// Still pending: dropping the request is Reject/Cancel's job, and
		// those keep the audit distinction a remove would collapse.
		log.Debug().Str("friendship_id", f.ID.String()).Msg("Remove of non-accepted relation ignored")
		return nil
	}

	if err := s.repo.DeleteFriendship(ctx, f.ID); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventRemoved, Actor: actor, Other: f.Counterpart(actor), At: time.Now()})
	return nil
}

// Status returns the derived relation between viewer and other.
func (s *Service) Status(ctx context.Context, viewer, other uuid.UUID) (Relation, error) {
	f, err := s.repo.GetFriendshipByPair(ctx, viewer, other)
	if errors.Is(err, ErrNotFound) {
		return RelationNone, nil
	}
	if err != nil {
		return RelationNone, err
	}

	if f.Status == StatusAccepted {
		return RelationFriends, nil
	}
	if f.UserA == viewer {
		return RelationPendingSent, nil
	}
	return RelationPendingReceived, nil
}

// ListFriends returns the user's accepted friendships.
func (s *Service) ListFriends(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	return s.repo.ListAccepted(ctx, userID)
}

// ListIncoming returns pending requests sent to the user.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	return s.repo.ListPendingReceived(ctx, userID)
}

// ListOutgoing returns pending requests the user has sent.
func (s *Service) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	return s.repo.ListPendingSent(ctx, userID)
}

// publish is best effort: a lost event delays observers until the next one,
// it never fails the mutation that already committed.
func (s *Service) publish(ctx context.Context, ev Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Msg("Failed to publish relationship event")
	}
}
