package relationship

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for friendship and block records.
// It carries no business rules beyond the uniqueness guarantees the schema
// provides: at most one friendship per unordered pair (pair_key unique index)
// and at most one block per directed pair.
type Repository interface {
	// CreateFriendship inserts a new record. Returns ErrAlreadyRelated if a
	// record for the pair already exists; the check and insert are a single
	// atomic statement keyed on the canonical pair key.
	CreateFriendship(ctx context.Context, f *Friendship) error

	// GetFriendship returns a record by ID, or ErrNotFound.
	GetFriendship(ctx context.Context, id uuid.UUID) (*Friendship, error)

	// GetFriendshipByPair returns the record between two users regardless of
	// direction, or ErrNotFound.
	GetFriendshipByPair(ctx context.Context, a, b uuid.UUID) (*Friendship, error)

	// UpdateFriendshipStatus transitions a record's status. Returns
	// ErrNotFound if the record no longer exists.
	UpdateFriendshipStatus(ctx context.Context, id uuid.UUID, status FriendshipStatus) error

	// DeleteFriendship removes a record. Deleting an absent record is a no-op.
	DeleteFriendship(ctx context.Context, id uuid.UUID) error

	// ListAccepted returns all accepted friendships the user is a party to.
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]*Friendship, error)

	// ListPendingReceived returns pending requests where the user is recipient.
	ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]*Friendship, error)

	// ListPendingSent returns pending requests where the user is initiator.
	ListPendingSent(ctx context.Context, userID uuid.UUID) ([]*Friendship, error)

	// CreateBlock inserts a block record and removes any friendship between
	// the pair in the same transaction. Inserting a duplicate block is a no-op.
	CreateBlock(ctx context.Context, b *Block) error

	// DeleteBlock removes a directed block record. Absent records are a no-op.
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error

	// BlockExists reports whether a block exists between two users in either
	// direction.
	BlockExists(ctx context.Context, a, b uuid.UUID) (bool, error)

	// ListBlocks returns the blocks the user created, newest first. It never
	// includes blocks created against the user.
	ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]*Block, error)

	// ListBlockedEither returns every counterpart the user has a block
	// relation with, in either direction. Used to build visibility snapshots.
	ListBlockedEither(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
