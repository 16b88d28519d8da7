package relationship

import (
	"time"

	"github.com/google/uuid"
)

// FriendshipStatus is the stored state of a friendship record.
// A rejected, cancelled or removed relation is deleted, not kept as a
// third status, so a fresh request can always be sent later.
type FriendshipStatus string

const (
	StatusPending  FriendshipStatus = "pending"
	StatusAccepted FriendshipStatus = "accepted"
)

// Friendship is the single record per unordered user pair. UserA is the
// initiator of the request, UserB the recipient.
type Friendship struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	PairKey   string           `db:"pair_key" json:"-"`
	UserA     uuid.UUID        `db:"user_a" json:"user_a"`
	UserB     uuid.UUID        `db:"user_b" json:"user_b"`
	Status    FriendshipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// Counterpart returns the other party of the record from viewer's side.
func (f *Friendship) Counterpart(viewer uuid.UUID) uuid.UUID {
	if f.UserA == viewer {
		return f.UserB
	}
	return f.UserA
}

// IsParty reports whether the given user is one of the two parties.
func (f *Friendship) IsParty(userID uuid.UUID) bool {
	return f.UserA == userID || f.UserB == userID
}

// Block is a directed "blocker blocked target" relation. Visibility treats
// the relation as symmetric; storage does not.
type Block struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BlockerID uuid.UUID `db:"blocker_id" json:"blocker_id"`
	BlockedID uuid.UUID `db:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Relation is the derived relationship status between a viewer and another
// user. It is never stored; it is computed from the single friendship record
// (if any) between the pair.
type Relation string

const (
	RelationNone            Relation = "none"
	RelationPendingSent     Relation = "pending_sent"
	RelationPendingReceived Relation = "pending_received"
	RelationFriends         Relation = "friends"
)

// PairKey returns the canonical key for an unordered user pair. Both orders
// of the same pair map to the same key, which carries the at-most-one-record
// invariant into a unique index instead of a check-then-insert race.
func PairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if as < bs {
		return as + "_" + bs
	}
	return bs + "_" + as
}
