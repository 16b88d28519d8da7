package relationship

import (
	"context"
	"iter"

	"github.com/google/uuid"
)

// Content is anything the resolver can make a visibility decision about.
// The owner's privacy flag is denormalized onto the item at write time, so
// resolving never joins against the user table.
type Content interface {
	ContentOwner() (ownerID uuid.UUID, ownerIsPrivate bool)
}

// Resolver combines block state, the owner's privacy flag and friendship
// state into a single allow/deny decision. It owns no state of its own.
type Resolver struct {
	friends *Service
	blocks  *BlockService
}

// NewResolver creates a visibility resolver
func NewResolver(friends *Service, blocks *BlockService) *Resolver {
	return &Resolver{friends: friends, blocks: blocks}
}

// CanView decides whether viewer may see content owned by owner.
// uuid.Nil as viewer means unauthenticated. Decision order: self, then
// anonymous, then block (which overrides everything), then privacy, then
// friendship.
func (r *Resolver) CanView(ctx context.Context, viewer, owner uuid.UUID, ownerIsPrivate bool) (bool, error) {
	if viewer == owner {
		return true, nil
	}
	if viewer == uuid.Nil {
		return !ownerIsPrivate, nil
	}

	blocked, err := r.blocks.IsBlocked(ctx, viewer, owner)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	if !ownerIsPrivate {
		return true, nil
	}

	rel, err := r.friends.Status(ctx, owner, viewer)
	if err != nil {
		return false, err
	}
	return rel == RelationFriends, nil
}

// Snapshot is a point-in-time view of one viewer's relationship graph:
// who they are friends with and who they have a block relation with, in
// either direction. Decisions over a snapshot are pure, so one snapshot
// scrubs a whole page of mixed-owner content.
type Snapshot struct {
	Viewer  uuid.UUID
	friends map[uuid.UUID]struct{}
	blocked map[uuid.UUID]struct{}
}

// SnapshotFor builds a visibility snapshot for the viewer. For an
// unauthenticated viewer (uuid.Nil) the snapshot is empty and only public
// content passes.
func (r *Resolver) SnapshotFor(ctx context.Context, viewer uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{
		Viewer:  viewer,
		friends: make(map[uuid.UUID]struct{}),
		blocked: make(map[uuid.UUID]struct{}),
	}
	if viewer == uuid.Nil {
		return snap, nil
	}

	friendships, err := r.friends.ListFriends(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, f := range friendships {
		snap.friends[f.Counterpart(viewer)] = struct{}{}
	}

	either, err := r.blocks.blockedEither(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, id := range either {
		snap.blocked[id] = struct{}{}
	}

	return snap, nil
}

// CanView is the pure, snapshot-backed form of Resolver.CanView.
func (s *Snapshot) CanView(owner uuid.UUID, ownerIsPrivate bool) bool {
	if s.Viewer == owner {
		return true
	}
	if s.Viewer == uuid.Nil {
		return !ownerIsPrivate
	}
	if _, ok := s.blocked[owner]; ok {
		return false
	}
	if !ownerIsPrivate {
		return true
	}
	_, ok := s.friends[owner]
	return ok
}

// FilterContent builds a snapshot for the viewer and returns the visible
// subset of items in their original order. The returned sequence is lazy and
// restartable; a single pass evaluates each item exactly once. Re-run it
// whenever the viewer's relationship or block graph changes, not only when
// content changes.
func FilterContent[T Content](ctx context.Context, r *Resolver, viewer uuid.UUID, items []T) (iter.Seq[T], error) {
	snap, err := r.SnapshotFor(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return FilterVisible(snap, items), nil
}

// FilterVisible filters items against an existing snapshot.
func FilterVisible[T Content](snap *Snapshot, items []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			owner, private := item.ContentOwner()
			if !snap.CanView(owner, private) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}
