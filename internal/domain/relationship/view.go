package relationship

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserDirectory supplies the known user universe for the discoverable bucket.
type UserDirectory interface {
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Member ties a bucket occupant to the relation record behind it, so the UI
// can act (accept, reject, withdraw, remove, unblock) without another lookup.
type Member struct {
	UserID     uuid.UUID `json:"user_id"`
	RelationID uuid.UUID `json:"relation_id"`
}

// Buckets is one consistent snapshot of the five disjoint relationship
// buckets for a viewer. Every known user except the viewer occupies exactly
// one bucket, and the bucket alone determines which action the UI offers.
type Buckets struct {
	Friends      []Member    `json:"friends"`
	Incoming     []Member    `json:"incoming"`
	Outgoing     []Member    `json:"outgoing"`
	Blocked      []Member    `json:"blocked"`
	Discoverable []uuid.UUID `json:"discoverable"`
}

// View derives the five buckets for a single viewer from five independently
// refreshing queries. The queries are never transactionally consistent with
// each other; the view always recomputes from the latest snapshot it has
// from each, and a user landing in two upstream snapshots during the gap is
// resolved by fixed precedence (blocked, friends, incoming, outgoing) until
// the next round of updates corrects it.
type View struct {
	viewer   uuid.UUID
	friends  *Service
	blocks   *BlockService
	users    UserDirectory
	notifier Notifier

	mu           sync.RWMutex
	lastFriends  []*Friendship
	lastIncoming []*Friendship
	lastOutgoing []*Friendship
	lastBlocked  []*Block
	lastUsers    []uuid.UUID
}

// NewView creates the per-viewer relationship aggregate
func NewView(viewer uuid.UUID, friends *Service, blocks *BlockService, users UserDirectory, notifier Notifier) *View {
	return &View{
		viewer:   viewer,
		friends:  friends,
		blocks:   blocks,
		users:    users,
		notifier: notifier,
	}
}

// Refresh re-runs all five queries. Each query updates its snapshot
// independently: a failing query keeps its previous snapshot and the buckets
// are recomputed from whatever is latest, never blocking on full agreement.
// The returned error reports query failures for logging; the buckets are
// valid either way.
func (v *View) Refresh(ctx context.Context) (Buckets, error) {
	var errs []error

	if friends, err := v.friends.ListFriends(ctx, v.viewer); err != nil {
		errs = append(errs, err)
	} else {
		v.mu.Lock()
		v.lastFriends = friends
		v.mu.Unlock()
	}

	if incoming, err := v.friends.ListIncoming(ctx, v.viewer); err != nil {
		errs = append(errs, err)
	} else {
		v.mu.Lock()
		v.lastIncoming = incoming
		v.mu.Unlock()
	}

	if outgoing, err := v.friends.ListOutgoing(ctx, v.viewer); err != nil {
		errs = append(errs, err)
	} else {
		v.mu.Lock()
		v.lastOutgoing = outgoing
		v.mu.Unlock()
	}

	if blocked, err := v.blocks.ListBlocked(ctx, v.viewer); err != nil {
		errs = append(errs, err)
	} else {
		v.mu.Lock()
		v.lastBlocked = blocked
		v.mu.Unlock()
	}

	if users, err := v.users.ListUserIDs(ctx); err != nil {
		errs = append(errs, err)
	} else {
		v.mu.Lock()
		v.lastUsers = users
		v.mu.Unlock()
	}

	return v.Buckets(), errors.Join(errs...)
}

// Buckets computes the five disjoint buckets from the latest snapshots.
func (v *View) Buckets() Buckets {
	v.mu.RLock()
	defer v.mu.RUnlock()

	assigned := map[uuid.UUID]struct{}{v.viewer: {}}
	var b Buckets

	for _, blk := range v.lastBlocked {
		if _, taken := assigned[blk.BlockedID]; taken {
			continue
		}
		assigned[blk.BlockedID] = struct{}{}
		b.Blocked = append(b.Blocked, Member{UserID: blk.BlockedID, RelationID: blk.ID})
	}

	for _, f := range v.lastFriends {
		other := f.Counterpart(v.viewer)
		if _, taken := assigned[other]; taken {
			continue
		}
		assigned[other] = struct{}{}
		b.Friends = append(b.Friends, Member{UserID: other, RelationID: f.ID})
	}

	for _, f := range v.lastIncoming {
		if _, taken := assigned[f.UserA]; taken {
			continue
		}
		assigned[f.UserA] = struct{}{}
		b.Incoming = append(b.Incoming, Member{UserID: f.UserA, RelationID: f.ID})
	}

	for _, f := range v.lastOutgoing {
		if _, taken := assigned[f.UserB]; taken {
			continue
		}
		assigned[f.UserB] = struct{}{}
		b.Outgoing = append(b.Outgoing, Member{UserID: f.UserB, RelationID: f.ID})
	}

	for _, id := range v.lastUsers {
		if _, taken := assigned[id]; taken {
			continue
		}
		assigned[id] = struct{}{}
		b.Discoverable = append(b.Discoverable, id)
	}

	return b
}

// Watch refreshes the view whenever a relationship event touches the viewer
// and delivers recomputed buckets. The initial buckets are delivered first.
// The channel closes when ctx is cancelled. Slow consumers only ever miss
// intermediate states, never the latest one.
func (v *View) Watch(ctx context.Context) <-chan Buckets {
	out := make(chan Buckets, 1)
	events, stop := v.notifier.Subscribe(ctx)

	go func() {
		defer close(out)
		defer stop()

		buckets, err := v.Refresh(ctx)
		if err != nil {
			log.Warn().Err(err).Str("viewer", v.viewer.String()).Msg("Partial relationship view refresh")
		}
		deliver(out, buckets)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !ev.Involves(v.viewer) {
					continue
				}
				buckets, err := v.Refresh(ctx)
				if err != nil {
					log.Warn().Err(err).Str("viewer", v.viewer.String()).Msg("Partial relationship view refresh")
				}
				deliver(out, buckets)
			}
		}
	}()

	return out
}

// deliver replaces a pending undelivered snapshot instead of blocking.
func deliver(out chan Buckets, b Buckets) {
	for {
		select {
		case out <- b:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
