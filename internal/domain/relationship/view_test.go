package relationship

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	ids []uuid.UUID
}

func (d *fakeDirectory) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.ids, nil
}

func bucketOf(b Buckets, id uuid.UUID) string {
	for _, m := range b.Friends {
		if m.UserID == id {
			return "friends"
		}
	}
	for _, m := range b.Incoming {
		if m.UserID == id {
			return "incoming"
		}
	}
	for _, m := range b.Outgoing {
		if m.UserID == id {
			return "outgoing"
		}
	}
	for _, m := range b.Blocked {
		if m.UserID == id {
			return "blocked"
		}
	}
	for _, d := range b.Discoverable {
		if d == id {
			return "discoverable"
		}
	}
	return ""
}

func TestBucketsPartitionUsers(t *testing.T) {
	repo := newFakeRepo()
	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)

	viewer := uuid.New()
	friendID := uuid.New()
	incomingID := uuid.New()
	outgoingID := uuid.New()
	blockedID := uuid.New()
	strangerID := uuid.New()

	befriend(t, repo, viewer, friendID)
	if _, err := friends.SendRequest(context.Background(), incomingID, viewer); err != nil {
		t.Fatalf("incoming request: %v", err)
	}
	if _, err := friends.SendRequest(context.Background(), viewer, outgoingID); err != nil {
		t.Fatalf("outgoing request: %v", err)
	}
	if err := blocks.Block(context.Background(), viewer, blockedID); err != nil {
		t.Fatalf("Block: %v", err)
	}

	all := []uuid.UUID{viewer, friendID, incomingID, outgoingID, blockedID, strangerID}
	view := NewView(viewer, friends, blocks, &fakeDirectory{ids: all}, nil)

	buckets, err := view.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	want := map[uuid.UUID]string{
		friendID:   "friends",
		incomingID: "incoming",
		outgoingID: "outgoing",
		blockedID:  "blocked",
		strangerID: "discoverable",
	}
	for id, wantBucket := range want {
		if got := bucketOf(buckets, id); got != wantBucket {
			t.Errorf("user %s in bucket %q, want %q", id, got, wantBucket)
		}
	}
	if got := bucketOf(buckets, viewer); got != "" {
		t.Errorf("viewer appeared in bucket %q", got)
	}

	total := len(buckets.Friends) + len(buckets.Incoming) + len(buckets.Outgoing) +
		len(buckets.Blocked) + len(buckets.Discoverable)
	if total != len(all)-1 {
		t.Errorf("bucket occupancy = %d, want %d", total, len(all)-1)
	}
}

func TestBucketsPrecedenceUnderOverlap(t *testing.T) {
	repo := newFakeRepo()
	viewer, other := uuid.New(), uuid.New()

	// Stage the repo so the same user shows up as both friend and blocked,
	// the way two queries racing a block cascade would see it.
	f := &Friendship{
		ID:      uuid.New(),
		PairKey: PairKey(viewer, other),
		UserA:   viewer,
		UserB:   other,
		Status:  StatusAccepted,
	}
	repo.friendships[f.ID] = f
	repo.blocks = append(repo.blocks, &Block{
		ID:        uuid.New(),
		BlockerID: viewer,
		BlockedID: other,
	})

	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)
	view := NewView(viewer, friends, blocks, &fakeDirectory{ids: []uuid.UUID{viewer, other}}, nil)

	buckets, err := view.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := bucketOf(buckets, other); got != "blocked" {
		t.Errorf("overlapping user in bucket %q, want %q", got, "blocked")
	}
	if len(buckets.Friends) != 0 {
		t.Errorf("friends bucket has %d members, want 0", len(buckets.Friends))
	}
}

func TestRefreshKeepsSnapshotsOnFailure(t *testing.T) {
	repo := newFakeRepo()
	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)

	viewer, friendID := uuid.New(), uuid.New()
	befriend(t, repo, viewer, friendID)

	view := NewView(viewer, friends, blocks, &fakeDirectory{ids: []uuid.UUID{viewer, friendID}}, nil)
	if _, err := view.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	repo.err = errors.New("store down")
	buckets, err := view.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh with failing store returned nil error")
	}

	// The view keeps serving the last good snapshots.
	if got := bucketOf(buckets, friendID); got != "friends" {
		t.Errorf("user in bucket %q after failed refresh, want %q", got, "friends")
	}
}

func TestWatchDeliversOnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newFakeRepo()
	notifier := NewMemoryNotifier()
	friends := NewService(repo, notifier)
	blocks := NewBlockService(repo, notifier)

	viewer, other := uuid.New(), uuid.New()
	view := NewView(viewer, friends, blocks, &fakeDirectory{ids: []uuid.UUID{viewer, other}}, notifier)

	updates := view.Watch(ctx)

	recv := func() Buckets {
		t.Helper()
		select {
		case b, ok := <-updates:
			if !ok {
				t.Fatal("updates channel closed")
			}
			return b
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for buckets")
			return Buckets{}
		}
	}

	initial := recv()
	if got := bucketOf(initial, other); got != "discoverable" {
		t.Errorf("initial bucket = %q, want %q", got, "discoverable")
	}

	if _, err := friends.SendRequest(ctx, viewer, other); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	// The channel holds at most the latest snapshot, so waiting for the
	// outgoing state converges even if intermediate deliveries are replaced.
	deadline := time.After(2 * time.Second)
	for {
		b := recv()
		if bucketOf(b, other) == "outgoing" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("never observed outgoing bucket")
		default:
		}
	}

	cancel()
	select {
	case _, ok := <-updates:
		if ok {
			// A final snapshot may be in flight; the close follows.
			if _, ok := <-updates; ok {
				t.Error("updates channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("updates channel not closed after cancel")
	}
}

func TestWatchIgnoresUnrelatedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newFakeRepo()
	notifier := NewMemoryNotifier()
	friends := NewService(repo, notifier)
	blocks := NewBlockService(repo, notifier)

	viewer := uuid.New()
	view := NewView(viewer, friends, blocks, &fakeDirectory{}, notifier)

	updates := view.Watch(ctx)

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("no initial delivery")
	}

	// A mutation between two strangers must not wake this viewer.
	if _, err := friends.SendRequest(ctx, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	select {
	case <-updates:
		t.Error("received buckets for an unrelated event")
	case <-time.After(100 * time.Millisecond):
	}
}
