package relationship

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type testItem struct {
	name    string
	owner   uuid.UUID
	private bool
}

func (i testItem) ContentOwner() (uuid.UUID, bool) {
	return i.owner, i.private
}

func newTestResolver(repo *fakeRepo) *Resolver {
	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)
	return NewResolver(friends, blocks)
}

func befriend(t *testing.T, repo *fakeRepo, a, b uuid.UUID) {
	t.Helper()
	svc := NewService(repo, nil)
	f, err := svc.SendRequest(context.Background(), a, b)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := svc.Accept(context.Background(), f.ID, b); err != nil {
		t.Fatalf("Accept: %v", err)
	}
}

func TestCanView(t *testing.T) {
	repo := newFakeRepo()
	resolver := newTestResolver(repo)

	owner := uuid.New()
	friend := uuid.New()
	stranger := uuid.New()
	blocked := uuid.New()
	pending := uuid.New()

	befriend(t, repo, owner, friend)
	blockSvc := NewBlockService(repo, nil)
	if err := blockSvc.Block(context.Background(), owner, blocked); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if _, err := NewService(repo, nil).SendRequest(context.Background(), pending, owner); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	tests := []struct {
		name    string
		viewer  uuid.UUID
		private bool
		want    bool
	}{
		{"self sees own private", owner, true, true},
		{"anonymous sees public", uuid.Nil, false, true},
		{"anonymous denied private", uuid.Nil, true, false},
		{"stranger sees public", stranger, false, true},
		{"stranger denied private", stranger, true, false},
		{"friend sees private", friend, true, true},
		{"blocked denied public", blocked, false, false},
		{"blocked denied private", blocked, true, false},
		{"pending request denied private", pending, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.CanView(context.Background(), tt.viewer, owner, tt.private)
			if err != nil {
				t.Fatalf("CanView: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockOverridesFriendship(t *testing.T) {
	repo := newFakeRepo()
	resolver := newTestResolver(repo)
	owner, other := uuid.New(), uuid.New()

	befriend(t, repo, owner, other)

	// The reverse-direction block also hides the owner.
	blockSvc := NewBlockService(repo, nil)
	if err := blockSvc.Block(context.Background(), other, owner); err != nil {
		t.Fatalf("Block: %v", err)
	}

	got, err := resolver.CanView(context.Background(), other, owner, false)
	if err != nil {
		t.Fatalf("CanView: %v", err)
	}
	if got {
		t.Error("block did not override public visibility")
	}
}

func TestSnapshotMatchesResolver(t *testing.T) {
	repo := newFakeRepo()
	resolver := newTestResolver(repo)

	viewer := uuid.New()
	friend := uuid.New()
	blocked := uuid.New()
	stranger := uuid.New()

	befriend(t, repo, viewer, friend)
	blockSvc := NewBlockService(repo, nil)
	if err := blockSvc.Block(context.Background(), blocked, viewer); err != nil {
		t.Fatalf("Block: %v", err)
	}

	snap, err := resolver.SnapshotFor(context.Background(), viewer)
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}

	for _, owner := range []uuid.UUID{viewer, friend, blocked, stranger} {
		for _, private := range []bool{false, true} {
			live, err := resolver.CanView(context.Background(), viewer, owner, private)
			if err != nil {
				t.Fatalf("CanView: %v", err)
			}
			if got := snap.CanView(owner, private); got != live {
				t.Errorf("snapshot CanView(%s, %v) = %v, live = %v", owner, private, got, live)
			}
		}
	}
}

func TestFilterContentKeepsOrder(t *testing.T) {
	repo := newFakeRepo()
	resolver := newTestResolver(repo)

	viewer := uuid.New()
	friend := uuid.New()
	stranger := uuid.New()
	befriend(t, repo, viewer, friend)

	items := []testItem{
		{"public stranger", stranger, false},
		{"private friend", friend, true},
		{"private stranger", stranger, true},
		{"own private", viewer, true},
	}

	seq, err := FilterContent(context.Background(), resolver, viewer, items)
	if err != nil {
		t.Fatalf("FilterContent: %v", err)
	}

	var got []string
	for item := range seq {
		got = append(got, item.name)
	}

	want := []string{"public stranger", "private friend", "own private"}
	if len(got) != len(want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visible[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFilterVisibleRestartable(t *testing.T) {
	snap := &Snapshot{
		Viewer:  uuid.New(),
		friends: map[uuid.UUID]struct{}{},
		blocked: map[uuid.UUID]struct{}{},
	}
	items := []testItem{
		{"a", uuid.New(), false},
		{"b", uuid.New(), false},
		{"c", uuid.New(), true},
	}

	seq := FilterVisible(snap, items)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 2 || second != 2 {
		t.Errorf("passes saw %d and %d items, want 2 and 2", first, second)
	}

	// Early break must not poison later passes.
	for range seq {
		break
	}
	if n := count(); n != 2 {
		t.Errorf("pass after break saw %d items, want 2", n)
	}
}

func TestAnonymousSnapshotPublicOnly(t *testing.T) {
	repo := newFakeRepo()
	resolver := newTestResolver(repo)

	snap, err := resolver.SnapshotFor(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}

	owner := uuid.New()
	if !snap.CanView(owner, false) {
		t.Error("anonymous denied public content")
	}
	if snap.CanView(owner, true) {
		t.Error("anonymous saw private content")
	}
}
