package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestBlockCascadesFriendship(t *testing.T) {
	repo := newFakeRepo()
	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)
	alice, bob := uuid.New(), uuid.New()

	f, err := friends.SendRequest(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := friends.Accept(context.Background(), f.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if err := blocks.Block(context.Background(), alice, bob); err != nil {
		t.Fatalf("Block: %v", err)
	}

	rel, err := friends.Status(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if rel != RelationNone {
		t.Errorf("relation after block = %s, want %s", rel, RelationNone)
	}
}

func TestBlockCascadesPendingRequest(t *testing.T) {
	repo := newFakeRepo()
	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)
	alice, bob := uuid.New(), uuid.New()

	if _, err := friends.SendRequest(context.Background(), alice, bob); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := blocks.Block(context.Background(), bob, alice); err != nil {
		t.Fatalf("Block: %v", err)
	}

	rel, err := friends.Status(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if rel != RelationNone {
		t.Errorf("relation after block = %s, want %s", rel, RelationNone)
	}
}

func TestBlockSelf(t *testing.T) {
	blocks := NewBlockService(newFakeRepo(), nil)
	alice := uuid.New()

	if err := blocks.Block(context.Background(), alice, alice); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestBlockIdempotent(t *testing.T) {
	repo := newFakeRepo()
	blocks := NewBlockService(repo, nil)
	alice, bob := uuid.New(), uuid.New()

	if err := blocks.Block(context.Background(), alice, bob); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := blocks.Block(context.Background(), alice, bob); err != nil {
		t.Errorf("second Block: %v, want nil", err)
	}

	list, err := blocks.ListBlocked(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListBlocked: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("blocked count = %d, want 1", len(list))
	}
}

func TestUnblockDoesNotRestoreFriendship(t *testing.T) {
	repo := newFakeRepo()
	friends := NewService(repo, nil)
	blocks := NewBlockService(repo, nil)
	alice, bob := uuid.New(), uuid.New()

	f, err := friends.SendRequest(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := friends.Accept(context.Background(), f.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := blocks.Block(context.Background(), alice, bob); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := blocks.Unblock(context.Background(), alice, bob); err != nil {
		t.Fatalf("Unblock: %v", err)
	}

	rel, err := friends.Status(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if rel != RelationNone {
		t.Errorf("relation after unblock = %s, want %s", rel, RelationNone)
	}

	// And the pair can start over.
	if _, err := friends.SendRequest(context.Background(), bob, alice); err != nil {
		t.Errorf("request after unblock: %v", err)
	}
}

func TestUnblockNeverBlocked(t *testing.T) {
	blocks := NewBlockService(newFakeRepo(), nil)

	if err := blocks.Unblock(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestListBlockedOneDirectional(t *testing.T) {
	repo := newFakeRepo()
	blocks := NewBlockService(repo, nil)
	alice, bob := uuid.New(), uuid.New()

	if err := blocks.Block(context.Background(), alice, bob); err != nil {
		t.Fatalf("Block: %v", err)
	}

	// Bob never learns he was blocked.
	list, err := blocks.ListBlocked(context.Background(), bob)
	if err != nil {
		t.Fatalf("ListBlocked: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("bob's blocked count = %d, want 0", len(list))
	}

	// But the relation reads as blocked from both sides.
	for _, pair := range [][2]uuid.UUID{{alice, bob}, {bob, alice}} {
		blocked, err := blocks.IsBlocked(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("IsBlocked: %v", err)
		}
		if !blocked {
			t.Errorf("IsBlocked(%s, %s) = false, want true", pair[0], pair[1])
		}
	}
}

func TestUnblockKeepsReverseBlock(t *testing.T) {
	repo := newFakeRepo()
	blocks := NewBlockService(repo, nil)
	alice, bob := uuid.New(), uuid.New()

	if err := blocks.Block(context.Background(), alice, bob); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := blocks.Block(context.Background(), bob, alice); err != nil {
		t.Fatalf("reverse Block: %v", err)
	}
	if err := blocks.Unblock(context.Background(), alice, bob); err != nil {
		t.Fatalf("Unblock: %v", err)
	}

	blocked, err := blocks.IsBlocked(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if !blocked {
		t.Error("bob's block should survive alice's unblock")
	}
}
