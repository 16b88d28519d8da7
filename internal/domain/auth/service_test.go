package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ripplehq/ripple-api/internal/domain/user"
	"github.com/ripplehq/ripple-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	byHandle map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byHandle: map[string]*user.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.byHandle[u.Handle]; ok {
		return user.ErrHandleAlreadyTaken
	}
	r.byHandle[u.Handle] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.byHandle {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByHandle(ctx context.Context, handle string) (*user.User, error) {
	u, ok := r.byHandle[handle]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*user.User, error) { return nil, nil }

func (r *fakeUserRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

func (r *fakeUserRepo) UpdatePrivacy(ctx context.Context, id uuid.UUID, isPrivate bool) error {
	return nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtService := jwt.NewService("test-secret", time.Hour)
	return NewService(repo, jwtService), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	reg, err := svc.Register(context.Background(), &RegisterInput{
		Handle:      "Alice_01",
		DisplayName: "Alice",
		Password:    "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.AccessToken == "" {
		t.Error("empty access token after register")
	}
	if reg.User.Handle != "alice_01" {
		t.Errorf("handle = %q, want normalized %q", reg.User.Handle, "alice_01")
	}

	login, err := svc.Login(context.Background(), &LoginInput{
		Handle:   "ALICE_01",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user = %s, want %s", login.User.ID, reg.User.ID)
	}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	svc, _ := newTestService()

	input := &RegisterInput{Handle: "alice", DisplayName: "Alice", Password: "correct-horse"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrHandleAlreadyTaken) {
		t.Errorf("err = %v, want ErrHandleAlreadyTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), &RegisterInput{
		Handle:      "alice",
		DisplayName: "Alice",
		Password:    "correct-horse",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginInput{
		Handle:   "alice",
		Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Login(context.Background(), &LoginInput{
		Handle:   "nobody",
		Password: "whatever",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown handle err = %v, want ErrInvalidCredentials", err)
	}
}
