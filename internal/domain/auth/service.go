package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ripplehq/ripple-api/internal/domain/user"
	"github.com/ripplehq/ripple-api/internal/pkg/jwt"
	"github.com/ripplehq/ripple-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service) *Service {
	return &Service{userRepo: userRepo, jwtService: jwtService}
}

// Register creates a new account and returns an access token
func (s *Service) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	handle := strings.ToLower(strings.TrimSpace(input.Handle))

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Handle:       handle,
		DisplayName:  input.DisplayName,
		IsPrivate:    input.IsPrivate,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrHandleAlreadyTaken) {
			return nil, ErrHandleAlreadyTaken
		}
		return nil, err
	}

	return s.respond(u)
}

// Login verifies credentials and returns an access token
func (s *Service) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	handle := strings.ToLower(strings.TrimSpace(input.Handle))

	u, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.respond(u)
}

func (s *Service) respond(u *user.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateAccessToken(u.ID, u.Handle)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken: token,
		User:        user.ProfileFromEntity(u),
	}, nil
}
