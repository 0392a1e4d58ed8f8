package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/store"
	"skillSwapAPI/internal/user"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type UserService struct {
	users store.Users
}

func NewUserService(users store.Users) *UserService {
	return &UserService{users: users}
}

// CreateUser registers the profile for an authenticated subject. The ID is
// the token subject so there is at most one profile per identity.
func (s *UserService) CreateUser(ctx context.Context, userID, email string, req *user.CreateUserRequest) (*user.User, error) {
	now := time.Now().UTC()
	u := &user.User{
		ID:          userID,
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Headline:    req.Headline,
		Bio:         req.Bio,
		Location:    req.Location,
		Timezone:    req.Timezone,
		AvatarURL:   req.AvatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, storeError("create user", "User", err)
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, storeError("get user", "User", err)
	}
	return u, nil
}

// GetPublicProfile is GetUser without private fields.
func (s *UserService) GetPublicProfile(ctx context.Context, id string) (*user.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	public := u.Public()
	return &public, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Headline != nil {
		u.Headline = *req.Headline
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Timezone != nil {
		u.Timezone = *req.Timezone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, storeError("update user", "User", err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	users, err := s.users.ListUsers(ctx, f)
	if err != nil {
		return nil, storeError("list users", "User", err)
	}
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// requireProfile refuses actions from callers who have a valid token but no
// profile yet; every write that references the caller needs one.
func requireProfile(ctx context.Context, users store.Users, userID string) error {
	_, err := users.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Forbidden("Create your profile first")
	}
	if err != nil {
		return storeError("get user", "User", err)
	}
	return nil
}
