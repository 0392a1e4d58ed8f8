package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/store/memory"
	"skillSwapAPI/internal/user"
)

func TestUserService_CreateAndUpdate(t *testing.T) {
	svc := NewUserService(memory.New())
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "user_1", "ada@example.com", &user.CreateUserRequest{DisplayName: " Ada ", Headline: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "user_1", u.ID)
	assert.Equal(t, "Ada", u.DisplayName)

	_, err = svc.CreateUser(ctx, "user_1", "ada@example.com", &user.CreateUserRequest{DisplayName: "Ada"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	bio := "Teaches Go, learning Spanish"
	updated, err := svc.UpdateProfile(ctx, "user_1", &user.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, "Engineer", updated.Headline, "absent fields are left alone")
	assert.False(t, updated.UpdatedAt.Before(u.UpdatedAt))

	_, err = svc.UpdateProfile(ctx, "nobody", &user.UpdateProfileRequest{Bio: &bio})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestUserService_PublicViewsHideEmail(t *testing.T) {
	svc := NewUserService(memory.New())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "user_1", "ada@example.com", &user.CreateUserRequest{DisplayName: "Ada"})
	require.NoError(t, err)

	me, err := svc.GetUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)

	public, err := svc.GetPublicProfile(ctx, "user_1")
	require.NoError(t, err)
	assert.Empty(t, public.Email)

	list, err := svc.ListUsers(ctx, user.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Email)
}

func TestUserService_ListPaging(t *testing.T) {
	db := memory.New()
	for i := 0; i < 5; i++ {
		seedUser(t, db, fmt.Sprintf("u%d", i))
	}
	svc := NewUserService(db)
	ctx := context.Background()

	page, err := svc.ListUsers(ctx, user.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u1", page[0].ID)

	page, err = svc.ListUsers(ctx, user.ListFilter{Query: "user u3"})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "u3", page[0].ID)

	page, err = svc.ListUsers(ctx, user.ListFilter{Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, page)
}
