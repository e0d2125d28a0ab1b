package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/api/internal/models"
	pkglogger "github.com/talentbridge/api/pkg/logger"
)

func newTestUserService(repo UserRepository) *UserService {
	logger := slog.Default()
	return NewUserService(repo, logger, pkglogger.NewAuditLogger(logger))
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	svc := newTestUserService(&MockUserRepository{})

	user, err := svc.GetUserByID(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, user)
}

func TestUserService_ListUsers(t *testing.T) {
	svc := newTestUserService(&MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 10, limit)
			assert.Equal(t, 20, offset)
			return []*models.User{
				NewTestUser("u1", "a@example.com", "A"),
				NewTestUser("u2", "b@example.com", "B"),
			}, nil
		},
	})

	users, err := svc.ListUsers(context.Background(), 10, 20)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
}

func TestUserService_UpdateUser_AppliesNonEmptyFields(t *testing.T) {
	target := NewTestUser("u1", "a@example.com", "Old Name")

	svc := newTestUserService(&MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
			return u, nil
		},
	})

	updated, err := svc.UpdateUser(context.Background(), "admin1", "u1", "New Name", "")

	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, target.Phone, updated.Phone)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	svc := newTestUserService(&MockUserRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	})

	err := svc.DeleteUser(context.Background(), "admin1", "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_SetAdmin_GrantAndRevoke(t *testing.T) {
	target := NewTestUser("u1", "a@example.com", "A")

	svc := newTestUserService(&MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
		UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
			return u, nil
		},
	})

	updated, err := svc.SetAdmin(context.Background(), "super1", "u1", true)
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)

	updated, err = svc.SetAdmin(context.Background(), "super1", "u1", false)
	require.NoError(t, err)
	assert.False(t, updated.IsAdmin)
}
