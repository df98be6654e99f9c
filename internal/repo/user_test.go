package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhited/notekeeper/internal/domain"
)

func TestUserRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	username := "create-" + uuid.NewString()

	got, err := r.users.Create(context.Background(), domain.User{
		Username:     username,
		PasswordHash: "$2a$10$fakehash",
		Fullname:     "New User",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, username, got.Username)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)
	assert.Equal(t, "New User", got.Fullname)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := mustCreateUser(t, r.users)

	_, err := r.users.Create(ctx, domain.User{
		Username:     user.Username,
		PasswordHash: "x",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserRepo_GetByID(t *testing.T) {
	r := newTestRepos(t)
	created := mustCreateUser(t, r.users)

	got, err := r.users.GetByID(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.Username, got.Username)
}

func TestUserRepo_GetByID_Missing(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	r := newTestRepos(t)
	created := mustCreateUser(t, r.users)

	got, err := r.users.GetByUsername(context.Background(), created.Username)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByUsername_Missing(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByUsername(context.Background(), "no-such-user-"+uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
