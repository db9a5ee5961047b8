package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/testutil"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: "p"}))

	err := repo.Create(ctx, &model.User{ID: "u2", Username: "alice", Email: "other@example.com", Password: "p"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = repo.Create(ctx, &model.User{ID: "u3", Username: "bob", Email: "alice@example.com", Password: "p"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_GetByLogin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: "p"}))

	for _, login := range []string{"alice", "alice@example.com", "Alice@Example.COM"} {
		u, err := repo.GetByLogin(ctx, login)
		require.NoError(t, err, login)
		assert.Equal(t, "u1", u.ID)
	}

	_, err := repo.GetByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
