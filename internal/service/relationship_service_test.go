package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/bookmarks/internal/model"
)

func TestFollowRecordsAction(t *testing.T) {
	f := newActionFixture(t)
	seedUsers(t, f, "alice", "bob")
	svc := NewRelationshipService(f.follows, f.users, f.actions)
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, "alice", "bob"))
	// 重复关注不再记录
	require.NoError(t, svc.Follow(ctx, "alice", "bob"))
	assert.EqualValues(t, 1, f.count(t, "alice", model.VerbFollowing))

	ok, err := svc.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	following, err := svc.ListFollowing(ctx, "alice", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, following)

	followers, err := svc.ListFollowers(ctx, "bob", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, followers)

	require.NoError(t, svc.Unfollow(ctx, "alice", "bob"))
	ok, err = svc.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// 取关后立刻重新关注仍在去重窗口内
	require.NoError(t, svc.Follow(ctx, "alice", "bob"))
	assert.EqualValues(t, 1, f.count(t, "alice", model.VerbFollowing))

	f.clock.Advance(2 * time.Minute)
	require.NoError(t, svc.Unfollow(ctx, "alice", "bob"))
	require.NoError(t, svc.Follow(ctx, "alice", "bob"))
	assert.EqualValues(t, 2, f.count(t, "alice", model.VerbFollowing))
}

func TestFollowErrors(t *testing.T) {
	f := newActionFixture(t)
	seedUsers(t, f, "alice")
	svc := NewRelationshipService(f.follows, f.users, f.actions)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Follow(ctx, "alice", "alice"), ErrFollowSelf)
	assert.ErrorIs(t, svc.Follow(ctx, "alice", "ghost"), ErrUserNotFound)
}
