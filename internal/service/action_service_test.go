package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/internal/testutil"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type actionFixture struct {
	db      *gorm.DB
	clock   *fakeClock
	actions ActionService
	follows repository.FollowRepository
	users   repository.UserRepository
	images  repository.ImageRepository
}

func newActionFixture(t *testing.T) *actionFixture {
	t.Helper()
	db := testutil.NewDB(t)
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	f := &actionFixture{
		db:      db,
		clock:   clock,
		follows: repository.NewFollowRepository(db),
		users:   repository.NewUserRepository(db),
		images:  repository.NewImageRepository(db),
	}
	f.actions = NewActionService(repository.NewActionRepository(db), f.follows, f.users, f.images,
		ActionOptions{Now: clock.Now})
	return f
}

func (f *actionFixture) count(t *testing.T, actor, verb string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Action{}).Where("actor_id = ? AND verb = ?", actor, verb).Count(&n).Error)
	return n
}

func TestRecord_DuplicateSuppressedInsideWindow(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	img := model.ImageTarget{ID: 1}

	ok, err := f.actions.Record(ctx, "alice", model.VerbLikes, img)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.actions.Record(ctx, "alice", model.VerbLikes, img)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.EqualValues(t, 1, f.count(t, "alice", model.VerbLikes))
}

func TestRecord_SlidingWindowScenario(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	img := model.ImageTarget{ID: 9}

	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{0, true},
		{30 * time.Second, false},
		{31 * time.Second, true}, // t = 61s
	}
	for i, st := range steps {
		f.clock.Advance(st.advance)
		ok, err := f.actions.Record(ctx, "alice", model.VerbBookmarked, img)
		require.NoError(t, err)
		assert.Equal(t, st.want, ok, "step %d", i)
	}
	assert.EqualValues(t, 2, f.count(t, "alice", model.VerbBookmarked))
}

func TestRecord_TargetsAreDistinct(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	ok, err := f.actions.Record(ctx, "alice", model.VerbLikes, model.ImageTarget{ID: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.actions.Record(ctx, "alice", model.VerbLikes, model.ImageTarget{ID: 2})
	require.NoError(t, err)
	assert.True(t, ok, "different image is a different action")

	ok, err = f.actions.Record(ctx, "alice", model.VerbFollowing, model.UserTarget{ID: "1"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecord_TargetlessOnlyMatchesTargetless(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	ok, err := f.actions.Record(ctx, "alice", "shared", model.ImageTarget{ID: 1})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.actions.Record(ctx, "alice", "shared", nil)
	require.NoError(t, err)
	assert.True(t, ok, "target-bearing rows do not suppress a target-less action")

	ok, err = f.actions.Record(ctx, "alice", "shared", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecord_Validation(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	cases := []struct{ actor, verb string }{
		{"", model.VerbLikes},
		{"alice", ""},
		{"alice", "   "},
		{"alice", string(make([]byte, 256))},
	}
	for _, c := range cases {
		_, err := f.actions.Record(ctx, c.actor, c.verb, nil)
		assert.ErrorIs(t, err, ErrInvalidAction)
	}
	var n int64
	require.NoError(t, f.db.Model(&model.Action{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecord_TrimsActorAndVerb(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	img := model.ImageTarget{ID: 1}

	ok, err := f.actions.Record(ctx, "alice", "likes ", img)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.actions.Record(ctx, " alice", "likes", img)
	require.NoError(t, err)
	assert.False(t, ok)

	var verbs []string
	require.NoError(t, f.db.Model(&model.Action{}).Pluck("verb", &verbs).Error)
	assert.Equal(t, []string{"likes"}, verbs)
}

func seedUsers(t *testing.T, f *actionFixture, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, f.users.Create(context.Background(), &model.User{
			ID: n, Username: n, Email: n + "@example.com", Password: "x",
		}))
	}
}

func TestRecentFeed_ExcludesActorAndFollowFilter(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	seedUsers(t, f, "me", "bob", "carol")

	for i, actor := range []string{"me", "bob", "carol", "bob", "me"} {
		f.clock.Advance(time.Second)
		_, err := f.actions.Record(ctx, actor, fmt.Sprintf("verb-%d", i), nil)
		require.NoError(t, err)
	}

	all, err := f.actions.RecentFeed(ctx, "me", "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, a := range all {
		assert.NotEqual(t, "me", a.ActorID)
	}
	assert.Equal(t, "verb-3", all[0].Verb)

	// 没有关注任何人：与不限制时结果相同
	noFollows, err := f.actions.RecentFeed(ctx, "me", "me", 10)
	require.NoError(t, err)
	assert.Equal(t, ids(all), ids(noFollows))

	_, err = f.follows.Create(ctx, "me", "carol")
	require.NoError(t, err)
	following, err := f.actions.RecentFeed(ctx, "me", "me", 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].ActorID)

	limited, err := f.actions.RecentFeed(ctx, "me", "", 2)
	require.NoError(t, err)
	assert.Equal(t, ids(all)[:2], ids(limited))
}

func TestRecentFeed_NeverIncludesExcludedActor(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		f.clock.Advance(time.Second)
		actor := []string{"u", "v", "w"}[i%3]
		_, err := f.actions.Record(ctx, actor, fmt.Sprintf("v%d", i), nil)
		require.NoError(t, err)
	}
	for _, limit := range []int{1, 5, 10, 50} {
		feed, err := f.actions.RecentFeed(ctx, "u", "", limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(feed), limit)
		for _, a := range feed {
			assert.NotEqual(t, "u", a.ActorID)
		}
	}
}

func TestHydrate(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	seedUsers(t, f, "alice", "bob")
	img := &model.Image{UserID: "alice", Title: "Lake", URL: "https://example.com/l.png"}
	require.NoError(t, f.images.Create(ctx, img))

	_, err := f.actions.Record(ctx, "alice", model.VerbBookmarked, model.ImageTarget{ID: img.ID})
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.actions.Record(ctx, "alice", model.VerbFollowing, model.UserTarget{ID: "bob"})
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.actions.Record(ctx, "alice", model.VerbLikes, model.ImageTarget{ID: 999})
	require.NoError(t, err)

	feed, err := f.actions.RecentFeed(ctx, "bob", "", 10)
	require.NoError(t, err)
	entries, err := f.actions.Hydrate(ctx, feed)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "alice", entries[0].ActorName)
	assert.Equal(t, "image", entries[0].TargetKind)
	assert.Empty(t, entries[0].TargetLabel, "deleted image has no label")
	assert.Equal(t, "bob", entries[1].TargetLabel)
	assert.Equal(t, "Lake", entries[2].TargetLabel)
}

func ids(as []*model.Action) []uint64 {
	out := make([]uint64, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func TestRecentFeed_LimitIsCapped(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	for i := 0; i < MaxFeedLimit+5; i++ {
		f.clock.Advance(time.Second)
		_, err := f.actions.Record(ctx, "bob", fmt.Sprintf("v%d", i), nil)
		require.NoError(t, err)
	}
	feed, err := f.actions.RecentFeed(ctx, "me", "", 1000)
	require.NoError(t, err)
	assert.Len(t, feed, MaxFeedLimit)
}
