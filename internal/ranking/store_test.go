package ranking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/bookmarks/internal/testutil"
)

func TestRecordViewSequence(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		t.Run(map[bool]string{false: "separate", true: "atomic"}[atomic], func(t *testing.T) {
			mr, client := testutil.NewRedis(t)
			store := NewStore(client, Options{Atomic: atomic})
			ctx := context.Background()

			for want := int64(1); want <= 5; want++ {
				got, err := store.RecordView(ctx, "42")
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			raw, err := mr.Get("image:42:views")
			require.NoError(t, err)
			assert.Equal(t, "5", raw)

			score, err := mr.ZScore("image_ranking", "42")
			require.NoError(t, err)
			assert.Equal(t, float64(5), score)

			top, err := store.Top(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"42"}, top)
		})
	}
}

func TestTopOrdersByScore(t *testing.T) {
	_, client := testutil.NewRedis(t)
	store := NewStore(client, Options{Key: "ranking", ViewsPrefix: "img"})
	ctx := context.Background()

	views := map[string]int{"x": 3, "y": 5, "z": 1}
	for id, n := range views {
		for i := 0; i < n; i++ {
			_, err := store.RecordView(ctx, id)
			require.NoError(t, err)
		}
	}

	top, err := store.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, top)

	all, err := store.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "z"}, all)

	entries, err := store.TopWithScores(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"y", 5}, {"x", 3}, {"z", 1}}, entries)

	none, err := store.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestViews(t *testing.T) {
	_, client := testutil.NewRedis(t)
	store := NewStore(client, Options{})
	ctx := context.Background()

	n, err := store.Views(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.RecordView(ctx, "1")
	require.NoError(t, err)
	n, err = store.Views(ctx, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUnavailable(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	store := NewStore(client, Options{})
	mr.Close()

	_, err := store.Top(context.Background(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.RecordView(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
