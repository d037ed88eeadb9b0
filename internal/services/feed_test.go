package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedIDs(views []models.PostView) []uint {
	ids := make([]uint, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}
	return ids
}

func TestFeed_OnlyFolloweesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	dave := f.user(t, "dave")

	require.NoError(t, f.graph.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, f.graph.Follow(ctx, alice.ID, carol.ID))

	t1 := f.clock
	older := f.post(t, bob, "older", t1)
	newer := f.post(t, carol, "newer", t1.Add(time.Minute))
	f.post(t, dave, "stranger", t1.Add(2*time.Minute))
	f.post(t, alice, "own", t1.Add(3*time.Minute))

	feed, err := f.feed.FeedFor(ctx, alice.ID, NewPage(1, 0, DefaultPostPageSize))
	require.NoError(t, err)
	assert.EqualValues(t, 2, feed.Total)
	assert.Equal(t, []uint{newer.ID, older.ID}, feedIDs(feed.Items))
	assert.Equal(t, "carol", feed.Items[0].Author.Username)

	followees, err := f.graph.FolloweesOf(ctx, alice.ID)
	require.NoError(t, err)
	for _, item := range feed.Items {
		assert.Contains(t, followees, item.AuthorID)
	}
}

func TestFeed_Paginates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	require.NoError(t, f.graph.Follow(ctx, alice.ID, bob.ID))

	var posts []*models.Post
	for i := 0; i < 3; i++ {
		posts = append(posts, f.post(t, bob, "p", f.clock.Add(time.Duration(i)*time.Minute)))
	}

	second, err := f.feed.FeedFor(ctx, alice.ID, NewPage(2, 2, DefaultPostPageSize))
	require.NoError(t, err)
	assert.Equal(t, []uint{posts[0].ID}, feedIDs(second.Items))
	assert.True(t, second.HasPrevious())
	assert.False(t, second.HasNext())

	beyond, err := f.feed.FeedFor(ctx, alice.ID, NewPage(5, 2, DefaultPostPageSize))
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.EqualValues(t, 3, beyond.Total)
}

// A follows B; B posts P1; A likes, unlikes and likes P1 again.
func TestScenario_FollowFeedLike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")

	require.NoError(t, f.graph.Follow(ctx, a.ID, b.ID))
	p1 := f.post(t, b, "P1", f.clock)

	feed, err := f.feed.FeedFor(ctx, a.ID, NewPage(1, 0, DefaultPostPageSize))
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID}, feedIDs(feed.Items))

	_, err = f.interactions.Like(ctx, a.ID, p1.ID)
	require.NoError(t, err)
	assert.Len(t, f.notificationsOf(t, b), 1)

	require.NoError(t, f.interactions.Unlike(ctx, a.ID, p1.ID))
	liked, err := f.interactions.HasLiked(ctx, a.ID, p1.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Len(t, f.notificationsOf(t, b), 1)

	_, err = f.interactions.Like(ctx, a.ID, p1.ID)
	require.NoError(t, err)
}

func TestScenario_EmptyFeed(t *testing.T) {
	f := newFixture(t)
	c := f.user(t, "c")
	f.post(t, f.user(t, "d"), "unrelated", f.clock)

	feed, err := f.feed.FeedFor(context.Background(), c.ID, NewPage(1, 0, DefaultPostPageSize))
	require.NoError(t, err)
	assert.NotNil(t, feed.Items)
	assert.Empty(t, feed.Items)
	assert.Zero(t, feed.Total)
}
