package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionEngine_LikeTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, bob, "hello", f.clock)

	like, err := f.interactions.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, like.UserID)
	assert.Equal(t, post.ID, like.PostID)

	_, err = f.interactions.Like(ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	count, err := f.interactions.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	notifications := f.notificationsOf(t, bob)
	require.Len(t, notifications, 1, "the rejected like must not notify")
	n := notifications[0]
	assert.Equal(t, bob.ID, n.RecipientID)
	assert.Equal(t, alice.ID, n.ActorID)
	assert.Equal(t, models.VerbLikedPost, n.Verb)
	assert.Equal(t, models.PostTarget(post.ID), n.Target())
	assert.False(t, n.Read)
	assert.True(t, f.clock.Equal(n.Timestamp))
}

func TestInteractionEngine_UnlikeThenLikeAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, bob, "hello", f.clock)

	assert.ErrorIs(t, f.interactions.Unlike(ctx, alice.ID, post.ID), apperrors.ErrNotLiked)

	_, err := f.interactions.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, f.interactions.Unlike(ctx, alice.ID, post.ID))

	liked, err := f.interactions.HasLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Len(t, f.notificationsOf(t, bob), 1, "unlike keeps the notification")

	_, err = f.interactions.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Len(t, f.notificationsOf(t, bob), 2)
}

func TestInteractionEngine_MissingPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.interactions.Like(ctx, alice.ID, 404)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	assert.ErrorIs(t, f.interactions.Unlike(ctx, alice.ID, 404), apperrors.ErrPostNotFound)
	assert.Empty(t, f.notificationsOf(t, alice))
}

// Liking your own post is allowed and notifies yourself.
func TestInteractionEngine_SelfLikeNotifiesAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	post := f.post(t, alice, "mine", f.clock)

	_, err := f.interactions.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	notifications := f.notificationsOf(t, alice)
	require.Len(t, notifications, 1)
	assert.Equal(t, alice.ID, notifications[0].ActorID)
	assert.Equal(t, alice.ID, notifications[0].RecipientID)
}

// The SQLite fixture has a single connection, so the goroutines' transactions
// run one after another: this covers duplicate likes arriving from many
// callers, not two transactions overlapping in the database.
func TestInteractionEngine_DuplicateLikesFromManyGoroutines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, bob, "popular", f.clock)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.interactions.Like(ctx, alice.ID, post.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked)
	}
	assert.Equal(t, 1, succeeded)

	count, err := f.interactions.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Len(t, f.notificationsOf(t, bob), 1)
}

func TestInteractionEngine_PostDeletionRemovesLikes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.post(t, bob, "short lived", f.clock.Add(-time.Hour))

	_, err := f.interactions.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, f.posts.Delete(ctx, post.ID))

	liked, err := f.interactions.HasLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	notifications := f.notificationsOf(t, bob)
	require.Len(t, notifications, 1, "notifications outlive their target")
	assert.Equal(t, post.ID, notifications[0].TargetID)
}
