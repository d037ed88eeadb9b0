package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	"github.com/anonto42/nano-midea/social-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, store *repositories.Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x"}
	require.NoError(t, store.Users.CreateUser(context.Background(), user))
	return user
}

func createPost(t *testing.T, store *repositories.Store, author *models.User, title string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: author.ID, Title: title, Content: title + " body", CreatedAt: at}
	require.NoError(t, store.Posts.CreatePost(context.Background(), post))
	return post
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)

	alice := createUser(t, store, "alice")

	got, err := store.Users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = store.Users.GetUserByID(ctx, alice.ID+100)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = store.Users.CreateUser(ctx, &models.User{Username: "alice"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := store.Users.Exists(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Users.DeleteUser(ctx, alice.ID))
	assert.ErrorIs(t, store.Users.DeleteUser(ctx, alice.ID), repositories.ErrNotFound)
}

func TestPostRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	older := createPost(t, store, alice, "Go tips", base)
	newer := createPost(t, store, bob, "Gardening", base.Add(time.Hour))

	posts, total, err := store.Posts.ListPosts(ctx, repositories.PostFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)

	posts, total, err = store.Posts.ListPosts(ctx, repositories.PostFilter{Search: "go TIPS"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, older.ID, posts[0].ID)

	posts, total, err = store.Posts.ListPosts(ctx, repositories.PostFilter{AuthorIDs: []uint{bob.ID}, Search: "tips"}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, posts)

	posts, total, err = store.Posts.ListPosts(ctx, repositories.PostFilter{AuthorIDs: []uint{}}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	posts, total, err = store.Posts.ListPosts(ctx, repositories.PostFilter{}, 10, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, posts)
}

func TestPostRepository_SearchMatchesWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	percent := createPost(t, store, alice, "100% done", base)
	underscore := createPost(t, store, alice, "snake_case names", base.Add(time.Minute))
	backslash := createPost(t, store, alice, `C:\temp`, base.Add(2*time.Minute))
	createPost(t, store, alice, "plain words", base.Add(3*time.Minute))

	tests := []struct {
		search string
		want   uint
	}{
		{"%", percent.ID},
		{"_", underscore.ID},
		{`\`, backslash.ID},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			posts, total, err := store.Posts.ListPosts(ctx, repositories.PostFilter{Search: tt.search}, 0, 10)
			require.NoError(t, err)
			assert.EqualValues(t, 1, total)
			require.Len(t, posts, 1)
			assert.Equal(t, tt.want, posts[0].ID)
		})
	}
}

func TestPostRepository_UpdateKeepsAuthor(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	post := createPost(t, store, alice, "first", time.Now())

	post.Title = "edited"
	post.AuthorID = bob.ID
	require.NoError(t, store.Posts.UpdatePost(ctx, post))

	got, err := store.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, alice.ID, got.AuthorID)
}

func TestLikeRepository_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	post := createPost(t, store, alice, "p", time.Now())

	created, err := store.Likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: alice.ID, PostID: post.ID})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: alice.ID, PostID: post.ID})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := store.Likes.GetLikesCountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	deleted, err := store.Likes.DeleteLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Likes.DeleteLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	created, err = store.Likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: alice.ID, PostID: post.ID})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestFollowRepository(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	for _, followee := range []*models.User{bob, carol} {
		created, err := store.Follows.CreateFollowIfAbsent(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: followee.ID})
		require.NoError(t, err)
		assert.True(t, created)
	}
	created, err := store.Follows.CreateFollowIfAbsent(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID})
	require.NoError(t, err)
	assert.False(t, created)

	ids, err := store.Follows.GetFollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)

	following, total, err := store.Follows.GetFollowing(ctx, alice.ID, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	followers, total, err := store.Follows.GetFollowers(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	ok, err := store.Follows.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := store.Follows.DeleteFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = store.Follows.DeleteFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := models.NewNotification(alice.ID, bob.ID, models.VerbLikedPost, models.PostTarget(1), base)
	second := models.NewNotification(alice.ID, bob.ID, models.VerbLikedPost, models.PostTarget(2), base.Add(time.Minute))
	require.NoError(t, store.Notifications.CreateNotification(ctx, first))
	require.NoError(t, store.Notifications.CreateNotification(ctx, second))

	list, total, err := store.Notifications.GetByRecipientID(ctx, alice.ID, false, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, models.PostTarget(2), list[0].Target())

	ok, err := store.Notifications.MarkAsRead(ctx, bob.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, ok, "bob cannot mark alice's notification")

	ok, err = store.Notifications.MarkAsRead(ctx, alice.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := store.Notifications.GetUnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	list, total, err = store.Notifications.GetByRecipientID(ctx, alice.ID, true, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	marked, err := store.Notifications.MarkAllAsRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	post := createPost(t, store, alice, "p", time.Now())

	require.NoError(t, store.Comments.CreateComment(ctx, &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "hi"}))
	_, err := store.Likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: bob.ID, PostID: post.ID})
	require.NoError(t, err)

	require.NoError(t, store.Posts.DeletePost(ctx, post.ID))

	comments, total, err := store.Comments.ListComments(ctx, repositories.CommentFilter{PostID: post.ID}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, comments)

	count, err := store.Likes.GetLikesCountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAtomic_RollsBack(t *testing.T) {
	ctx := context.Background()
	store := testdb.NewStore(t)
	alice := createUser(t, store, "alice")
	post := createPost(t, store, alice, "p", time.Now())

	err := store.Atomic(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Likes.CreateLikeIfAbsent(ctx, &models.Like{UserID: alice.ID, PostID: post.ID}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	liked, err := store.Likes.HasUserLikedPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}
