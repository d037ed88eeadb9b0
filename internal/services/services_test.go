package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	"github.com/anonto42/nano-midea/social-api/internal/testdb"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *repositories.Store
	sink         *NotificationSink
	graph        *FollowGraph
	interactions *InteractionEngine
	authors      *AuthorDirectory
	feed         *FeedAssembler
	posts        *PostService
	comments     *CommentService
	clock        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testdb.NewStore(t)
	f := &fixture{store: store, clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.sink = NewNotificationSink(store.Notifications).WithClock(func() time.Time { return f.clock })
	f.graph = NewFollowGraph(store)
	f.interactions = NewInteractionEngine(store, f.sink)
	f.authors = NewAuthorDirectory(store.Users, nil)
	f.feed = NewFeedAssembler(store.Posts, f.authors)
	f.posts = NewPostService(store.Posts, f.authors)
	f.comments = NewCommentService(store.Comments, store.Posts, f.authors)
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, f.store.Users.CreateUser(context.Background(), user))
	return user
}

// post creates a post with an explicit creation time so ordering is deterministic.
func (f *fixture) post(t *testing.T, author *models.User, title string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: author.ID, Title: title, Content: title, CreatedAt: at}
	require.NoError(t, f.store.Posts.CreatePost(context.Background(), post))
	return post
}

func (f *fixture) notificationsOf(t *testing.T, user *models.User) []models.Notification {
	t.Helper()
	result, err := f.sink.List(context.Background(), user.ID, NewPage(1, MaxPageSize, DefaultNotificationPageSize), false)
	require.NoError(t, err)
	return result.Items
}
