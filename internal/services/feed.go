package services

import (
	"context"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
)

// FeedAssembler builds a user's home feed from the posts of the users they
// follow. Nothing is cached; every call reads the current graph.
type FeedAssembler struct {
	posts   repositories.PostRepository
	authors *AuthorDirectory
}

func NewFeedAssembler(posts repositories.PostRepository, authors *AuthorDirectory) *FeedAssembler {
	return &FeedAssembler{posts: posts, authors: authors}
}

// FeedFor returns one page of posts by userID's followees, newest first.
// Following nobody yields an empty page.
func (f *FeedAssembler) FeedFor(ctx context.Context, userID uint, page Page) (PageResult[models.PostView], error) {
	posts, total, err := f.posts.ListPosts(ctx, repositories.PostFilter{FollowedBy: userID}, page.Offset(), page.Size)
	if err != nil {
		return PageResult[models.PostView]{}, apperrors.Internal("failed to load feed", err)
	}
	views, err := f.authors.PostViews(ctx, posts)
	if err != nil {
		return PageResult[models.PostView]{}, err
	}
	return PageResult[models.PostView]{Items: views, Total: total, Page: page}, nil
}
