package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
)

// PostQuery filters a post listing. Zero values do not filter.
type PostQuery struct {
	Search   string
	AuthorID uint
}

type PostService struct {
	posts   repositories.PostRepository
	authors *AuthorDirectory
}

func NewPostService(posts repositories.PostRepository, authors *AuthorDirectory) *PostService {
	return &PostService{posts: posts, authors: authors}
}

// Create stores a post authored by authorID.
func (s *PostService) Create(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.PostView, error) {
	post := &models.Post{
		AuthorID: authorID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperrors.Internal("failed to create post", err)
	}
	return s.view(ctx, post)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// List returns posts newest first.
func (s *PostService) List(ctx context.Context, query PostQuery, page Page) (PageResult[models.PostView], error) {
	filter := repositories.PostFilter{Search: query.Search}
	if query.AuthorID != 0 {
		filter.AuthorIDs = []uint{query.AuthorID}
	}
	posts, total, err := s.posts.ListPosts(ctx, filter, page.Offset(), page.Size)
	if err != nil {
		return PageResult[models.PostView]{}, apperrors.Internal("failed to list posts", err)
	}
	views, err := s.authors.PostViews(ctx, posts)
	if err != nil {
		return PageResult[models.PostView]{}, err
	}
	return PageResult[models.PostView]{Items: views, Total: total, Page: page}, nil
}

// Update changes title and content. Callers check CanModify first.
func (s *PostService) Update(ctx context.Context, id uint, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.Internal("failed to update post", err)
	}
	return s.view(ctx, post)
}

// Delete removes a post with its comments and likes.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrPostNotFound
		}
		return apperrors.Internal("failed to delete post", err)
	}
	return nil
}

func (s *PostService) load(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrPostNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load post", err)
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, post *models.Post) (*models.PostView, error) {
	views, err := s.authors.PostViews(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
