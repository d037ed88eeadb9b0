package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	"gorm.io/gorm"
)

type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	authors  *AuthorDirectory
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, authors *AuthorDirectory) *CommentService {
	return &CommentService{comments: comments, posts: posts, authors: authors}
}

// Create adds a comment by authorID to an existing post.
func (s *CommentService) Create(ctx context.Context, authorID, postID uint, content string) (*models.CommentView, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{PostID: postID, AuthorID: authorID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.Internal("failed to create comment", err)
	}
	return s.view(ctx, comment)
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.CommentView, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, comment)
}

// List returns comments oldest first. A non-zero postID restricts the listing
// to that post, which must exist.
func (s *CommentService) List(ctx context.Context, postID uint, page Page) (PageResult[models.CommentView], error) {
	if postID != 0 {
		if err := s.ensurePost(ctx, postID); err != nil {
			return PageResult[models.CommentView]{}, err
		}
	}
	comments, total, err := s.comments.ListComments(ctx, repositories.CommentFilter{PostID: postID}, page.Offset(), page.Size)
	if err != nil {
		return PageResult[models.CommentView]{}, apperrors.Internal("failed to list comments", err)
	}
	views, err := s.authors.CommentViews(ctx, comments)
	if err != nil {
		return PageResult[models.CommentView]{}, err
	}
	return PageResult[models.CommentView]{Items: views, Total: total, Page: page}, nil
}

// Update replaces the content.
func (s *CommentService) Update(ctx context.Context, id uint, content string) (*models.CommentView, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, apperrors.Internal("failed to update comment", err)
	}
	return s.view(ctx, comment)
}

func (s *CommentService) Delete(ctx context.Context, id uint) error {
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return apperrors.Internal("failed to delete comment", err)
	}
	return nil
}

func (s *CommentService) ensurePost(ctx context.Context, postID uint) error {
	_, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrPostNotFound
	}
	if err != nil {
		return apperrors.Internal("failed to load post", err)
	}
	return nil
}

func (s *CommentService) load(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrCommentNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load comment", err)
	}
	return comment, nil
}

func (s *CommentService) view(ctx context.Context, comment *models.Comment) (*models.CommentView, error) {
	views, err := s.authors.CommentViews(ctx, []models.Comment{*comment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
