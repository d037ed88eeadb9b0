package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/monitoring"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	"gorm.io/gorm"
)

// InteractionEngine records likes and notifies post authors.
type InteractionEngine struct {
	store *repositories.Store
	sink  *NotificationSink
}

func NewInteractionEngine(store *repositories.Store, sink *NotificationSink) *InteractionEngine {
	return &InteractionEngine{store: store, sink: sink}
}

// Like records that userID likes postID and notifies the post's author. The
// like and its notification are committed together; liking your own post
// notifies yourself.
func (e *InteractionEngine) Like(ctx context.Context, userID, postID uint) (*models.Like, error) {
	like := &models.Like{UserID: userID, PostID: postID}

	err := e.store.Atomic(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(ctx, postID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrPostNotFound
		}
		if err != nil {
			return apperrors.Internal("failed to load post", err)
		}

		created, err := tx.Likes.CreateLikeIfAbsent(ctx, like)
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrPostNotFound
		}
		if err != nil {
			return apperrors.Internal("failed to like post", err)
		}
		if !created {
			return apperrors.ErrAlreadyLiked
		}

		_, err = e.sink.bind(tx.Notifications).Notify(ctx, post.AuthorID, userID, models.VerbLikedPost, models.PostTarget(post.ID))
		return err
	})
	if err != nil {
		monitoring.LikesTotal.WithLabelValues(likeResult(err)).Inc()
		return nil, err
	}
	monitoring.LikesTotal.WithLabelValues("liked").Inc()
	return like, nil
}

// Unlike removes userID's like of postID. Notifications already sent stay.
func (e *InteractionEngine) Unlike(ctx context.Context, userID, postID uint) error {
	if _, err := e.loadPost(ctx, postID); err != nil {
		return err
	}

	deleted, err := e.store.Likes.DeleteLike(ctx, userID, postID)
	if err != nil {
		return apperrors.Internal("failed to unlike post", err)
	}
	if !deleted {
		monitoring.LikesTotal.WithLabelValues("not_liked").Inc()
		return apperrors.ErrNotLiked
	}
	monitoring.LikesTotal.WithLabelValues("unliked").Inc()
	return nil
}

func (e *InteractionEngine) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	liked, err := e.store.Likes.HasUserLikedPost(ctx, userID, postID)
	if err != nil {
		return false, apperrors.Internal("failed to load like", err)
	}
	return liked, nil
}

// LikeCount returns the number of likes on postID.
func (e *InteractionEngine) LikeCount(ctx context.Context, postID uint) (int64, error) {
	if _, err := e.loadPost(ctx, postID); err != nil {
		return 0, err
	}
	count, err := e.store.Likes.GetLikesCountByPostID(ctx, postID)
	if err != nil {
		return 0, apperrors.Internal("failed to count likes", err)
	}
	return count, nil
}

func (e *InteractionEngine) loadPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := e.store.Posts.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrPostNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load post", err)
	}
	return post, nil
}

func likeResult(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyLiked):
		return "already_liked"
	case errors.Is(err, apperrors.ErrPostNotFound):
		return "post_not_found"
	default:
		return "error"
	}
}
