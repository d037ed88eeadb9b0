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

// FollowGraph maintains the directed follow relation between users.
type FollowGraph struct {
	store *repositories.Store
}

func NewFollowGraph(store *repositories.Store) *FollowGraph {
	return &FollowGraph{store: store}
}

// Follow adds the edge follower -> followee.
func (g *FollowGraph) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		monitoring.FollowsTotal.WithLabelValues("self_follow").Inc()
		return apperrors.ErrSelfFollow
	}

	exists, err := g.store.Users.Exists(ctx, followeeID)
	if err != nil {
		return apperrors.Internal("failed to load user", err)
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}

	created, err := g.store.Follows.CreateFollowIfAbsent(ctx, &models.Follow{FollowerID: followerID, FolloweeID: followeeID})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		// one side was deleted after the existence check
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return apperrors.Internal("failed to follow user", err)
	}
	if !created {
		monitoring.FollowsTotal.WithLabelValues("already_following").Inc()
		return apperrors.ErrAlreadyFollowing
	}
	monitoring.FollowsTotal.WithLabelValues("followed").Inc()
	return nil
}

// Unfollow removes the edge follower -> followee.
func (g *FollowGraph) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	exists, err := g.store.Users.Exists(ctx, followeeID)
	if err != nil {
		return apperrors.Internal("failed to load user", err)
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}

	deleted, err := g.store.Follows.DeleteFollow(ctx, followerID, followeeID)
	if err != nil {
		return apperrors.Internal("failed to unfollow user", err)
	}
	if !deleted {
		monitoring.FollowsTotal.WithLabelValues("not_following").Inc()
		return apperrors.ErrNotFollowing
	}
	monitoring.FollowsTotal.WithLabelValues("unfollowed").Inc()
	return nil
}

// FolloweesOf returns the IDs userID follows.
func (g *FollowGraph) FolloweesOf(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := g.store.Follows.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load followees", err)
	}
	return ids, nil
}

func (g *FollowGraph) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	ok, err := g.store.Follows.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, apperrors.Internal("failed to load follow", err)
	}
	return ok, nil
}

// Followers lists the users following userID.
func (g *FollowGraph) Followers(ctx context.Context, userID uint, page Page) (PageResult[models.User], error) {
	return g.listUsers(ctx, userID, page, g.store.Follows.GetFollowers)
}

// Following lists the users userID follows.
func (g *FollowGraph) Following(ctx context.Context, userID uint, page Page) (PageResult[models.User], error) {
	return g.listUsers(ctx, userID, page, g.store.Follows.GetFollowing)
}

type userLister func(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error)

func (g *FollowGraph) listUsers(ctx context.Context, userID uint, page Page, list userLister) (PageResult[models.User], error) {
	exists, err := g.store.Users.Exists(ctx, userID)
	if err != nil {
		return PageResult[models.User]{}, apperrors.Internal("failed to load user", err)
	}
	if !exists {
		return PageResult[models.User]{}, apperrors.ErrUserNotFound
	}
	users, total, err := list(ctx, userID, page.Offset(), page.Size)
	if err != nil {
		return PageResult[models.User]{}, apperrors.Internal("failed to list users", err)
	}
	return PageResult[models.User]{Items: users, Total: total, Page: page}, nil
}

// Counts returns how many users follow userID and how many userID follows.
func (g *FollowGraph) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	followers, err = g.store.Follows.GetFollowersCount(ctx, userID)
	if err != nil {
		return 0, 0, apperrors.Internal("failed to count followers", err)
	}
	following, err = g.store.Follows.GetFollowingCount(ctx, userID)
	if err != nil {
		return 0, 0, apperrors.Internal("failed to count following", err)
	}
	return followers, following, nil
}
