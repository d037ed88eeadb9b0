package services

import (
	"context"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// UserCache is a best-effort lookaside cache of user summaries.
type UserCache interface {
	GetUsers(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error)
	SetUsers(ctx context.Context, users []models.UserCompact) error
	DeleteUser(ctx context.Context, id uint) error
}

type noopUserCache struct{}

func (noopUserCache) GetUsers(context.Context, []uint) (map[uint]models.UserCompact, error) {
	return map[uint]models.UserCompact{}, nil
}

func (noopUserCache) SetUsers(context.Context, []models.UserCompact) error { return nil }

func (noopUserCache) DeleteUser(context.Context, uint) error { return nil }

// AuthorDirectory resolves user IDs to the summaries embedded in API
// responses. Cache failures degrade to database reads.
type AuthorDirectory struct {
	users repositories.UserRepository
	cache UserCache
}

// NewAuthorDirectory creates an AuthorDirectory. cache may be nil.
func NewAuthorDirectory(users repositories.UserRepository, cache UserCache) *AuthorDirectory {
	if cache == nil {
		cache = noopUserCache{}
	}
	return &AuthorDirectory{users: users, cache: cache}
}

// Resolve returns a summary for every existing user among ids.
func (d *AuthorDirectory) Resolve(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	unique := dedupe(ids)

	found, err := d.cache.GetUsers(ctx, unique)
	if err != nil {
		log.WithError(err).Warn("user cache read failed")
		found = map[uint]models.UserCompact{}
	}

	var missing []uint
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	users, err := d.users.GetUsersByIDs(ctx, missing)
	if err != nil {
		return nil, apperrors.Internal("failed to load users", err)
	}
	loaded := make([]models.UserCompact, 0, len(users))
	for i := range users {
		summary := users[i].ToCompact()
		found[summary.ID] = summary
		loaded = append(loaded, summary)
	}
	if err := d.cache.SetUsers(ctx, loaded); err != nil {
		log.WithError(err).Warn("user cache write failed")
	}
	return found, nil
}

// Forget evicts a user's cached summary.
func (d *AuthorDirectory) Forget(ctx context.Context, id uint) {
	if err := d.cache.DeleteUser(ctx, id); err != nil {
		log.WithError(err).WithField("user_id", id).Warn("user cache delete failed")
	}
}

func (d *AuthorDirectory) PostViews(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].AuthorID
	}
	authors, err := d.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.PostView, len(posts))
	for i := range posts {
		views[i] = models.PostView{Post: posts[i], Author: summaryOf(authors, posts[i].AuthorID)}
	}
	return views, nil
}

func (d *AuthorDirectory) CommentViews(ctx context.Context, comments []models.Comment) ([]models.CommentView, error) {
	ids := make([]uint, len(comments))
	for i := range comments {
		ids[i] = comments[i].AuthorID
	}
	authors, err := d.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, len(comments))
	for i := range comments {
		views[i] = models.CommentView{Comment: comments[i], Author: summaryOf(authors, comments[i].AuthorID)}
	}
	return views, nil
}

func (d *AuthorDirectory) NotificationViews(ctx context.Context, notifications []models.Notification) ([]models.NotificationView, error) {
	ids := make([]uint, len(notifications))
	for i := range notifications {
		ids[i] = notifications[i].ActorID
	}
	actors, err := d.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.NotificationView, len(notifications))
	for i := range notifications {
		views[i] = models.NotificationView{Notification: notifications[i], ActorSummary: summaryOf(actors, notifications[i].ActorID)}
	}
	return views, nil
}

func summaryOf(users map[uint]models.UserCompact, id uint) models.UserCompact {
	if summary, ok := users[id]; ok {
		return summary
	}
	return models.UserCompact{ID: id}
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
