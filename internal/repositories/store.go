package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every repository when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories that share one relational database, so that
// a caller can run several of them inside a single transaction.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Follows       FollowRepository
	Notifications NotificationRepository

	// externalNotifications is set when notifications live outside db and
	// must not be rebound to a transaction.
	externalNotifications bool
}

// NewStore creates a Store whose repositories all use db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Comments:      NewPostgresCommentRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Follows:       NewPostgresFollowRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
	}
}

// WithNotifications replaces the notification repository with one backed by
// another database (see MongoNotificationRepository).
func (s *Store) WithNotifications(repo NotificationRepository) *Store {
	s.Notifications = repo
	s.externalNotifications = true
	return s
}

// Atomic runs fn inside one database transaction. The Store passed to fn is
// bound to that transaction; fn must only use it, never the outer Store.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.bind(tx))
	})
}

func (s *Store) bind(tx *gorm.DB) *Store {
	bound := NewStore(tx)
	if s.externalNotifications {
		bound.Notifications = s.Notifications
		bound.externalNotifications = true
	}
	return bound
}

// DB exposes the underlying connection for health checks and shutdown.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Models lists every model owned by the relational store, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	}
}

// AutoMigrate creates or updates the tables of every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
