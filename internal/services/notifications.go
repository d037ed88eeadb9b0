package services

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/monitoring"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
)

// NotificationSink appends notifications and serves a recipient's inbox.
type NotificationSink struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

func NewNotificationSink(repo repositories.NotificationRepository) *NotificationSink {
	return &NotificationSink{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to stamp new notifications.
func (s *NotificationSink) WithClock(now func() time.Time) *NotificationSink {
	s.now = now
	return s
}

// bind returns a sink writing through repo with the same clock, used to
// append inside a transaction.
func (s *NotificationSink) bind(repo repositories.NotificationRepository) *NotificationSink {
	return &NotificationSink{repo: repo, now: s.now}
}

// Notify appends an unread notification. There is no de-duplication.
func (s *NotificationSink) Notify(ctx context.Context, recipientID, actorID uint, verb string, target models.Target) (*models.Notification, error) {
	if !target.Valid() {
		return nil, apperrors.ErrInvalidTarget
	}
	notification := models.NewNotification(recipientID, actorID, verb, target, s.now().UTC())
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, apperrors.Internal("failed to create notification", err)
	}
	monitoring.NotificationsTotal.WithLabelValues(verb).Inc()
	return notification, nil
}

// List returns recipientID's notifications, newest first.
func (s *NotificationSink) List(ctx context.Context, recipientID uint, page Page, unreadOnly bool) (PageResult[models.Notification], error) {
	items, total, err := s.repo.GetByRecipientID(ctx, recipientID, unreadOnly, page.Offset(), page.Size)
	if err != nil {
		return PageResult[models.Notification]{}, apperrors.Internal("failed to list notifications", err)
	}
	return PageResult[models.Notification]{Items: items, Total: total, Page: page}, nil
}

func (s *NotificationSink) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	count, err := s.repo.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal("failed to count notifications", err)
	}
	return count, nil
}

// MarkRead flags one notification as read. Notifications of other users are
// reported as not found.
func (s *NotificationSink) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	ok, err := s.repo.MarkAsRead(ctx, recipientID, notificationID)
	if err != nil {
		return apperrors.Internal("failed to update notification", err)
	}
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of recipientID and returns how many changed.
func (s *NotificationSink) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal("failed to update notifications", err)
	}
	return n, nil
}
