package service

import (
	"context"
	"database/sql"

	"github.com/jask/haven/internal/database/repository"
)

type NotificationService struct {
	DB *sql.DB
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]repository.Notification, error) {
	return repository.NewNotificationRepo(s.DB).List(ctx, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return repository.NewNotificationRepo(s.DB).MarkRead(ctx, id)
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return repository.NewNotificationRepo(s.DB).MarkAllRead(ctx)
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	return repository.NewNotificationRepo(s.DB).CountUnread(ctx)
}
