package ports

import (
	"context"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	// MarkRead sets is_read to true. Calling it on a read notification is a no-op.
	MarkRead(ctx context.Context, id string) error
	// ListByUser returns the user's notifications newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}
