package ports

import (
	"context"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// NotificationEmitter records a tracked event for a user and sends the
// matching best-effort email. Only the durable write can fail the call.
type NotificationEmitter interface {
	Emit(ctx context.Context, recipient *domain.User, event domain.NotificationEvent) (*domain.Notification, error)
}

// NotificationService exposes a user's own notifications.
type NotificationService interface {
	NotificationEmitter
	List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int64, error)
	MarkRead(ctx context.Context, actor domain.Actor, notificationID string) (*domain.Notification, error)
}
