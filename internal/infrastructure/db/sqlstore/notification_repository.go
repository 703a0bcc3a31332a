package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smarttask/smarttask/internal/core/domain"
)

const notificationColumns = `id, user_id, task_id, title, message, is_read, created_at`

// NotificationRepository handles notification data access operations.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	row := *n
	row.CreatedAt = row.CreatedAt.UTC()
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES (:id, :user_id, :task_id, :title, :message, :is_read, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("find notification %s: %w", id, err)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE notifications SET is_read = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return requireAffected(res, domain.ErrNotificationNotFound)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	items := []*domain.Notification{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", userID, err)
	}
	return items, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`), userID, false)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications for %s: %w", userID, err)
	}
	return n, nil
}
