package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
	"github.com/smarttask/smarttask/internal/pkg/metrics"
)

type notificationService struct {
	repo   ports.NotificationRepository
	mailer ports.Mailer
	log    zerolog.Logger
	now    func() time.Time
}

// NewNotificationService returns a NotificationService. mailer may be nil, in
// which case only the in-app record is written.
func NewNotificationService(repo ports.NotificationRepository, mailer ports.Mailer, log zerolog.Logger) ports.NotificationService {
	return &notificationService{
		repo:   repo,
		mailer: mailer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Emit stores the notification, then attempts the email. The email result never
// reaches the caller.
func (s *notificationService) Emit(ctx context.Context, recipient *domain.User, event domain.NotificationEvent) (*domain.Notification, error) {
	if recipient == nil {
		return nil, domain.ErrUserNotFound
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    recipient.ID,
		TaskID:    event.TaskID,
		Title:     event.Title,
		Message:   event.Message,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("emit notification: %w", err)
	}
	metrics.NotificationsEmittedTotal.WithLabelValues(string(event.Kind)).Inc()

	s.sendEmail(ctx, recipient, event)
	return n, nil
}

func (s *notificationService) sendEmail(ctx context.Context, recipient *domain.User, event domain.NotificationEvent) {
	logEvt := func(e *zerolog.Event) *zerolog.Event {
		return e.Str("kind", string(event.Kind)).Str("user_id", recipient.ID)
	}
	if s.mailer == nil || recipient.Email == "" {
		logEvt(s.log.Debug()).Msg("email skipped")
		return
	}
	if err := s.mailer.Send(ctx, recipient.Email, event.Title, event.Message); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("failed").Inc()
		logEvt(s.log.Warn()).Err(err).Msg("notification email failed")
		return
	}
	metrics.EmailsSentTotal.WithLabelValues("sent").Inc()
}

func (s *notificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, actor.UserID, unreadOnly, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	if err := requireAuthenticated(actor); err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, actor.UserID)
}

// MarkRead flips is_read for the owner. Repeating it is a no-op.
func (s *notificationService) MarkRead(ctx context.Context, actor domain.Actor, notificationID string) (*domain.Notification, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: notification belongs to another user", domain.ErrForbidden)
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, n.ID); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.IsRead = true
	return n, nil
}
