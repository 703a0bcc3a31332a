package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

const dashboardListSize = 5

type dashboardService struct {
	tasks         ports.TaskRepository
	users         ports.UserRepository
	notifications ports.NotificationRepository
	now           func() time.Time
}

func NewDashboardService(tasks ports.TaskRepository, users ports.UserRepository, notifications ports.NotificationRepository) ports.DashboardService {
	return &dashboardService{
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) AdminDashboard(ctx context.Context, actor domain.Actor) (*ports.AdminDashboard, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	scope := ports.TaskFilter{CreatorID: actor.UserID}

	counts, err := s.countByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	clients, err := s.users.ListByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("admin dashboard: clients: %w", err)
	}
	recent, dueSoon, err := s.recentAndDue(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &ports.AdminDashboard{Counts: counts, Clients: clients, Recent: recent, DueSoon: dueSoon}, nil
}

func (s *dashboardService) ClientDashboard(ctx context.Context, actor domain.Actor) (*ports.ClientDashboard, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}
	scope := ports.TaskFilter{ClientID: actor.UserID}

	counts, err := s.countByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	recent, dueSoon, err := s.recentAndDue(ctx, scope)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.ListByUser(ctx, actor.UserID, true, dashboardListSize)
	if err != nil {
		return nil, fmt.Errorf("client dashboard: notifications: %w", err)
	}
	return &ports.ClientDashboard{Counts: counts, Recent: recent, DueSoon: dueSoon, Notifications: unread}, nil
}

// ClientOverview reports, per client, how many of the admin's tasks they hold
// and how many they completed.
func (s *dashboardService) ClientOverview(ctx context.Context, actor domain.Actor) ([]ports.ClientStats, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	clients, err := s.users.ListByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("client overview: %w", err)
	}

	stats := make([]ports.ClientStats, 0, len(clients))
	for _, c := range clients {
		f := ports.TaskFilter{CreatorID: actor.UserID, ClientID: c.ID}
		total, err := s.tasks.Count(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("client overview: %w", err)
		}
		f.Status = domain.StatusCompleted
		completed, err := s.tasks.Count(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("client overview: %w", err)
		}
		var rate float64
		if total > 0 {
			rate = float64(completed) / float64(total) * 100
		}
		stats = append(stats, ports.ClientStats{
			Client:         c,
			TotalTasks:     total,
			CompletedTasks: completed,
			CompletionRate: rate,
		})
	}
	return stats, nil
}

func (s *dashboardService) countByStatus(ctx context.Context, scope ports.TaskFilter) (ports.StatusCounts, error) {
	var counts ports.StatusCounts
	targets := []struct {
		status domain.TaskStatus
		dst    *int64
	}{
		{"", &counts.Total},
		{domain.StatusPending, &counts.Pending},
		{domain.StatusInProgress, &counts.InProgress},
		{domain.StatusCompleted, &counts.Completed},
	}
	for _, t := range targets {
		f := scope
		f.Status = t.status
		n, err := s.tasks.Count(ctx, f)
		if err != nil {
			return counts, fmt.Errorf("count tasks: %w", err)
		}
		*t.dst = n
	}
	return counts, nil
}

func (s *dashboardService) recentAndDue(ctx context.Context, scope ports.TaskFilter) ([]*domain.Task, []*domain.Task, error) {
	f := scope
	f.Page, f.Limit = 1, dashboardListSize
	recent, _, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("recent tasks: %w", err)
	}

	f.DeadlineAfter = s.now()
	f.ExcludeStatus = domain.StatusCompleted
	f.SortByDeadline = true
	due, _, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("upcoming deadlines: %w", err)
	}
	return recent, due, nil
}
