package ports

import (
	"context"
	"time"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// TaskInput carries the admin task form for both create and edit.
type TaskInput struct {
	Title       string
	Description string
	ServiceType string
	Priority    string
	ClientID    string
	Deadline    string // domain.DeadlineLayout, empty = none / unchanged
}

// StatusChange is the outcome of a client status update.
type StatusChange struct {
	Task      *domain.Task
	OldStatus domain.TaskStatus
	NewStatus domain.TaskStatus
	Changed   bool
}

// TaskDetail is a task with its comments (oldest first) and attachments
// (newest first).
type TaskDetail struct {
	Task        *domain.Task
	Comments    []*domain.Comment
	Attachments []*domain.Attachment
}

// ListTasksInput carries the list filters. Scope (creator or assignee) comes
// from the actor, never from the input.
type ListTasksInput struct {
	Status   string
	Priority string
	ClientID string // admin only
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListTasksResult is one page of tasks.
type ListTasksResult struct {
	Items      []*domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService defines the task lifecycle operations.
type TaskService interface {
	CreateTask(ctx context.Context, actor domain.Actor, input TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.Actor, taskID string) error
	UpdateStatus(ctx context.Context, actor domain.Actor, taskID, status string) (*StatusChange, error)
	GetTask(ctx context.Context, actor domain.Actor, taskID string) (*TaskDetail, error)
	ListTasks(ctx context.Context, actor domain.Actor, input ListTasksInput) (*ListTasksResult, error)
}

// StatusCounts summarises tasks per status.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// AdminDashboard is the overview shown to an admin.
type AdminDashboard struct {
	Counts  StatusCounts
	Clients []*domain.User
	Recent  []*domain.Task
	DueSoon []*domain.Task
}

// ClientDashboard is the overview shown to a client.
type ClientDashboard struct {
	Counts        StatusCounts
	Recent        []*domain.Task
	DueSoon       []*domain.Task
	Notifications []*domain.Notification
}

// ClientStats is one row of the admin's client overview.
type ClientStats struct {
	Client         *domain.User
	TotalTasks     int64
	CompletedTasks int64
	CompletionRate float64 // percent
}

// DashboardService builds the read-only overviews.
type DashboardService interface {
	AdminDashboard(ctx context.Context, actor domain.Actor) (*AdminDashboard, error)
	ClientDashboard(ctx context.Context, actor domain.Actor) (*ClientDashboard, error)
	ClientOverview(ctx context.Context, actor domain.Actor) ([]ClientStats, error)
}
