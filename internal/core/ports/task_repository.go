package ports

import (
	"context"
	"time"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// TaskFilter carries the predicates for listing and counting tasks. Zero
// values mean "no filter".
type TaskFilter struct {
	CreatorID     string
	ClientID      string
	Status        domain.TaskStatus
	ExcludeStatus domain.TaskStatus
	Priority      domain.Priority
	Search        string    // substring match on title or description
	CreatedFrom   time.Time // created_at >= CreatedFrom
	CreatedTo     time.Time // created_at <= CreatedTo
	DeadlineAfter time.Time // deadline > DeadlineAfter (tasks without deadline excluded)
	// SortByDeadline orders by deadline ascending instead of created_at descending.
	SortByDeadline bool
	Page           int // 1-based
	Limit          int // 0 = no limit
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Update overwrites every mutable field of the stored task.
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, updatedAt time.Time) error
	// Delete removes the task together with its comments and attachments and
	// clears the task link on notifications that referenced it.
	Delete(ctx context.Context, id string) error
	// List returns a page of tasks matching filter and the total match count.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int64, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
}
