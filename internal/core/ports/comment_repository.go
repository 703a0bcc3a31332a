package ports

import (
	"context"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// CommentRepository defines persistence operations for task comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByTask returns the task's comments oldest first.
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)
}
