package ports

import (
	"context"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// AttachmentRepository defines persistence operations for task attachments.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	// ListByTask returns the task's attachments newest first.
	ListByTask(ctx context.Context, taskID string) ([]*domain.Attachment, error)
	FindByFilename(ctx context.Context, filename string) (*domain.Attachment, error)
}
