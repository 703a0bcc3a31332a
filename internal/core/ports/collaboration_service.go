package ports

import (
	"context"
	"io"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// CommentService adds comments to tasks.
type CommentService interface {
	AddComment(ctx context.Context, actor domain.Actor, taskID, content string) (*domain.Comment, error)
}

// UploadInput describes an uploaded file.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Download is an opened attachment ready to stream back.
type Download struct {
	Attachment *domain.Attachment
	Content    io.ReadCloser
}

// AttachmentService stores and serves task files.
type AttachmentService interface {
	Upload(ctx context.Context, actor domain.Actor, taskID string, input UploadInput) (*domain.Attachment, error)
	Download(ctx context.Context, actor domain.Actor, filename string) (*Download, error)
}
