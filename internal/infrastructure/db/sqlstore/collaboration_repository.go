package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// CommentRepository handles comment data access operations.
type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	row := *c
	row.CreatedAt = row.CreatedAt.UTC()
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO comments (id, task_id, user_id, content, created_at)
		 VALUES (:id, :task_id, :user_id, :content, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	comments := []*domain.Comment{}
	err := r.db.SelectContext(ctx, &comments, r.db.Rebind(
		`SELECT id, task_id, user_id, content, created_at
		 FROM comments WHERE task_id = ? ORDER BY created_at ASC`), taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments for task %s: %w", taskID, err)
	}
	return comments, nil
}

const attachmentColumns = `id, task_id, user_id, filename, original_filename, file_type, uploaded_at`

// AttachmentRepository handles attachment data access operations.
type AttachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	row := *a
	row.UploadedAt = row.UploadedAt.UTC()
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO attachments (`+attachmentColumns+`)
		 VALUES (:id, :task_id, :user_id, :filename, :original_filename, :file_type, :uploaded_at)`, row)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Attachment, error) {
	attachments := []*domain.Attachment{}
	err := r.db.SelectContext(ctx, &attachments, r.db.Rebind(
		`SELECT `+attachmentColumns+` FROM attachments WHERE task_id = ? ORDER BY uploaded_at DESC`), taskID)
	if err != nil {
		return nil, fmt.Errorf("list attachments for task %s: %w", taskID, err)
	}
	return attachments, nil
}

func (r *AttachmentRepository) FindByFilename(ctx context.Context, filename string) (*domain.Attachment, error) {
	var a domain.Attachment
	err := r.db.GetContext(ctx, &a, r.db.Rebind(
		`SELECT `+attachmentColumns+` FROM attachments WHERE filename = ?`), filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("find attachment %s: %w", filename, err)
	}
	return &a, nil
}
