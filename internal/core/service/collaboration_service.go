package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// collaboration holds what comments and attachments share: participant
// access and notifying the other side of the task.
type collaboration struct {
	taskAccess
	users    ports.UserRepository
	notifier ports.NotificationEmitter
	log      zerolog.Logger
	now      func() time.Time
}

func newCollaboration(tasks ports.TaskRepository, users ports.UserRepository, notifier ports.NotificationEmitter, log zerolog.Logger) collaboration {
	return collaboration{
		taskAccess: taskAccess{tasks: tasks},
		users:      users,
		notifier:   notifier,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (c collaboration) notifyCounterpart(ctx context.Context, actor domain.Actor, task *domain.Task, event domain.NotificationEvent) error {
	recipient, err := c.users.FindByID(ctx, task.Counterpart(actor.UserID))
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}
	event.TaskID = &task.ID
	_, err = c.notifier.Emit(ctx, recipient, event)
	return err
}

type commentService struct {
	collaboration
	comments ports.CommentRepository
}

func NewCommentService(
	tasks ports.TaskRepository,
	users ports.UserRepository,
	comments ports.CommentRepository,
	notifier ports.NotificationEmitter,
	log zerolog.Logger,
) ports.CommentService {
	return &commentService{
		collaboration: newCollaboration(tasks, users, notifier, log),
		comments:      comments,
	}
}

// AddComment stores a comment from a task participant and notifies the other one.
func (s *commentService) AddComment(ctx context.Context, actor domain.Actor, taskID, content string) (*domain.Comment, error) {
	task, err := s.asParticipant(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, &domain.ValidationError{Field: "content", Message: "Comment cannot be empty"}
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		UserID:    actor.UserID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if err := s.notifyCounterpart(ctx, actor, task, domain.NotificationEvent{
		Kind:    domain.NotificationCommentAdded,
		Title:   "New Comment",
		Message: fmt.Sprintf("New comment on task '%s'", task.Title),
	}); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

type attachmentService struct {
	collaboration
	attachments ports.AttachmentRepository
	files       ports.FileStorage
}

func NewAttachmentService(
	tasks ports.TaskRepository,
	users ports.UserRepository,
	attachments ports.AttachmentRepository,
	files ports.FileStorage,
	notifier ports.NotificationEmitter,
	log zerolog.Logger,
) ports.AttachmentService {
	return &attachmentService{
		collaboration: newCollaboration(tasks, users, notifier, log),
		attachments:   attachments,
		files:         files,
	}
}

// Upload stores the file under a generated name, records it and notifies the
// other participant.
func (s *attachmentService) Upload(ctx context.Context, actor domain.Actor, taskID string, in ports.UploadInput) (*domain.Attachment, error) {
	task, err := s.asParticipant(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	original := domain.SanitizeFilename(in.Filename)
	if original == "" || in.Content == nil {
		return nil, &domain.ValidationError{Field: "file", Message: "No selected file"}
	}

	stored, err := s.files.Save(ctx, in.Content, original)
	if err != nil {
		return nil, fmt.Errorf("upload attachment: save file: %w", err)
	}
	attachment := &domain.Attachment{
		ID:               uuid.NewString(),
		TaskID:           task.ID,
		UserID:           actor.UserID,
		Filename:         stored,
		OriginalFilename: original,
		FileType:         in.ContentType,
		UploadedAt:       s.now(),
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		if rmErr := s.files.Remove(ctx, stored); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("file", stored).Msg("failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	s.log.Info().Str("task_id", task.ID).Str("file", stored).Msg("attachment uploaded")

	if err := s.notifyCounterpart(ctx, actor, task, domain.NotificationEvent{
		Kind:    domain.NotificationAttachmentAdded,
		Title:   "New Attachment",
		Message: fmt.Sprintf("New file attached to task '%s'", task.Title),
	}); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	return attachment, nil
}

// Download opens a stored file for a participant of its task.
func (s *attachmentService) Download(ctx context.Context, actor domain.Actor, filename string) (*ports.Download, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	attachment, err := s.attachments.FindByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if _, err := s.asParticipant(ctx, actor, attachment.TaskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	content, err := s.files.Open(ctx, attachment.Filename)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	return &ports.Download{Attachment: attachment, Content: content}, nil
}
