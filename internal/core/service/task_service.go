package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
	"github.com/smarttask/smarttask/internal/pkg/metrics"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

type taskService struct {
	taskAccess
	users       ports.UserRepository
	comments    ports.CommentRepository
	attachments ports.AttachmentRepository
	files       ports.FileStorage
	notifier    ports.NotificationEmitter
	log         zerolog.Logger
	now         func() time.Time
}

// NewTaskService returns a TaskService. files may be nil when stored
// attachments do not need to be cleaned up on delete.
func NewTaskService(
	tasks ports.TaskRepository,
	users ports.UserRepository,
	comments ports.CommentRepository,
	attachments ports.AttachmentRepository,
	files ports.FileStorage,
	notifier ports.NotificationEmitter,
	log zerolog.Logger,
) ports.TaskService {
	return &taskService{
		taskAccess:  taskAccess{tasks: tasks},
		users:       users,
		comments:    comments,
		attachments: attachments,
		files:       files,
		notifier:    notifier,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateTask stores a pending task for a client and notifies the client.
func (s *taskService) CreateTask(ctx context.Context, actor domain.Actor, in ports.TaskInput) (*domain.Task, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "Title is required"}
	}
	client, err := s.lookupClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	priority := domain.DefaultPriority
	if strings.TrimSpace(in.Priority) != "" {
		if priority, err = parsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	deadline, err := domain.ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		ServiceType: strings.TrimSpace(in.ServiceType),
		Priority:    priority,
		Status:      domain.StatusPending,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatorID:   actor.UserID,
		ClientID:    client.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}
	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	s.log.Info().Str("task_id", task.ID).Str("client_id", client.ID).Msg("task created")

	if _, err := s.notifier.Emit(ctx, client, domain.NotificationEvent{
		Kind:    domain.NotificationTaskCreated,
		Title:   "New Task Assigned",
		Message: "You have been assigned a new task: " + task.Title,
		TaskID:  &task.ID,
	}); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies the full edit form and always notifies the (possibly new)
// client. Nothing is written when any field is rejected.
func (s *taskService) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, in ports.TaskInput) (*domain.Task, error) {
	task, err := s.asCreator(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "Title is required"}
	}
	client, err := s.lookupClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	priority := task.Priority
	if strings.TrimSpace(in.Priority) != "" {
		if priority, err = parsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	deadline := task.Deadline
	if strings.TrimSpace(in.Deadline) != "" {
		if deadline, err = domain.ParseDeadline(in.Deadline); err != nil {
			return nil, err
		}
	}

	task.Title = title
	task.Description = in.Description
	task.ServiceType = strings.TrimSpace(in.ServiceType)
	task.Priority = priority
	task.ClientID = client.ID
	task.Deadline = deadline
	task.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.log.Info().Str("task_id", task.ID).Msg("task updated")

	if _, err := s.notifier.Emit(ctx, client, domain.NotificationEvent{
		Kind:    domain.NotificationTaskUpdated,
		Title:   "Task Updated",
		Message: "A task assigned to you has been updated: " + task.Title,
		TaskID:  &task.ID,
	}); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes the task with its comments and attachments. Stored files
// are removed afterwards on a best-effort basis.
func (s *taskService) DeleteTask(ctx context.Context, actor domain.Actor, taskID string) error {
	task, err := s.asCreator(ctx, actor, taskID)
	if err != nil {
		return err
	}
	attachments, err := s.attachments.ListByTask(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if s.files != nil {
		for _, a := range attachments {
			if err := s.files.Remove(ctx, a.Filename); err != nil {
				s.log.Warn().Err(err).Str("file", a.Filename).Msg("failed to remove attachment file")
			}
		}
	}
	s.log.Info().Str("task_id", task.ID).Int("attachments", len(attachments)).Msg("task deleted")
	return nil
}

// UpdateStatus lets the assigned client move the task to any known status.
// Requesting the current status changes nothing and emits nothing.
func (s *taskService) UpdateStatus(ctx context.Context, actor domain.Actor, taskID, status string) (*ports.StatusChange, error) {
	task, err := s.asAssignee(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	next := domain.TaskStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	prev, changed := task.ChangeStatus(next, s.now())
	change := &ports.StatusChange{Task: task, OldStatus: prev, NewStatus: next, Changed: changed}
	if !changed {
		return change, nil
	}

	if err := s.tasks.UpdateStatus(ctx, task.ID, task.Status, task.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	metrics.TaskStatusTransitionsTotal.WithLabelValues(string(prev), string(next)).Inc()
	s.log.Info().Str("task_id", task.ID).Str("from", string(prev)).Str("to", string(next)).Msg("task status changed")

	creator, err := s.users.FindByID(ctx, task.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("update status: load creator: %w", err)
	}
	if _, err := s.notifier.Emit(ctx, creator, domain.NotificationEvent{
		Kind:    domain.NotificationStatusChanged,
		Title:   "Task Status Updated",
		Message: fmt.Sprintf("Task '%s' status updated from %s to %s", task.Title, prev, next),
		TaskID:  &task.ID,
	}); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return change, nil
}

func (s *taskService) GetTask(ctx context.Context, actor domain.Actor, taskID string) (*ports.TaskDetail, error) {
	task, err := s.asViewer(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("get task: comments: %w", err)
	}
	attachments, err := s.attachments.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("get task: attachments: %w", err)
	}
	return &ports.TaskDetail{Task: task, Comments: comments, Attachments: attachments}, nil
}

// ListTasks scopes the listing to the actor: admins see the tasks they
// created, clients the tasks assigned to them.
func (s *taskService) ListTasks(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	filter := ports.TaskFilter{
		Search:      strings.TrimSpace(in.Search),
		CreatedFrom: in.DateFrom,
		CreatedTo:   in.DateTo,
	}
	if actor.IsAdmin() {
		filter.CreatorID = actor.UserID
		filter.ClientID = strings.TrimSpace(in.ClientID)
	} else {
		filter.ClientID = actor.UserID
	}
	if in.Status != "" {
		st := domain.TaskStatus(strings.TrimSpace(in.Status))
		if !st.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = st
	}
	if in.Priority != "" {
		p, err := parsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		filter.Priority = p
	}

	filter.Page, filter.Limit = normalizePage(in.Page, in.Limit)
	items, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if items == nil {
		items = []*domain.Task{}
	}
	return &ports.ListTasksResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// lookupClient resolves the assignee and rejects non-client accounts.
func (s *taskService) lookupClient(ctx context.Context, clientID string) (*domain.User, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, &domain.ValidationError{Field: "client_id", Message: "A client must be selected"}
	}
	client, err := s.users.FindByID(ctx, clientID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, &domain.ValidationError{Field: "client_id", Message: "Selected client does not exist"}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w", err)
	}
	if client.Role != domain.RoleClient {
		return nil, &domain.ValidationError{Field: "client_id", Message: "Selected user is not a client"}
	}
	return client, nil
}

func parsePriority(s string) (domain.Priority, error) {
	p, ok := domain.ParsePriority(s)
	if !ok {
		return "", &domain.ValidationError{Field: "priority", Message: "Priority must be low, medium or high"}
	}
	return p, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
