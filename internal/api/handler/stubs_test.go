package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/api/middleware"
	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

var (
	adminActor  = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	clientActor = domain.Actor{UserID: "client-1", Role: domain.RoleClient}
)

// newContext builds an echo context for a request sent by actor. A zero
// actor leaves the request unauthenticated.
func newContext(method, target, body string, actor domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor.UserID != "" {
		c.Set(middleware.CtxUserID, actor.UserID)
		c.Set(middleware.CtxRole, string(actor.Role))
	}
	return c, rec
}

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn       func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn      func(ctx context.Context, tokenID string, expiresAt time.Time) error
	listClientsFn func(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.logoutFn(ctx, tokenID, expiresAt)
}

func (s *stubAuthService) ListClients(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	return s.listClientsFn(ctx, actor)
}

type stubTaskService struct {
	createFn       func(ctx context.Context, actor domain.Actor, in ports.TaskInput) (*domain.Task, error)
	updateFn       func(ctx context.Context, actor domain.Actor, id string, in ports.TaskInput) (*domain.Task, error)
	deleteFn       func(ctx context.Context, actor domain.Actor, id string) error
	updateStatusFn func(ctx context.Context, actor domain.Actor, id, status string) (*ports.StatusChange, error)
	getFn          func(ctx context.Context, actor domain.Actor, id string) (*ports.TaskDetail, error)
	listFn         func(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, actor domain.Actor, in ports.TaskInput) (*domain.Task, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, actor domain.Actor, id string, in ports.TaskInput) (*domain.Task, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubTaskService) UpdateStatus(ctx context.Context, actor domain.Actor, id, status string) (*ports.StatusChange, error) {
	return s.updateStatusFn(ctx, actor, id, status)
}

func (s *stubTaskService) GetTask(ctx context.Context, actor domain.Actor, id string) (*ports.TaskDetail, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTaskService) ListTasks(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	return s.listFn(ctx, actor, in)
}

type stubCommentService struct {
	addFn func(ctx context.Context, actor domain.Actor, taskID, content string) (*domain.Comment, error)
}

func (s *stubCommentService) AddComment(ctx context.Context, actor domain.Actor, taskID, content string) (*domain.Comment, error) {
	return s.addFn(ctx, actor, taskID, content)
}

type stubAttachmentService struct {
	uploadFn   func(ctx context.Context, actor domain.Actor, taskID string, in ports.UploadInput) (*domain.Attachment, error)
	downloadFn func(ctx context.Context, actor domain.Actor, filename string) (*ports.Download, error)
}

func (s *stubAttachmentService) Upload(ctx context.Context, actor domain.Actor, taskID string, in ports.UploadInput) (*domain.Attachment, error) {
	return s.uploadFn(ctx, actor, taskID, in)
}

func (s *stubAttachmentService) Download(ctx context.Context, actor domain.Actor, filename string) (*ports.Download, error) {
	return s.downloadFn(ctx, actor, filename)
}

type stubNotificationService struct {
	listFn     func(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]*domain.Notification, error)
	countFn    func(ctx context.Context, actor domain.Actor) (int64, error)
	markReadFn func(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error)
}

func (s *stubNotificationService) Emit(context.Context, *domain.User, domain.NotificationEvent) (*domain.Notification, error) {
	panic("not used by handlers")
}

func (s *stubNotificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	return s.listFn(ctx, actor, unreadOnly, limit)
}

func (s *stubNotificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.countFn(ctx, actor)
}

func (s *stubNotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	return s.markReadFn(ctx, actor, id)
}

type stubDraftingService struct {
	draftFn    func(ctx context.Context, in ports.DraftInput) (*domain.TaskDraft, error)
	priorityFn func(ctx context.Context, description string, deadlineDays *int) domain.Priority
	speechFn   func(ctx context.Context, audio string) (*domain.SpeechTask, error)
}

func (s *stubDraftingService) DraftTaskDescription(ctx context.Context, in ports.DraftInput) (*domain.TaskDraft, error) {
	return s.draftFn(ctx, in)
}

func (s *stubDraftingService) SuggestPriority(ctx context.Context, description string, deadlineDays *int) domain.Priority {
	return s.priorityFn(ctx, description, deadlineDays)
}

func (s *stubDraftingService) ExtractTaskFromSpeech(ctx context.Context, audio string) (*domain.SpeechTask, error) {
	return s.speechFn(ctx, audio)
}

type stubDashboardService struct {
	adminFn    func(ctx context.Context, actor domain.Actor) (*ports.AdminDashboard, error)
	clientFn   func(ctx context.Context, actor domain.Actor) (*ports.ClientDashboard, error)
	overviewFn func(ctx context.Context, actor domain.Actor) ([]ports.ClientStats, error)
}

func (s *stubDashboardService) AdminDashboard(ctx context.Context, actor domain.Actor) (*ports.AdminDashboard, error) {
	return s.adminFn(ctx, actor)
}

func (s *stubDashboardService) ClientDashboard(ctx context.Context, actor domain.Actor) (*ports.ClientDashboard, error) {
	return s.clientFn(ctx, actor)
}

func (s *stubDashboardService) ClientOverview(ctx context.Context, actor domain.Actor) ([]ports.ClientStats, error) {
	return s.overviewFn(ctx, actor)
}
