package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type stubTaskRepo struct {
	tasks       map[string]*domain.Task
	comments    *stubCommentRepo
	attachments *stubAttachmentRepo
	notifs      *stubNotificationRepo
	updateCalls int
	statusCalls int
	err         error // returned by every read and create when set
	lastFilter  ports.TaskFilter
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) put(t *domain.Task) {
	clone := *t
	r.tasks[t.ID] = &clone
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.err != nil {
		return r.err
	}
	r.put(t)
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	r.updateCalls++
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.put(t)
	return nil
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus, at time.Time) error {
	r.statusCalls++
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = at
	return nil
}

// Delete mirrors the cascade of the real stores.
func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	if r.comments != nil {
		kept := r.comments.items[:0]
		for _, c := range r.comments.items {
			if c.TaskID != id {
				kept = append(kept, c)
			}
		}
		r.comments.items = kept
	}
	if r.attachments != nil {
		kept := r.attachments.items[:0]
		for _, a := range r.attachments.items {
			if a.TaskID != id {
				kept = append(kept, a)
			}
		}
		r.attachments.items = kept
	}
	if r.notifs != nil {
		for _, n := range r.notifs.items {
			if n.TaskID != nil && *n.TaskID == id {
				n.TaskID = nil
			}
		}
	}
	return nil
}

func (r *stubTaskRepo) match(f ports.TaskFilter) []*domain.Task {
	var out []*domain.Task
	for _, t := range r.tasks {
		if f.CreatorID != "" && t.CreatorID != f.CreatorID {
			continue
		}
		if f.ClientID != "" && t.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.ExcludeStatus != "" && t.Status == f.ExcludeStatus {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
				continue
			}
		}
		if !f.DeadlineAfter.IsZero() && (t.Deadline == nil || !t.Deadline.After(f.DeadlineAfter)) {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	if f.SortByDeadline {
		sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func (r *stubTaskRepo) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	r.lastFilter = f
	if r.err != nil {
		return nil, 0, r.err
	}
	matched := r.match(f)
	total := int64(len(matched))
	if f.Limit > 0 {
		skip := (f.Page - 1) * f.Limit
		if skip < 0 {
			skip = 0
		}
		if skip > len(matched) {
			skip = len(matched)
		}
		end := skip + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[skip:end]
	}
	return matched, total, nil
}

func (r *stubTaskRepo) Count(_ context.Context, f ports.TaskFilter) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.match(f))), nil
}

type stubCommentRepo struct {
	items []*domain.Comment
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	clone := *c
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubCommentRepo) ListByTask(_ context.Context, taskID string) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.items {
		if c.TaskID == taskID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubAttachmentRepo struct {
	items     []*domain.Attachment
	createErr error
}

func (r *stubAttachmentRepo) Create(_ context.Context, a *domain.Attachment) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *a
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubAttachmentRepo) ListByTask(_ context.Context, taskID string) ([]*domain.Attachment, error) {
	var out []*domain.Attachment
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].TaskID == taskID {
			clone := *r.items[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAttachmentRepo) FindByFilename(_ context.Context, filename string) (*domain.Attachment, error) {
	for _, a := range r.items {
		if a.Filename == filename {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAttachmentNotFound
}

type stubNotificationRepo struct {
	items         []*domain.Notification
	createErr     error
	markReadCalls int
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *n
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	for _, n := range r.items {
		if n.ID == id {
			clone := *n
			return &clone, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.markReadCalls++
	for _, n := range r.items {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		n := r.items[i]
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		clone := *n
		out = append(out, &clone)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *stubNotificationRepo) forUser(userID string) []*domain.Notification {
	var out []*domain.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Gateway stubs
// ---------------------------------------------------------------------------

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return m.err
}

type stubGenerator struct {
	reply    string
	err      error
	requests []ports.GenerationRequest
}

func (g *stubGenerator) Generate(_ context.Context, req ports.GenerationRequest) (string, error) {
	g.requests = append(g.requests, req)
	return g.reply, g.err
}

type stubTranscriber struct {
	text     string
	err      error
	received []byte
}

func (t *stubTranscriber) Transcribe(_ context.Context, audio io.Reader, _ string) (string, error) {
	b, _ := io.ReadAll(audio)
	t.received = b
	return t.text, t.err
}

type stubStorage struct {
	files   map[string][]byte
	removed []string
	seq     int
}

func newStubStorage() *stubStorage {
	return &stubStorage{files: make(map[string][]byte)}
}

func (s *stubStorage) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.seq++
	name := "stored-" + string(rune('a'+s.seq)) + "-" + originalName
	s.files[name] = b
	return name, nil
}

func (s *stubStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	b, ok := s.files[name]
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *stubStorage) Remove(_ context.Context, name string) error {
	s.removed = append(s.removed, name)
	if _, ok := s.files[name]; !ok {
		return errors.New("no such file")
	}
	delete(s.files, name)
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[tokenID] = expiresAt
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, r.err
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	adminAlice = &domain.User{ID: "admin-1", Username: "alice", Email: "alice@example.com", Role: domain.RoleAdmin}
	adminAmos  = &domain.User{ID: "admin-2", Username: "amos", Email: "amos@example.com", Role: domain.RoleAdmin}
	clientCara = &domain.User{ID: "client-1", Username: "cara", Email: "cara@example.com", Role: domain.RoleClient}
	clientCruz = &domain.User{ID: "client-2", Username: "cruz", Email: "cruz@example.com", Role: domain.RoleClient}
)

func actorOf(u *domain.User) domain.Actor {
	return domain.Actor{UserID: u.ID, Role: u.Role}
}

// fixture wires every service over one shared set of stubs.
type fixture struct {
	users       *stubUserRepo
	tasks       *stubTaskRepo
	comments    *stubCommentRepo
	attachments *stubAttachmentRepo
	notifs      *stubNotificationRepo
	mailer      *stubMailer
	files       *stubStorage
	notifier    ports.NotificationService
}

func newFixture() *fixture {
	f := &fixture{
		users:       newStubUserRepo(adminAlice, adminAmos, clientCara, clientCruz),
		tasks:       newStubTaskRepo(),
		comments:    &stubCommentRepo{},
		attachments: &stubAttachmentRepo{},
		notifs:      &stubNotificationRepo{},
		mailer:      &stubMailer{},
		files:       newStubStorage(),
	}
	f.tasks.comments = f.comments
	f.tasks.attachments = f.attachments
	f.tasks.notifs = f.notifs
	f.notifier = NewNotificationService(f.notifs, f.mailer, discardLogger)
	return f
}

func (f *fixture) taskService() *taskService {
	return NewTaskService(f.tasks, f.users, f.comments, f.attachments, f.files, f.notifier, discardLogger).(*taskService)
}

// seedTask stores a task created by alice for cara.
func (f *fixture) seedTask(id string, status domain.TaskStatus) *domain.Task {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t := &domain.Task{
		ID:        id,
		Title:     "Task " + id,
		Priority:  domain.PriorityMedium,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
		CreatorID: adminAlice.ID,
		ClientID:  clientCara.ID,
	}
	f.tasks.put(t)
	return t
}
