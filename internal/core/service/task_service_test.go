package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// ---------------------------------------------------------------------------
// CreateTask
// ---------------------------------------------------------------------------

func TestTaskService_Create_Success(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, err := svc.CreateTask(context.Background(), actorOf(adminAlice), ports.TaskInput{
		Title:    "Draft contract",
		ClientID: clientCara.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != domain.StatusPending {
		t.Errorf("expected status pending, got %q", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", task.Priority)
	}
	if task.Deadline != nil {
		t.Errorf("expected no deadline, got %v", task.Deadline)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("created_at %v and updated_at %v must match on creation", task.CreatedAt, task.UpdatedAt)
	}
	if task.CreatorID != adminAlice.ID || task.ClientID != clientCara.ID {
		t.Errorf("wrong ownership: creator=%s client=%s", task.CreatorID, task.ClientID)
	}

	notes := f.notifs.forUser(clientCara.ID)
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification for the client, got %d", len(notes))
	}
	if notes[0].Title != "New Task Assigned" || notes[0].Message != "You have been assigned a new task: Draft contract" {
		t.Errorf("unexpected notification: %+v", notes[0])
	}
	if notes[0].TaskID == nil || *notes[0].TaskID != task.ID {
		t.Errorf("notification must reference the task")
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].to != clientCara.Email {
		t.Errorf("expected one email to the client, got %+v", f.mailer.sent)
	}
}

func TestTaskService_Create_ParsesDeadlineAndPriority(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, err := svc.CreateTask(context.Background(), actorOf(adminAlice), ports.TaskInput{
		Title:    "Audit",
		ClientID: clientCara.ID,
		Priority: " HIGH ",
		Deadline: "2026-05-01T17:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Priority != domain.PriorityHigh {
		t.Errorf("expected high priority, got %q", task.Priority)
	}
	want := time.Date(2026, 5, 1, 17, 30, 0, 0, time.UTC)
	if task.Deadline == nil || !task.Deadline.Equal(want) {
		t.Errorf("expected deadline %v, got %v", want, task.Deadline)
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	cases := []struct {
		name  string
		input ports.TaskInput
		field string
	}{
		{"missing title", ports.TaskInput{Title: "  ", ClientID: clientCara.ID}, "title"},
		{"missing client", ports.TaskInput{Title: "x"}, "client_id"},
		{"unknown client", ports.TaskInput{Title: "x", ClientID: "ghost"}, "client_id"},
		{"assignee is admin", ports.TaskInput{Title: "x", ClientID: adminAmos.ID}, "client_id"},
		{"bad priority", ports.TaskInput{Title: "x", ClientID: clientCara.ID, Priority: "urgent"}, "priority"},
		{"bad deadline", ports.TaskInput{Title: "x", ClientID: clientCara.ID, Deadline: "01/05/2026"}, "deadline"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.taskService().CreateTask(context.Background(), actorOf(adminAlice), tc.input)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, ve.Field)
			}
			if len(f.tasks.tasks) != 0 || len(f.notifs.items) != 0 || len(f.mailer.sent) != 0 {
				t.Errorf("nothing may be written on validation failure")
			}
		})
	}
}

func TestTaskService_Create_RequiresAdmin(t *testing.T) {
	f := newFixture()
	_, err := f.taskService().CreateTask(context.Background(), actorOf(clientCara), ports.TaskInput{Title: "x", ClientID: clientCara.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTaskService_Create_EmailFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("smtp down")

	task, err := f.taskService().CreateTask(context.Background(), actorOf(adminAlice), ports.TaskInput{Title: "x", ClientID: clientCara.ID})
	if err != nil {
		t.Fatalf("email failure must not fail the operation: %v", err)
	}
	if _, ok := f.tasks.tasks[task.ID]; !ok {
		t.Errorf("task must remain stored")
	}
	if len(f.notifs.items) != 1 {
		t.Errorf("notification must remain stored, got %d", len(f.notifs.items))
	}
}

func TestTaskService_Create_NotificationWriteFailurePropagates(t *testing.T) {
	f := newFixture()
	f.notifs.createErr = errors.New("disk full")

	_, err := f.taskService().CreateTask(context.Background(), actorOf(adminAlice), ports.TaskInput{Title: "x", ClientID: clientCara.ID})
	if err == nil {
		t.Fatal("expected notification write failure to propagate")
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("no email may be attempted without the notification record")
	}
}

// ---------------------------------------------------------------------------
// UpdateTask
// ---------------------------------------------------------------------------

func TestTaskService_Update_AlwaysNotifiesNewClient(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusInProgress)
	svc := f.taskService()
	fixed := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	task, err := svc.UpdateTask(context.Background(), actorOf(adminAlice), "t1", ports.TaskInput{
		Title:    "Task t1",
		ClientID: clientCruz.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ClientID != clientCruz.ID {
		t.Errorf("expected reassignment to %s, got %s", clientCruz.ID, task.ClientID)
	}
	if task.Status != domain.StatusInProgress {
		t.Errorf("edit must not touch status, got %q", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Errorf("empty priority must keep the stored value, got %q", task.Priority)
	}
	if !f.tasks.tasks["t1"].UpdatedAt.Equal(fixed) {
		t.Errorf("updated_at must advance")
	}
	if n := len(f.notifs.forUser(clientCruz.ID)); n != 1 {
		t.Fatalf("expected 1 notification for the new client, got %d", n)
	}
	if n := len(f.notifs.forUser(clientCara.ID)); n != 0 {
		t.Errorf("previous client must not be notified, got %d", n)
	}
	if got := f.notifs.forUser(clientCruz.ID)[0].Title; got != "Task Updated" {
		t.Errorf("unexpected title %q", got)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].to != clientCruz.Email {
		t.Errorf("expected one email to the new client, got %+v", f.mailer.sent)
	}
}

func TestTaskService_Update_BadDeadlineLeavesTaskUnchanged(t *testing.T) {
	f := newFixture()
	deadline := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	seeded := f.seedTask("t1", domain.StatusPending)
	seeded.Deadline = &deadline
	f.tasks.put(seeded)
	before := *f.tasks.tasks["t1"]

	_, err := f.taskService().UpdateTask(context.Background(), actorOf(adminAlice), "t1", ports.TaskInput{
		Title:    "Renamed",
		ClientID: clientCara.ID,
		Deadline: "next friday",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	after := f.tasks.tasks["t1"]
	if after.Title != before.Title || !after.Deadline.Equal(*before.Deadline) || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("stored task changed: before=%+v after=%+v", before, *after)
	}
	if f.tasks.updateCalls != 0 {
		t.Errorf("store must not be written, got %d updates", f.tasks.updateCalls)
	}
	if len(f.notifs.items) != 0 || len(f.mailer.sent) != 0 {
		t.Errorf("no notification may be emitted")
	}
}

func TestTaskService_Update_EmptyDeadlineKeepsStored(t *testing.T) {
	f := newFixture()
	deadline := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	seeded := f.seedTask("t1", domain.StatusPending)
	seeded.Deadline = &deadline
	f.tasks.put(seeded)

	task, err := f.taskService().UpdateTask(context.Background(), actorOf(adminAlice), "t1", ports.TaskInput{Title: "x", ClientID: clientCara.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Deadline == nil || !task.Deadline.Equal(deadline) {
		t.Errorf("expected deadline to be kept, got %v", task.Deadline)
	}
}

func TestTaskService_Update_OnlyCreator(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)

	_, err := f.taskService().UpdateTask(context.Background(), actorOf(adminAmos), "t1", ports.TaskInput{Title: "x", ClientID: clientCara.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.taskService().UpdateTask(context.Background(), actorOf(adminAlice), "nope", ports.TaskInput{Title: "x", ClientID: clientCara.ID})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestTaskService_UpdateStatus_Change(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)
	svc := f.taskService()
	fixed := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	change, err := svc.UpdateStatus(context.Background(), actorOf(clientCara), "t1", "in-progress")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Changed || change.OldStatus != domain.StatusPending || change.NewStatus != domain.StatusInProgress {
		t.Errorf("unexpected change: %+v", change)
	}
	stored := f.tasks.tasks["t1"]
	if stored.Status != domain.StatusInProgress || !stored.UpdatedAt.Equal(fixed) {
		t.Errorf("store not updated: %+v", stored)
	}

	notes := f.notifs.forUser(adminAlice.ID)
	if len(notes) != 1 {
		t.Fatalf("expected exactly 1 notification to the creator, got %d", len(notes))
	}
	if want := "Task 'Task t1' status updated from pending to in-progress"; notes[0].Message != want {
		t.Errorf("expected message %q, got %q", want, notes[0].Message)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].to != adminAlice.Email {
		t.Errorf("expected exactly one email to the creator, got %+v", f.mailer.sent)
	}
}

func TestTaskService_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newFixture()
	seeded := f.seedTask("t1", domain.StatusPending)

	change, err := f.taskService().UpdateStatus(context.Background(), actorOf(clientCara), "t1", "pending")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.Changed {
		t.Errorf("expected Changed=false")
	}
	if f.tasks.statusCalls != 0 {
		t.Errorf("store must not be written, got %d writes", f.tasks.statusCalls)
	}
	if !f.tasks.tasks["t1"].UpdatedAt.Equal(seeded.UpdatedAt) {
		t.Errorf("updated_at must not change")
	}
	if len(f.notifs.items) != 0 || len(f.mailer.sent) != 0 {
		t.Errorf("no notification or email may be produced")
	}
}

func TestTaskService_UpdateStatus_BackwardsAllowed(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusCompleted)

	change, err := f.taskService().UpdateStatus(context.Background(), actorOf(clientCara), "t1", "pending")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Changed || f.tasks.tasks["t1"].Status != domain.StatusPending {
		t.Errorf("completed -> pending must be accepted")
	}
}

func TestTaskService_UpdateStatus_EmailFailureStillCommits(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)
	f.mailer.err = errors.New("auth failed")

	if _, err := f.taskService().UpdateStatus(context.Background(), actorOf(clientCara), "t1", "completed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.tasks.tasks["t1"].Status != domain.StatusCompleted {
		t.Errorf("status must be committed")
	}
	if len(f.notifs.items) != 1 || len(f.mailer.sent) != 1 {
		t.Errorf("expected one notification and one email attempt, got %d/%d", len(f.notifs.items), len(f.mailer.sent))
	}
}

func TestTaskService_UpdateStatus_OtherClientRejected(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)

	_, err := f.taskService().UpdateStatus(context.Background(), actorOf(clientCruz), "t1", "completed")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if f.tasks.tasks["t1"].Status != domain.StatusPending || f.tasks.statusCalls != 0 {
		t.Errorf("store must be left unchanged")
	}
	if len(f.notifs.items) != 0 {
		t.Errorf("no notification may be emitted")
	}
}

func TestTaskService_UpdateStatus_AdminRejected(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)

	_, err := f.taskService().UpdateStatus(context.Background(), actorOf(adminAlice), "t1", "completed")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTaskService_UpdateStatus_InvalidValue(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)

	_, err := f.taskService().UpdateStatus(context.Background(), actorOf(clientCara), "t1", "done")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskService_UpdateStatus_AccessCheckedBeforeValue(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)
	svc := f.taskService()

	_, err := svc.UpdateStatus(context.Background(), actorOf(clientCruz), "t1", "done")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another client's task, got %v", err)
	}
	_, err = svc.UpdateStatus(context.Background(), actorOf(clientCara), "missing", "done")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for unknown task, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteTask
// ---------------------------------------------------------------------------

func TestTaskService_Delete_Cascades(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)
	f.seedTask("t2", domain.StatusPending)
	taskID := "t1"
	f.comments.items = append(f.comments.items,
		&domain.Comment{ID: "c1", TaskID: "t1"},
		&domain.Comment{ID: "c2", TaskID: "t2"},
	)
	f.attachments.items = append(f.attachments.items, &domain.Attachment{ID: "a1", TaskID: "t1", Filename: "f1.pdf"})
	f.files.files["f1.pdf"] = []byte("pdf")
	f.notifs.items = append(f.notifs.items, &domain.Notification{ID: "n1", UserID: clientCara.ID, TaskID: &taskID})

	if err := f.taskService().DeleteTask(context.Background(), actorOf(adminAlice), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.tasks.tasks["t1"]; ok {
		t.Errorf("task must be deleted")
	}
	for _, c := range f.comments.items {
		if c.TaskID == "t1" {
			t.Errorf("comment %s survived with dangling task reference", c.ID)
		}
	}
	if len(f.comments.items) != 1 {
		t.Errorf("other task's comments must survive, got %d", len(f.comments.items))
	}
	if len(f.attachments.items) != 0 {
		t.Errorf("attachments must be deleted, got %d", len(f.attachments.items))
	}
	if _, ok := f.files.files["f1.pdf"]; ok {
		t.Errorf("stored file must be removed")
	}
	if f.notifs.items[0].TaskID != nil {
		t.Errorf("notification must survive with its task link cleared")
	}
}

func TestTaskService_Delete_OnlyCreator(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)

	err := f.taskService().DeleteTask(context.Background(), actorOf(adminAmos), "t1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := f.tasks.tasks["t1"]; !ok {
		t.Errorf("task must survive")
	}
}

// ---------------------------------------------------------------------------
// GetTask / ListTasks
// ---------------------------------------------------------------------------

func TestTaskService_Get_ViewRules(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)
	f.comments.items = append(f.comments.items, &domain.Comment{ID: "c1", TaskID: "t1"})
	svc := f.taskService()

	detail, err := svc.GetTask(context.Background(), actorOf(clientCara), "t1")
	if err != nil {
		t.Fatalf("assignee must see the task: %v", err)
	}
	if len(detail.Comments) != 1 {
		t.Errorf("expected 1 comment, got %d", len(detail.Comments))
	}
	if _, err := svc.GetTask(context.Background(), actorOf(adminAlice), "t1"); err != nil {
		t.Errorf("creator must see the task: %v", err)
	}
	if _, err := svc.GetTask(context.Background(), actorOf(adminAmos), "t1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other admin: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetTask(context.Background(), actorOf(clientCruz), "t1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other client: expected ErrForbidden, got %v", err)
	}
}

func TestTaskService_List_ScopesToActor(t *testing.T) {
	f := newFixture()
	f.seedTask("t1", domain.StatusPending)
	other := f.seedTask("t2", domain.StatusPending)
	other.ClientID = clientCruz.ID
	f.tasks.put(other)
	svc := f.taskService()

	res, err := svc.ListTasks(context.Background(), actorOf(clientCara), ports.ListTasksInput{ClientID: clientCruz.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || res.Items[0].ID != "t1" {
		t.Errorf("client must only see assigned tasks, got %+v", res.Items)
	}
	if f.tasks.lastFilter.ClientID != clientCara.ID {
		t.Errorf("client filter must come from the actor, got %q", f.tasks.lastFilter.ClientID)
	}

	res, err = svc.ListTasks(context.Background(), actorOf(adminAlice), ports.ListTasksInput{ClientID: clientCruz.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || res.Items[0].ID != "t2" {
		t.Errorf("admin client filter not applied, got %+v", res.Items)
	}

	res, _ = svc.ListTasks(context.Background(), actorOf(adminAmos), ports.ListTasksInput{})
	if res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("admin must only see own tasks, got %d", res.Total)
	}
}

func TestTaskService_List_Pagination(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	res, err := svc.ListTasks(context.Background(), actorOf(adminAlice), ports.ListTasksInput{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page != 1 || res.Limit != maxPageLimit {
		t.Errorf("expected page 1 limit %d, got %d/%d", maxPageLimit, res.Page, res.Limit)
	}
	if res.Items == nil {
		t.Errorf("items must be an empty slice, not nil")
	}
}

func TestTaskService_List_InvalidFilters(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	if _, err := svc.ListTasks(context.Background(), actorOf(adminAlice), ports.ListTasksInput{Status: "archived"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.ListTasks(context.Background(), actorOf(adminAlice), ports.ListTasksInput{Priority: "asap"}); !domain.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
