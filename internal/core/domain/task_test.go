package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	d, err := ParseDeadline("2026-06-30T09:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2026, 6, 30, 9, 15, 0, 0, time.UTC); !d.Equal(want) {
		t.Fatalf("expected %v, got %v", want, d)
	}

	if d, err := ParseDeadline("   "); d != nil || err != nil {
		t.Fatalf("empty input must yield no deadline, got %v %v", d, err)
	}

	for _, bad := range []string{"2026-06-30", "30/06/2026 09:15", "2026-06-30 09:15", "tomorrow"} {
		_, err := ParseDeadline(bad)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "deadline" {
			t.Errorf("ParseDeadline(%q): expected deadline ValidationError, got %v", bad, err)
		}
	}
}

func TestTask_ChangeStatus(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{Status: StatusPending, CreatedAt: created, UpdatedAt: created}

	prev, changed := task.ChangeStatus(StatusPending, created.Add(time.Hour))
	if changed || prev != StatusPending || !task.UpdatedAt.Equal(created) {
		t.Fatalf("same status must be a no-op: changed=%v updated=%v", changed, task.UpdatedAt)
	}

	at := created.Add(2 * time.Hour)
	prev, changed = task.ChangeStatus(StatusCompleted, at)
	if !changed || prev != StatusPending || task.Status != StatusCompleted || !task.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected transition result: %+v", task)
	}
	if task.UpdatedAt.Before(task.CreatedAt) {
		t.Fatalf("updated_at must not precede created_at")
	}
}

func TestTask_Participants(t *testing.T) {
	task := &Task{CreatorID: "a", ClientID: "c"}
	if !task.IsParticipant("a") || !task.IsParticipant("c") || task.IsParticipant("x") {
		t.Fatalf("participant check wrong")
	}
	if task.Counterpart("a") != "c" || task.Counterpart("c") != "a" {
		t.Fatalf("counterpart wrong")
	}
}

func TestParsePriority(t *testing.T) {
	if p, ok := ParsePriority(" High "); !ok || p != PriorityHigh {
		t.Fatalf("expected high, got %q %v", p, ok)
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Fatalf("urgent must be rejected")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":            "report.pdf",
		"my report (v2).docx":   "my_report_v2.docx",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\photo.png`: "photo.png",
		".hidden":               "hidden",
		"":                      "",
		"///":                   "",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
