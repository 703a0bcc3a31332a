package domain

import (
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every status in lifecycle order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is a known status. Any known status is a legal
// transition target from any other, including moving backwards.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is applied when no priority is given.
const DefaultPriority = PriorityMedium

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority trims and lowercases s and reports whether the result is a
// known priority.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// DeadlineLayout is the only accepted textual deadline format.
const DeadlineLayout = "2006-01-02T15:04"

// ParseDeadline parses a deadline submitted as text. An empty string yields a
// nil deadline.
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DeadlineLayout, s)
	if err != nil {
		return nil, &ValidationError{Field: "deadline", Message: "Invalid deadline format, expected YYYY-MM-DDTHH:MM"}
	}
	return &t, nil
}

// Task is the work item an admin creates and a client executes.
type Task struct {
	ID          string     `json:"id" bson:"_id" db:"id"`
	Title       string     `json:"title" bson:"title" db:"title"`
	Description string     `json:"description" bson:"description" db:"description"`
	ServiceType string     `json:"service_type" bson:"service_type" db:"service_type"`
	Priority    Priority   `json:"priority" bson:"priority" db:"priority"`
	Status      TaskStatus `json:"status" bson:"status" db:"status"`
	Deadline    *time.Time `json:"deadline,omitempty" bson:"deadline,omitempty" db:"deadline"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at" db:"updated_at"`
	CreatorID   string     `json:"creator_id" bson:"creator_id" db:"creator_id"`
	ClientID    string     `json:"client_id" bson:"client_id" db:"client_id"`
}

// IsCreator reports whether userID created the task.
func (t *Task) IsCreator(userID string) bool { return t.CreatorID == userID }

// IsAssignee reports whether userID is the client the task is assigned to.
func (t *Task) IsAssignee(userID string) bool { return t.ClientID == userID }

// IsParticipant reports whether userID is either the creator or the assignee.
func (t *Task) IsParticipant(userID string) bool {
	return t.IsCreator(userID) || t.IsAssignee(userID)
}

// Counterpart returns the participant on the other side of userID: the
// assignee when the creator acts, the creator otherwise.
func (t *Task) Counterpart(userID string) string {
	if t.IsCreator(userID) {
		return t.ClientID
	}
	return t.CreatorID
}

// ChangeStatus moves the task to next and bumps UpdatedAt. It reports the
// previous status and whether anything changed; a same-status request leaves
// the task untouched.
func (t *Task) ChangeStatus(next TaskStatus, at time.Time) (TaskStatus, bool) {
	prev := t.Status
	if prev == next {
		return prev, false
	}
	t.Status = next
	t.UpdatedAt = at
	return prev, true
}
