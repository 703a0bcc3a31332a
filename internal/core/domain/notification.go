package domain

import "time"

// NotificationKind identifies the tracked event that produced a notification.
type NotificationKind string

const (
	NotificationTaskCreated     NotificationKind = "task_created"
	NotificationTaskUpdated     NotificationKind = "task_updated"
	NotificationStatusChanged   NotificationKind = "status_changed"
	NotificationCommentAdded    NotificationKind = "comment_added"
	NotificationAttachmentAdded NotificationKind = "attachment_added"
)

// Notification is the durable in-app record of a tracked event. Only its
// owner may flip IsRead, and only from false to true.
type Notification struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	UserID    string    `json:"user_id" bson:"user_id" db:"user_id"`
	TaskID    *string   `json:"task_id,omitempty" bson:"task_id,omitempty" db:"task_id"`
	Title     string    `json:"title" bson:"title" db:"title"`
	Message   string    `json:"message" bson:"message" db:"message"`
	IsRead    bool      `json:"is_read" bson:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// NotificationEvent is what the emitter turns into a notification and an email.
type NotificationEvent struct {
	Kind    NotificationKind
	Title   string
	Message string
	TaskID  *string
}
