package domain

import "time"

// Comment is a message left on a task by one of its participants.
type Comment struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	TaskID    string    `json:"task_id" bson:"task_id" db:"task_id"`
	UserID    string    `json:"user_id" bson:"user_id" db:"user_id"`
	Content   string    `json:"content" bson:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
