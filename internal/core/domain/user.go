package domain

import "time"

// Role is the closed set of account roles. Every operation checks it explicitly.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User models an account in the system. Role never changes after registration.
type User struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	Username     string    `json:"username" bson:"username" db:"username"`
	Email        string    `json:"email" bson:"email" db:"email"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"`
	Role         Role      `json:"role" bson:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// Actor is the authenticated identity on whose behalf an operation runs.
// It is passed explicitly into every core operation.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsClient reports whether the actor holds the client role.
func (a Actor) IsClient() bool { return a.Role == RoleClient }
