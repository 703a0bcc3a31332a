package ports

import (
	"context"
	"time"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
}

// AuthService handles accounts and tokens.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	ListClients(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
}
