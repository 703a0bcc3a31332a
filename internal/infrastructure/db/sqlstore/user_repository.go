package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smarttask/smarttask/internal/core/domain"
)

const userColumns = `id, username, email, password_hash, role, created_at`

// UserRepository handles account data access operations.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := *user
	row.CreatedAt = row.CreatedAt.UTC()
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (:id, :username, :email, :password_hash, :role, :created_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &row, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	users := []*domain.User{}
	err := r.db.SelectContext(ctx, &users,
		r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY username`), string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role %s: %w", role, err)
	}
	return users, nil
}

// findOne looks a user up by a unique column. column is never user input.
func (r *UserRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return &user, nil
}
