package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

const taskColumns = `id, title, description, service_type, priority, status, deadline,
	created_at, updated_at, creator_id, client_id`

// TaskRepository handles task data access operations.
type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (:id, :title, :description, :service_type, :priority, :status, :deadline,
		         :created_at, :updated_at, :creator_id, :client_id)`, utcTask(t))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE tasks SET title = :title, description = :description, service_type = :service_type,
		        priority = :priority, status = :status, deadline = :deadline,
		        updated_at = :updated_at, client_id = :client_id
		 WHERE id = :id`, utcTask(t))
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return requireAffected(res, domain.ErrTaskNotFound)
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`),
		string(status), updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("update task status %s: %w", id, err)
	}
	return requireAffected(res, domain.ErrTaskNotFound)
}

// Delete removes the task and its dependants in one transaction. The foreign
// keys cascade as well; the explicit statements keep the behaviour identical
// when they are disabled.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM comments WHERE task_id = ?`,
		`DELETE FROM attachments WHERE task_id = ?`,
		`UPDATE notifications SET task_id = NULL WHERE task_id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
			return fmt.Errorf("delete task %s: %w", id, err)
		}
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := requireAffected(res, domain.ErrTaskNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	where, args := taskWhere(f)

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM tasks`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where
	if f.SortByDeadline {
		query += ` ORDER BY deadline ASC`
	} else {
		query += ` ORDER BY created_at DESC`
	}
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, (page-1)*f.Limit)
	}

	tasks := []*domain.Task{}
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *TaskRepository) Count(ctx context.Context, f ports.TaskFilter) (int64, error) {
	where, args := taskWhere(f)
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM tasks`+where), args...); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// taskWhere builds the WHERE clause for f with ? placeholders.
func taskWhere(f ports.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, values ...any) {
		conds = append(conds, cond)
		args = append(args, values...)
	}

	if f.CreatorID != "" {
		add(`creator_id = ?`, f.CreatorID)
	}
	if f.ClientID != "" {
		add(`client_id = ?`, f.ClientID)
	}
	if f.Status != "" {
		add(`status = ?`, string(f.Status))
	}
	if f.ExcludeStatus != "" {
		add(`status <> ?`, string(f.ExcludeStatus))
	}
	if f.Priority != "" {
		add(`priority = ?`, string(f.Priority))
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		add(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if !f.CreatedFrom.IsZero() {
		add(`created_at >= ?`, f.CreatedFrom.UTC())
	}
	if !f.CreatedTo.IsZero() {
		add(`created_at <= ?`, f.CreatedTo.UTC())
	}
	if !f.DeadlineAfter.IsZero() {
		add(`deadline IS NOT NULL AND deadline > ?`, f.DeadlineAfter.UTC())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func utcTask(t *domain.Task) domain.Task {
	row := *t
	row.CreatedAt = row.CreatedAt.UTC()
	row.UpdatedAt = row.UpdatedAt.UTC()
	if row.Deadline != nil {
		d := row.Deadline.UTC()
		row.Deadline = &d
	}
	return row
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
