package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration holds a single schema migration with its target version and
// statements. The SQL is valid for both SQLite and PostgreSQL.
type migration struct {
	version    int
	statements []string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role          TEXT NOT NULL,
				created_at    TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id           TEXT PRIMARY KEY,
				title        TEXT NOT NULL,
				description  TEXT NOT NULL DEFAULT '',
				service_type TEXT NOT NULL DEFAULT '',
				priority     TEXT NOT NULL DEFAULT 'medium',
				status       TEXT NOT NULL DEFAULT 'pending',
				deadline     TIMESTAMP NULL,
				created_at   TIMESTAMP NOT NULL,
				updated_at   TIMESTAMP NOT NULL,
				creator_id   TEXT NOT NULL REFERENCES users(id),
				client_id    TEXT NOT NULL REFERENCES users(id)
			)`,
			`CREATE TABLE IF NOT EXISTS comments (
				id         TEXT PRIMARY KEY,
				task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
				user_id    TEXT NOT NULL REFERENCES users(id),
				content    TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS attachments (
				id                TEXT PRIMARY KEY,
				task_id           TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
				user_id           TEXT NOT NULL REFERENCES users(id),
				filename          TEXT NOT NULL UNIQUE,
				original_filename TEXT NOT NULL,
				file_type         TEXT NOT NULL DEFAULT '',
				uploaded_at       TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS notifications (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id),
				task_id    TEXT NULL REFERENCES tasks(id) ON DELETE SET NULL,
				title      TEXT NOT NULL,
				message    TEXT NOT NULL,
				is_read    BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_creator ON tasks(creator_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_attachments_task ON attachments(task_id, uploaded_at)`,
			`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read, created_at)`,
		},
	},
}

// Migrate brings the schema to the latest version. Applied versions are
// tracked in schema_version.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var current int
	if err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), m.version); err != nil {
		return err
	}
	return tx.Commit()
}
