package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/api/handler"
	"github.com/smarttask/smarttask/internal/core/ports"
	mongostore "github.com/smarttask/smarttask/internal/infrastructure/db/mongo"
	"github.com/smarttask/smarttask/internal/infrastructure/db/sqlstore"
	"github.com/smarttask/smarttask/internal/pkg/config"
)

// store bundles the repositories of one backend.
type store struct {
	users         ports.UserRepository
	tasks         ports.TaskRepository
	comments      ports.CommentRepository
	attachments   ports.AttachmentRepository
	notifications ports.NotificationRepository

	probe   handler.Probe
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// openStore connects the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &store{
			users:         mongostore.NewUserRepository(db),
			tasks:         mongostore.NewTaskRepository(db),
			comments:      mongostore.NewCommentRepository(db),
			attachments:   mongostore.NewAttachmentRepository(db),
			notifications: mongostore.NewNotificationRepository(db),
			probe: handler.Probe{Name: "mongodb", Check: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}},
			migrate: func(ctx context.Context) error { return mongostore.EnsureIndexes(ctx, db) },
			close:   client.Disconnect,
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := sqlstore.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("connected to sql store")
		return &store{
			users:         sqlstore.NewUserRepository(db),
			tasks:         sqlstore.NewTaskRepository(db),
			comments:      sqlstore.NewCommentRepository(db),
			attachments:   sqlstore.NewAttachmentRepository(db),
			notifications: sqlstore.NewNotificationRepository(db),
			probe:         handler.Probe{Name: cfg.Store.Driver, Check: db.PingContext},
			migrate:       func(ctx context.Context) error { return sqlstore.Migrate(ctx, db) },
			close:         func(context.Context) error { return db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
