package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smarttask/smarttask/internal/api"
	"github.com/smarttask/smarttask/internal/api/handler"
	"github.com/smarttask/smarttask/internal/api/middleware"
	"github.com/smarttask/smarttask/internal/core/ports"
	"github.com/smarttask/smarttask/internal/core/service"
	"github.com/smarttask/smarttask/internal/infrastructure/ai"
	redisstore "github.com/smarttask/smarttask/internal/infrastructure/db/redis"
	"github.com/smarttask/smarttask/internal/infrastructure/email"
	"github.com/smarttask/smarttask/internal/infrastructure/storage"
	"github.com/smarttask/smarttask/internal/pkg/config"
	"github.com/smarttask/smarttask/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, !skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not create the schema and indexes on startup")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: appName})

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()
	if migrate {
		if err := st.migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	probes := []handler.Probe{st.probe}
	var (
		revoker     ports.TokenRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		r := redisstore.NewTokenRevoker(rdb)
		revoker, revocations = r, r
		probes = append(probes, handler.Probe{Name: "redis", Check: r.Ping})
	} else {
		log.Warn().Msg("REDIS_ADDR empty: logout will not revoke tokens")
	}

	files, err := storage.NewOSFileStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	var mailer ports.Mailer
	if cfg.Mail.Username != "" {
		mailer = email.NewSMTPMailer(email.Config{
			Host:     cfg.Mail.Server,
			Port:     cfg.Mail.Port,
			UseSSL:   cfg.Mail.UseSSL,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			Sender:   cfg.Mail.Sender,
		})
	} else {
		log.Warn().Msg("MAIL_USERNAME empty: notification emails disabled")
	}

	llm := ai.NewClient(ai.Config{
		APIKey:             cfg.AI.APIKey,
		BaseURL:            cfg.AI.BaseURL,
		Model:              cfg.AI.Model,
		TranscriptionModel: cfg.AI.TranscriptionModel,
	})

	notifications := service.NewNotificationService(st.notifications, mailer, logger.Component("notifications"))

	e := api.NewRouter(api.Deps{
		Auth:          service.NewAuthService(st.users, revoker, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		Tasks:         service.NewTaskService(st.tasks, st.users, st.comments, st.attachments, files, notifications, logger.Component("tasks")),
		Dashboards:    service.NewDashboardService(st.tasks, st.users, st.notifications),
		Comments:      service.NewCommentService(st.tasks, st.users, st.comments, notifications, logger.Component("comments")),
		Attachments:   service.NewAttachmentService(st.tasks, st.users, st.attachments, files, notifications, logger.Component("attachments")),
		Notifications: notifications,
		Drafting:      service.NewDraftingService(llm, llm, logger.Component("drafting")),
		Revocations:   revocations,
		Probes:        probes,
		JWTSecret:     cfg.JWTSecret,
		MaxBodySize:   cfg.MaxBodySize,
		Log:           logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("smarttask listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
