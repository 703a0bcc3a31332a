package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smarttask/smarttask/internal/pkg/config"
	"github.com/smarttask/smarttask/pkg/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema and indexes, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: appName})

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.close(ctx)

			if err := st.migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Str("driver", cfg.Store.Driver).Msg("schema up to date")
			return nil
		},
	}
}
