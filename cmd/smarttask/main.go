// Package main is the smarttask binary entry point.
//
// @title                      SmartTask API
// @version                    1.0
// @description                Task management between admins and their clients, with notifications and AI drafting.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "smarttask"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Task management service for admins and their clients",
		Long: `SmartTask lets admins assign tasks to clients, track their status,
exchange comments and files, and draft task text with an AI assistant.

Configuration is read from the environment (JWT_SECRET, STORE_DRIVER,
MONGO_URI, SQL_DSN, REDIS_ADDR, MAIL_*, OPENAI_*).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd(), migrateCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}
