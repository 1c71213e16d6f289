// Package commands implements accountctl, the operator tool for schema
// migrations and orphaned identity cleanup.
package commands

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"signup/internal/platform/config"
	"signup/internal/platform/logger"
	"signup/internal/platform/postgres"
)

var (
	cfg config.Server
	log *slog.Logger
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "accountctl",
		Short: "Operate the signup service's stores",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.FromEnv()
			if err != nil {
				return err
			}
			cfg = loaded
			log = logger.New(cfg.LogLevel)
			return nil
		},
	}

	root.SilenceUsage = true

	root.AddCommand(migrateCmd(), orphansCmd())
	return root
}

func openDB(cmd *cobra.Command) (*sql.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return postgres.Open(cmd.Context(), cfg.Database)
}
