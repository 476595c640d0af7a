package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimline/internal/exitcode"
	"github.com/gyeh/claimline/internal/logging"
)

var resetBeforeMigrate bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&resetBeforeMigrate, "reset", false, "Drop the claims schema and every record before migrating")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, code := openPostgres(ctx, log, resetBeforeMigrate)
	if code != exitcode.Success {
		os.Exit(code)
	}
	pool.Close()

	log.Info().Bool("reset", resetBeforeMigrate).Msg("schema is up to date")
	return nil
}
