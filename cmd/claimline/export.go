package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimline/internal/db"
	"github.com/gyeh/claimline/internal/exitcode"
	"github.com/gyeh/claimline/internal/export"
	"github.com/gyeh/claimline/internal/logging"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored procedure record to a Parquet file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Destination Parquet file (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	if code := exportRecords(context.Background(), log); code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

func exportRecords(ctx context.Context, log zerolog.Logger) int {
	pool, code := openPostgres(ctx, log, false)
	if code != exitcode.Success {
		return code
	}
	defer pool.Close()

	recs, err := db.NewProcedureStore(pool).List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list records")
		return exitcode.ExportError
	}

	n, err := export.WriteFile(exportOut, recs)
	if err != nil {
		log.Error().Err(err).Str("out", exportOut).Msg("export failed")
		return exitcode.ExportError
	}
	if err := export.Verify(exportOut, n); err != nil {
		log.Error().Err(err).Str("out", exportOut).Msg("export failed verification")
		return exitcode.ExportError
	}

	fmt.Printf("Export complete: %d records written to %s\n", n, exportOut)
	return exitcode.Success
}
