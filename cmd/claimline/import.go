package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimline/internal/claims"
	"github.com/gyeh/claimline/internal/db"
	"github.com/gyeh/claimline/internal/exitcode"
	"github.com/gyeh/claimline/internal/logging"
	"github.com/gyeh/claimline/internal/xlsximport"
)

var (
	importFile  string
	importSheet string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Submit the line items of a spreadsheet as one batch",
	Long: "Submits every non-blank row of a sheet as one all-or-nothing batch. " +
		"Rejections name the data row: row 1 is the row under the header, and blank rows count.",
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFile, "file", "", "Path to XLSX workbook (required)")
	f.StringVar(&importSheet, "sheet", "", "Sheet name (defaults to the first sheet)")
	f.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", nil, "Kafka brokers for batch events (disabled when empty)")
	f.StringVar(&cfg.Kafka.Topic, "kafka-topic", cfg.Kafka.Topic, "Kafka topic for batch events")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	if code := importWorkbook(context.Background(), log); code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

func importWorkbook(ctx context.Context, log zerolog.Logger) int {
	sha, err := xlsximport.Digest(importFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash workbook")
		return exitcode.ImportError
	}

	sheet, err := xlsximport.ReadFile(importFile, importSheet)
	if err != nil {
		log.Error().Err(err).Str("file", importFile).Msg("failed to read workbook")
		return exitcode.ImportError
	}
	log.Info().
		Str("file", importFile).
		Str("sheet", sheet.Name).
		Str("sha256", sha).
		Int("items", len(sheet.Items)).
		Msg("workbook read")

	pool, code := openPostgres(ctx, log, false)
	if code != exitcode.Success {
		return code
	}
	defer pool.Close()

	pub := newPublisher(log)
	defer pub.Close()

	svc := claims.NewService(db.NewProcedureStore(pool), pub, log)
	summary, err := svc.Submit(ctx, sheet.Items)
	if err != nil {
		var ve *claims.ValidationError
		if errors.As(err, &ve) {
			ve.Item = sheet.Position(ve.Item)
			fmt.Fprintln(os.Stderr, ve.Error())
			return exitcode.ValidationError
		}
		log.Error().Err(err).Msg("import failed")
		return exitcode.ImportError
	}

	fmt.Printf("Import complete: %d records in batch %s, total net fee %s (%.1fs)\n",
		summary.Records, summary.BatchID, summary.TotalNetFee.String(), summary.Duration.Seconds())
	return exitcode.Success
}
