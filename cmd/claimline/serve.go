package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimline/internal/api"
	"github.com/gyeh/claimline/internal/claims"
	"github.com/gyeh/claimline/internal/events"
	"github.com/gyeh/claimline/internal/exitcode"
	"github.com/gyeh/claimline/internal/logging"
	"github.com/gyeh/claimline/internal/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (or set CLAIMLINE_ADDR)")
	f.StringVar(&cfg.Store, "store", cfg.Store, "Record store: postgres or memory")
	f.BoolVar(&cfg.ResetSchema, "reset-schema", false, "Drop and recreate the schema before serving")
	f.IntVar(&cfg.RateLimit.MaxRequests, "rate-limit", cfg.RateLimit.MaxRequests, "Requests allowed per client per window")
	f.DurationVar(&cfg.RateLimit.Window, "rate-limit-window", cfg.RateLimit.Window, "Rate limit window")
	f.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", nil, "Kafka brokers for batch events (disabled when empty)")
	f.StringVar(&cfg.Kafka.Topic, "kafka-topic", cfg.Kafka.Topic, "Kafka topic for batch events")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := func() int {
		store, closeStore, code := openStore(ctx, log)
		if code != exitcode.Success {
			return code
		}
		defer closeStore()

		pub := newPublisher(log)
		defer pub.Close()

		return serve(ctx, log, store, pub)
	}()
	stop()

	if code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

// serve runs the API until ctx is done or the listener fails and returns the
// process exit code. The caller owns store and pub.
func serve(ctx context.Context, log zerolog.Logger, store claims.Store, pub events.Publisher) int {
	svc := claims.NewService(store, pub, log)
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	handler := api.NewRouter(api.NewProceduresHandler(svc, log), limiter, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("store", cfg.Store).
			Int("rate_limit", cfg.RateLimit.MaxRequests).
			Dur("rate_limit_window", cfg.RateLimit.Window).
			Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			return exitcode.ServeError
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			return exitcode.ServeError
		}
	}
	return exitcode.Success
}
