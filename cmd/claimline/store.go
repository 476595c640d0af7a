package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimline/internal/claims"
	"github.com/gyeh/claimline/internal/config"
	"github.com/gyeh/claimline/internal/db"
	"github.com/gyeh/claimline/internal/events"
	"github.com/gyeh/claimline/internal/events/kafka"
	"github.com/gyeh/claimline/internal/exitcode"
	"github.com/gyeh/claimline/internal/memstore"
)

// openPostgres connects and brings the schema up to date, dropping it first
// when reset is set. A non-zero code means the caller should exit with it.
func openPostgres(ctx context.Context, log zerolog.Logger, reset bool) (*pgxpool.Pool, int) {
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return nil, exitcode.DBConnError
	}

	if reset {
		err = db.ResetSchema(ctx, pool, log)
	} else {
		err = db.ApplyMigrations(ctx, pool, log)
	}
	if err != nil {
		pool.Close()
		log.Error().Err(err).Msg("migration failed")
		return nil, exitcode.MigrationError
	}
	return pool, exitcode.Success
}

// openStore returns the record store selected by cfg.Store and a func that
// releases it.
func openStore(ctx context.Context, log zerolog.Logger) (claims.Store, func(), int) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("using in-memory store; records are lost on exit")
		return memstore.New(), func() {}, exitcode.Success
	}

	pool, code := openPostgres(ctx, log, cfg.ResetSchema)
	if code != exitcode.Success {
		return nil, nil, code
	}
	return db.NewProcedureStore(pool), pool.Close, exitcode.Success
}

func newPublisher(log zerolog.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.Nop{}
	}
	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.Topic).
		Msg("publishing batch events")
	return kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
