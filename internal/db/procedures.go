package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/claims"
	"github.com/gyeh/claimline/internal/model"
	embedsql "github.com/gyeh/claimline/internal/sql"
)

var procedureTable = pgx.Identifier{"claims", "procedures"}

// ProcedureStore persists procedure records in claims.procedures.
type ProcedureStore struct {
	pool *pgxpool.Pool
}

// NewProcedureStore returns a store backed by pool.
func NewProcedureStore(pool *pgxpool.Pool) *ProcedureStore {
	return &ProcedureStore{pool: pool}
}

// InsertMany COPY-loads recs inside one transaction, so a failure leaves no
// partial batch behind.
func (s *ProcedureStore) InsertMany(ctx context.Context, recs []model.ProcedureRecord) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	n, err := tx.CopyFrom(ctx, procedureTable, model.ProcedureColumns(), NewRecordSource(recs))
	if err != nil {
		return fmt.Errorf("copy procedures: %w", err)
	}
	if n != int64(len(recs)) {
		return fmt.Errorf("copy procedures: wrote %d of %d rows", n, len(recs))
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *ProcedureStore) List(ctx context.Context) ([]model.ProcedureRecord, error) {
	rows, err := s.pool.Query(ctx, embedsql.ListProcedures)
	if err != nil {
		return nil, fmt.Errorf("list procedures: %w", err)
	}
	defer rows.Close()

	recs := []model.ProcedureRecord{}
	for rows.Next() {
		rec, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list procedures: %w", err)
	}
	return recs, nil
}

func (s *ProcedureStore) Get(ctx context.Context, id int64) (*model.ProcedureRecord, error) {
	rec, err := scanProcedure(s.pool.QueryRow(ctx, embedsql.GetProcedure, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return rec, err
}

// Replace overwrites every mutable column of rec.ID. claim_id is not touched.
func (s *ProcedureStore) Replace(ctx context.Context, rec *model.ProcedureRecord) error {
	tag, err := s.pool.Exec(ctx, embedsql.ReplaceProcedure,
		rec.ID,
		rec.ServiceDate,
		rec.SubmittedProcedure,
		rec.Quadrant,
		rec.PlanGroup,
		rec.Subscriber,
		rec.ProviderNPI,
		rec.ProviderFees.String(),
		rec.AllowedFees.String(),
		rec.MemberCoinsurance.String(),
		rec.MemberCopay.String(),
		rec.NetFee.String(),
	)
	if err != nil {
		return fmt.Errorf("replace procedure %d: %w", rec.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *ProcedureStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, embedsql.DeleteProcedure, id)
	if err != nil {
		return fmt.Errorf("delete procedure %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *ProcedureStore) TopProviders(ctx context.Context, limit int) ([]model.ProviderTotal, error) {
	rows, err := s.pool.Query(ctx, embedsql.TopProviders, limit)
	if err != nil {
		return nil, fmt.Errorf("top providers: %w", err)
	}
	defer rows.Close()

	var totals []model.ProviderTotal
	for rows.Next() {
		var npi, sum string
		if err := rows.Scan(&npi, &sum); err != nil {
			return nil, fmt.Errorf("scan provider total: %w", err)
		}
		d, err := decimal.NewFromString(sum)
		if err != nil {
			return nil, fmt.Errorf("parse total for %s: %w", npi, err)
		}
		totals = append(totals, model.ProviderTotal{ProviderNPI: npi, TotalNetFee: d})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top providers: %w", err)
	}
	return totals, nil
}

// scanProcedure reads one row selected with the fee columns cast to text.
func scanProcedure(row pgx.Row) (*model.ProcedureRecord, error) {
	var (
		r     model.ProcedureRecord
		money [5]string
	)
	err := row.Scan(&r.ID, &r.BatchID, &r.ServiceDate, &r.SubmittedProcedure, &r.Quadrant,
		&r.PlanGroup, &r.Subscriber, &r.ProviderNPI,
		&money[0], &money[1], &money[2], &money[3], &money[4])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan procedure: %w", err)
	}

	dst := []*decimal.Decimal{&r.ProviderFees, &r.AllowedFees, &r.MemberCoinsurance, &r.MemberCopay, &r.NetFee}
	for i, s := range money {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q for procedure %d: %w", s, r.ID, err)
		}
		*dst[i] = d
	}
	return &r, nil
}

var _ claims.Store = (*ProcedureStore)(nil)
