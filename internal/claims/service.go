package claims

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/events"
	"github.com/gyeh/claimline/internal/model"
)

// TopProvidersLimit caps the top-providers aggregation.
const TopProvidersLimit = 10

// Store is the durable table of procedure records.
//
// InsertMany must be atomic: either every record is persisted or none is.
// Get, Replace and Delete return model.ErrNotFound for unknown ids.
type Store interface {
	InsertMany(ctx context.Context, recs []model.ProcedureRecord) error
	List(ctx context.Context) ([]model.ProcedureRecord, error)
	Get(ctx context.Context, id int64) (*model.ProcedureRecord, error)
	Replace(ctx context.Context, rec *model.ProcedureRecord) error
	Delete(ctx context.Context, id int64) error
	TopProviders(ctx context.Context, limit int) ([]model.ProviderTotal, error)
}

// Service validates, normalizes and persists procedure line items.
type Service struct {
	store Store
	pub   events.Publisher
	log   zerolog.Logger
	newID func() string
}

// NewService wires a Service. A nil publisher disables event publishing.
func NewService(store Store, pub events.Publisher, log zerolog.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store: store,
		pub:   pub,
		log:   log,
		newID: func() string { return uuid.New().String() },
	}
}

// Submit validates every item, computes net fees under one fresh batch id,
// and persists the whole batch atomically. The first invalid item aborts the
// batch before anything is written. An empty batch commits zero records.
func (s *Service) Submit(ctx context.Context, items []model.LineItem) (*model.BatchSummary, error) {
	start := time.Now()
	batchID := s.newID()

	recs := make([]model.ProcedureRecord, 0, len(items))
	total := decimal.Zero
	for i := range items {
		rec, err := BuildRecord(&items[i], i+1, batchID)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("batch_id", batchID).
				Int("item", i+1).
				Msg("batch rejected")
			return nil, err
		}
		total = total.Add(rec.NetFee)
		recs = append(recs, rec)
	}

	if len(recs) > 0 {
		if err := s.store.InsertMany(ctx, recs); err != nil {
			s.log.Error().Err(err).Str("batch_id", batchID).Msg("batch insert failed")
			return nil, &StoreError{Op: "insert batch", Err: err}
		}
	}

	summary := &model.BatchSummary{
		BatchID:     batchID,
		Records:     len(recs),
		TotalNetFee: total,
		SubmittedAt: start.UTC(),
		Duration:    time.Since(start),
	}

	s.log.Info().
		Str("batch_id", batchID).
		Int("records", summary.Records).
		Str("total_net_fee", total.String()).
		Dur("duration", summary.Duration).
		Msg("batch committed")

	if summary.Records > 0 {
		s.publish(ctx, summary)
	}
	return summary, nil
}

// publish emits a BatchSubmitted event. The batch is already committed, so a
// failed publish is logged and swallowed.
func (s *Service) publish(ctx context.Context, summary *model.BatchSummary) {
	ev := events.BatchSubmitted{
		BatchID:     summary.BatchID,
		Records:     summary.Records,
		TotalNetFee: summary.TotalNetFee,
		SubmittedAt: summary.SubmittedAt,
	}
	if err := s.pub.Publish(ctx, summary.BatchID, ev); err != nil {
		s.log.Warn().Err(err).Str("batch_id", summary.BatchID).Msg("batch event not published")
	}
}

// Update re-validates item and replaces every mutable field of record id.
// The batch id is preserved.
func (s *Service) Update(ctx context.Context, id int64, item *model.LineItem) (*model.ProcedureRecord, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr("get procedure", err)
	}

	rec, err := BuildRecord(item, 1, existing.BatchID)
	if err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("update rejected")
		return nil, err
	}
	rec.ID = id

	if err := s.store.Replace(ctx, &rec); err != nil {
		return nil, s.storeErr("replace procedure", err)
	}

	s.log.Info().Int64("id", id).Str("net_fee", rec.NetFee.String()).Msg("procedure updated")
	return &rec, nil
}

// Delete removes record id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeErr("delete procedure", err)
	}
	s.log.Info().Int64("id", id).Msg("procedure deleted")
	return nil
}

// List returns every stored record.
func (s *Service) List(ctx context.Context) ([]model.ProcedureRecord, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeErr("list procedures", err)
	}
	return recs, nil
}

// TopProviders returns up to TopProvidersLimit providers by descending summed net fee.
func (s *Service) TopProviders(ctx context.Context) ([]model.ProviderTotal, error) {
	totals, err := s.store.TopProviders(ctx, TopProvidersLimit)
	if err != nil {
		return nil, s.storeErr("top providers", err)
	}
	return totals, nil
}

// storeErr passes ErrNotFound through untouched and wraps everything else.
func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	s.log.Error().Err(err).Str("op", op).Msg("store failure")
	return &StoreError{Op: op, Err: err}
}
