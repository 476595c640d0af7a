package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/claims"
	"github.com/gyeh/claimline/internal/model"
)

// Store keeps procedure records in memory in insertion order. It is safe for
// concurrent use and satisfies the same contract as the Postgres store.
type Store struct {
	mu     sync.Mutex
	nextID int64
	recs   []model.ProcedureRecord
}

// New returns an empty Store. Ids start at 1.
func New() *Store {
	return &Store{nextID: 1}
}

// InsertMany appends all records under one lock and assigns their ids.
func (s *Store) InsertMany(ctx context.Context, recs []model.ProcedureRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range recs {
		r.ID = s.nextID
		s.nextID++
		s.recs = append(s.recs, clone(r))
	}
	return nil
}

// List returns a copy of every record, ordered by id.
func (s *Store) List(ctx context.Context) ([]model.ProcedureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ProcedureRecord, len(s.recs))
	for i, r := range s.recs {
		out[i] = clone(r)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*model.ProcedureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, model.ErrNotFound
	}
	r := clone(s.recs[i])
	return &r, nil
}

// Replace overwrites the record with rec.ID. The stored batch id is kept.
func (s *Store) Replace(ctx context.Context, rec *model.ProcedureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(rec.ID)
	if i < 0 {
		return model.ErrNotFound
	}
	r := clone(*rec)
	r.BatchID = s.recs[i].BatchID
	s.recs[i] = r
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return model.ErrNotFound
	}
	s.recs = append(s.recs[:i], s.recs[i+1:]...)
	return nil
}

// TopProviders sums net fees per provider and returns the largest totals.
// Ties keep the order in which providers first appear.
func (s *Store) TopProviders(ctx context.Context, limit int) ([]model.ProviderTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, r := range s.recs {
		cur, ok := sums[r.ProviderNPI]
		if !ok {
			order = append(order, r.ProviderNPI)
		}
		sums[r.ProviderNPI] = cur.Add(r.NetFee)
	}

	totals := make([]model.ProviderTotal, len(order))
	for i, npi := range order {
		totals[i] = model.ProviderTotal{ProviderNPI: npi, TotalNetFee: sums[npi]}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalNetFee.GreaterThan(totals[j].TotalNetFee)
	})

	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

// index returns the slice position of id, or -1. Records are appended with
// increasing ids, so the slice stays sorted.
func (s *Store) index(id int64) int {
	i := sort.Search(len(s.recs), func(i int) bool { return s.recs[i].ID >= id })
	if i < len(s.recs) && s.recs[i].ID == id {
		return i
	}
	return -1
}

func clone(r model.ProcedureRecord) model.ProcedureRecord {
	if r.Quadrant != nil {
		q := *r.Quadrant
		r.Quadrant = &q
	}
	return r
}

var _ claims.Store = (*Store)(nil)
