package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/claimline/internal/model"
)

// RecordSource implements pgx.CopyFromSource over a slice of procedure records.
type RecordSource struct {
	recs []model.ProcedureRecord
	idx  int
}

// NewRecordSource creates a CopyFromSource that yields recs in order.
func NewRecordSource(recs []model.ProcedureRecord) *RecordSource {
	return &RecordSource{recs: recs, idx: -1}
}

// Next advances to the next record. Returns false after the last one.
func (s *RecordSource) Next() bool {
	s.idx++
	return s.idx < len(s.recs)
}

// Values returns the current record's values in COPY column order.
func (s *RecordSource) Values() ([]any, error) {
	return s.recs[s.idx].CopyValues(), nil
}

// Err always returns nil; the slice cannot fail mid-iteration.
func (s *RecordSource) Err() error {
	return nil
}

var _ pgx.CopyFromSource = (*RecordSource)(nil)
