package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimline/internal/model"
)

const readBatch = 256

// ReadFile loads every record from the export at path. Files whose schema
// lacks a required column are rejected before any row is read.
func ReadFile(path string) ([]model.ProcedureRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if err := ValidateSchema(pf.Schema()); err != nil {
		return nil, err
	}

	rows := parquet.NewGenericReader[ProcedureRow](pf)
	defer rows.Close()

	recs := make([]model.ProcedureRecord, 0, rows.NumRows())
	buf := make([]ProcedureRow, readBatch)
	for {
		n, readErr := rows.Read(buf)
		for i := range buf[:n] {
			rec, err := buf[i].ToRecord()
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
		if errors.Is(readErr, io.EOF) {
			return recs, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}
}

// Verify reads back a finished export and checks that it holds exactly want
// records, each of which converts back into a record.
func Verify(path string, want int) error {
	recs, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("verify export: %w", err)
	}
	if len(recs) != want {
		return fmt.Errorf("verify export: file holds %d records, want %d", len(recs), want)
	}
	return nil
}
