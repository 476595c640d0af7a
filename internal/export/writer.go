package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimline/internal/model"
)

// WriteFile writes recs to a new Parquet file at path and returns the number
// of rows written.
func WriteFile(path string, recs []model.ProcedureRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create parquet file: %w", err)
	}

	rows := make([]ProcedureRow, len(recs))
	for i := range recs {
		rows[i] = FromRecord(&recs[i])
	}

	w := parquet.NewGenericWriter[ProcedureRow](f)
	n, err := w.Write(rows)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return n, fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close parquet file: %w", err)
	}
	return n, nil
}
