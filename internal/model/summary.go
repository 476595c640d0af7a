package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchSummary captures the outcome of a single committed submission.
type BatchSummary struct {
	BatchID     string
	Records     int
	TotalNetFee decimal.Decimal
	SubmittedAt time.Time
	Duration    time.Duration
}
