package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Publisher delivers domain events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// BatchSubmitted is emitted once per committed submission.
type BatchSubmitted struct {
	BatchID     string          `json:"batch_id"`
	Records     int             `json:"records"`
	TotalNetFee decimal.Decimal `json:"total_net_fee"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

var _ Publisher = Nop{}
