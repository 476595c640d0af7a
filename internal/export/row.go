package export

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/model"
	"github.com/gyeh/claimline/internal/normalize"
)

// ProcedureRow is the Parquet layout of one procedure record. Amounts are
// exact decimal strings; NetFeeCents is a fixed-point convenience column,
// null when the amount in cents does not fit in int64.
type ProcedureRow struct {
	ID                 int64   `parquet:"id"`
	ClaimID            string  `parquet:"claim_id"`
	ServiceDate        string  `parquet:"service_date"`
	SubmittedProcedure string  `parquet:"submitted_procedure"`
	Quadrant           *string `parquet:"quadrant,optional"`
	PlanGroup          string  `parquet:"plan_group"`
	Subscriber         string  `parquet:"subscriber"`
	ProviderNPI        string  `parquet:"provider_npi"`
	ProviderFees       string  `parquet:"provider_fees"`
	AllowedFees        string  `parquet:"allowed_fees"`
	MemberCoinsurance  string  `parquet:"member_coinsurance"`
	MemberCopay        string  `parquet:"member_copay"`
	NetFee             string  `parquet:"net_fee"`
	NetFeeCents        *int64  `parquet:"net_fee_cents,optional"`
}

// FromRecord converts a stored record into its Parquet row.
func FromRecord(r *model.ProcedureRecord) ProcedureRow {
	row := ProcedureRow{
		ID:                 r.ID,
		ClaimID:            r.BatchID,
		ServiceDate:        r.ServiceDate,
		SubmittedProcedure: r.SubmittedProcedure,
		Quadrant:           r.Quadrant,
		PlanGroup:          r.PlanGroup,
		Subscriber:         r.Subscriber,
		ProviderNPI:        r.ProviderNPI,
		ProviderFees:       r.ProviderFees.String(),
		AllowedFees:        r.AllowedFees.String(),
		MemberCoinsurance:  r.MemberCoinsurance.String(),
		MemberCopay:        r.MemberCopay.String(),
		NetFee:             r.NetFee.String(),
	}
	if cents, err := normalize.DollarsToCents(r.NetFee); err == nil {
		row.NetFeeCents = &cents
	}
	return row
}

// ToRecord converts a Parquet row back into a record.
func (p *ProcedureRow) ToRecord() (model.ProcedureRecord, error) {
	r := model.ProcedureRecord{
		ID:                 p.ID,
		BatchID:            p.ClaimID,
		ServiceDate:        p.ServiceDate,
		SubmittedProcedure: p.SubmittedProcedure,
		Quadrant:           p.Quadrant,
		PlanGroup:          p.PlanGroup,
		Subscriber:         p.Subscriber,
		ProviderNPI:        p.ProviderNPI,
	}

	amounts := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"provider_fees", p.ProviderFees, &r.ProviderFees},
		{"allowed_fees", p.AllowedFees, &r.AllowedFees},
		{"member_coinsurance", p.MemberCoinsurance, &r.MemberCoinsurance},
		{"member_copay", p.MemberCopay, &r.MemberCopay},
		{"net_fee", p.NetFee, &r.NetFee},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return model.ProcedureRecord{}, fmt.Errorf("row %d %s: %w", p.ID, a.name, err)
		}
		*a.dst = d
	}
	return r, nil
}
