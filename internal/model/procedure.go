package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by stores when a procedure id does not exist.
var ErrNotFound = errors.New("procedure not found")

// ProcedureRecord is the persisted, normalized form of a line item.
// NetFee is always derived from the four fee fields at write time.
type ProcedureRecord struct {
	ID                 int64
	BatchID            string
	ServiceDate        string
	SubmittedProcedure string
	Quadrant           *string
	PlanGroup          string
	Subscriber         string
	ProviderNPI        string
	ProviderFees       decimal.Decimal
	AllowedFees        decimal.Decimal
	MemberCoinsurance  decimal.Decimal
	MemberCopay        decimal.Decimal
	NetFee             decimal.Decimal
}

// ProcedureColumns returns the ordered column names used for COPY into
// claims.procedures. The id column is assigned by the database.
func ProcedureColumns() []string {
	return []string{
		"claim_id",
		"service_date",
		"submitted_procedure",
		"quadrant",
		"plan_group",
		"subscriber",
		"provider_npi",
		"provider_fees",
		"allowed_fees",
		"member_coinsurance",
		"member_copay",
		"net_fee",
	}
}

// CopyValues returns the record values in the same order as ProcedureColumns().
// Decimals are passed as strings so the NUMERIC columns keep full precision.
func (r *ProcedureRecord) CopyValues() []any {
	return []any{
		r.BatchID,
		r.ServiceDate,
		r.SubmittedProcedure,
		r.Quadrant,
		r.PlanGroup,
		r.Subscriber,
		r.ProviderNPI,
		r.ProviderFees.String(),
		r.AllowedFees.String(),
		r.MemberCoinsurance.String(),
		r.MemberCopay.String(),
		r.NetFee.String(),
	}
}

// ProviderTotal is one row of the top-providers aggregation.
type ProviderTotal struct {
	ProviderNPI string
	TotalNetFee decimal.Decimal
}
