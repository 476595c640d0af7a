package claims

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/model"
	"github.com/gyeh/claimline/internal/normalize"
)

// Amounts holds the parsed monetary fields of one line item.
type Amounts struct {
	ProviderFees      decimal.Decimal
	AllowedFees       decimal.Decimal
	MemberCoinsurance decimal.Decimal
	MemberCopay       decimal.Decimal
}

// ValidateItem checks one line item at 1-based position pos.
//
// All missing monetary fields are collected into a single MissingField error
// before any format check runs. Format checks run in field order (provider,
// allowed, coinsurance, copay) and stop at the first MalformedAmount.
func ValidateItem(item *model.LineItem, pos int) (Amounts, error) {
	fields := item.AmountFields()

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Raw) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return Amounts{}, &ValidationError{
			Kind:          MissingField,
			Item:          pos,
			Fields:        missing,
			ProcedureCode: item.SubmittedProcedure,
			ServiceDate:   item.ServiceDate,
		}
	}

	parsed := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		d, err := normalize.ParseAmount(f.Raw)
		if err != nil {
			return Amounts{}, &ValidationError{
				Kind:          MalformedAmount,
				Item:          pos,
				Fields:        []string{f.Name},
				ProcedureCode: item.SubmittedProcedure,
				ServiceDate:   item.ServiceDate,
				Err:           err,
			}
		}
		parsed[i] = d
	}

	return Amounts{
		ProviderFees:      parsed[0],
		AllowedFees:       parsed[1],
		MemberCoinsurance: parsed[2],
		MemberCopay:       parsed[3],
	}, nil
}

// NetFee returns provider_fees + member_coinsurance + member_copay - allowed_fees.
// Negative results are valid.
func NetFee(a Amounts) decimal.Decimal {
	return a.ProviderFees.
		Add(a.MemberCoinsurance).
		Add(a.MemberCopay).
		Sub(a.AllowedFees)
}

// BuildRecord validates item and returns the normalized record tagged with batchID.
func BuildRecord(item *model.LineItem, pos int, batchID string) (model.ProcedureRecord, error) {
	a, err := ValidateItem(item, pos)
	if err != nil {
		return model.ProcedureRecord{}, err
	}
	return model.ProcedureRecord{
		BatchID:            batchID,
		ServiceDate:        item.ServiceDate,
		SubmittedProcedure: item.SubmittedProcedure,
		Quadrant:           item.Quadrant,
		PlanGroup:          item.PlanGroup,
		Subscriber:         item.Subscriber,
		ProviderNPI:        item.ProviderNPI,
		ProviderFees:       a.ProviderFees,
		AllowedFees:        a.AllowedFees,
		MemberCoinsurance:  a.MemberCoinsurance,
		MemberCopay:        a.MemberCopay,
		NetFee:             NetFee(a),
	}, nil
}
