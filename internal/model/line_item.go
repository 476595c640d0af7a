package model

// LineItem is one procedure entry as submitted by a client. Monetary fields
// are free-form strings ("$1,250.00") and are only trusted after validation.
type LineItem struct {
	ServiceDate        string  `json:"service_date"`
	SubmittedProcedure string  `json:"submitted_procedure"`
	Quadrant           *string `json:"quadrant"`
	PlanGroup          string  `json:"plan_group"`
	Subscriber         string  `json:"subscriber"`
	ProviderNPI        string  `json:"provider_npi"`
	ProviderFees       string  `json:"provider_fees"`
	AllowedFees        string  `json:"allowed_fees"`
	MemberCoinsurance  string  `json:"member_coinsurance"`
	MemberCopay        string  `json:"member_copay"`
}

// Monetary field names in the order they are checked.
const (
	FieldProviderFees      = "provider_fees"
	FieldAllowedFees       = "allowed_fees"
	FieldMemberCoinsurance = "member_coinsurance"
	FieldMemberCopay       = "member_copay"
)

// AmountFields returns the raw monetary values keyed by field name, in check order.
func (li *LineItem) AmountFields() []NamedAmount {
	return []NamedAmount{
		{Name: FieldProviderFees, Raw: li.ProviderFees},
		{Name: FieldAllowedFees, Raw: li.AllowedFees},
		{Name: FieldMemberCoinsurance, Raw: li.MemberCoinsurance},
		{Name: FieldMemberCopay, Raw: li.MemberCopay},
	}
}

// NamedAmount pairs a monetary field name with its submitted text.
type NamedAmount struct {
	Name string
	Raw  string
}
