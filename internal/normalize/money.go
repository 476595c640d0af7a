package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned when a monetary string does not match the
// accepted amount grammar.
var ErrMalformedAmount = errors.New("malformed amount")

// currencySymbols lists the leading symbols ParseAmount strips. At most one
// symbol is accepted.
var currencySymbols = []string{"$", "€", "£"}

// amountBody matches the numeric part after sign and symbol removal:
// plain digits or comma-grouped thousands, with an optional fraction.
//
//	100   100.5   .75   1,250.00   12,345,678
var amountBody = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d*)(?:\.\d*)?$`)

// ParseAmount converts a free-form monetary string into an exact decimal.
//
// Accepted grammar, surrounding whitespace ignored:
//
//	[sign] [symbol] [sign] body
//
// where sign is "-" or "+" (at most one overall), symbol is one of $, €, £
// and body matches amountBody with at least one digit. Anything else,
// including the empty string, fails with ErrMalformedAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)

	neg := false
	signSeen := false
	takeSign := func() {
		if signSeen || s == "" {
			return
		}
		switch s[0] {
		case '-':
			neg = true
		case '+':
		default:
			return
		}
		signSeen = true
		s = s[1:]
	}

	takeSign()
	for _, sym := range currencySymbols {
		if strings.HasPrefix(s, sym) {
			s = s[len(sym):]
			break
		}
	}
	takeSign()

	if !amountBody.MatchString(s) || !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ErrCentsOverflow is returned when an amount in cents does not fit in int64.
var ErrCentsOverflow = errors.New("amount in cents overflows int64")

// DollarsToCents converts an exact amount to integer cents, rounding half
// away from zero.
func DollarsToCents(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrCentsOverflow, d.String())
	}
	return cents.Int64(), nil
}
