package claims

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a ValidationError.
type ErrorKind int

const (
	// MissingField means one or more required monetary fields were empty.
	MissingField ErrorKind = iota + 1
	// MalformedAmount means a present monetary field failed to parse.
	MalformedAmount
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case MalformedAmount:
		return "malformed_amount"
	default:
		return "unknown"
	}
}

// ValidationError describes why a submitted line item was rejected. It is
// client-facing: Error() is safe to return verbatim.
type ValidationError struct {
	Kind ErrorKind
	// Item is the 1-based position of the line item in its batch.
	Item int
	// Fields lists every missing field for MissingField, or the single
	// offending field for MalformedAmount.
	Fields        []string
	ProcedureCode string
	ServiceDate   string
	Err           error
}

func (e *ValidationError) Error() string {
	if e.Kind == MissingField {
		return fmt.Sprintf("Missing required fields in data item %d: %s",
			e.Item, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("Invalid value or type for '%s' in Data item %d (%s - %s).",
		strings.Join(e.Fields, ", "), e.Item, e.ProcedureCode, e.ServiceDate)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StoreError wraps an unexpected storage failure with the operation that
// produced it. It is never shown to clients.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
