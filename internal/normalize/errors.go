package normalize

import (
	"errors"
	"fmt"

	"docverify/internal/documents"
)

// Kind classifies a normalization failure.
type Kind string

const (
	KindInvalidDate             Kind = "invalid_date"
	KindInvalidPhone            Kind = "invalid_phone"
	KindInvalidEmail            Kind = "invalid_email"
	KindInvalidIdentifierFormat Kind = "invalid_identifier_format"
	KindChecksumMismatch        Kind = "checksum_mismatch"
	KindEmptyValue              Kind = "empty_value"
)

// Error is a typed, per-field normalization failure. It is non-fatal: callers
// record the field as absent and continue.
type Error struct {
	Kind   Kind
	Field  documents.FieldName
	Raw    string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("normalize %s: %s: %s (raw %q)", e.Field, e.Kind, e.Detail, e.Raw)
	}
	return fmt.Sprintf("normalize %s: %s (raw %q)", e.Field, e.Kind, e.Raw)
}

func newError(kind Kind, field documents.FieldName, raw, detail string) *Error {
	return &Error{Kind: kind, Field: field, Raw: raw, Detail: detail}
}

// IsKind reports whether err is a normalization Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Kind == kind
	}
	return false
}
