// Package normalize canonicalizes raw provider-extracted field values into
// typed canonical forms. Normalization never mutates its input and never
// aborts a pipeline: a value either becomes a new Field or a typed Error the
// caller records as an absent field.
package normalize

import (
	"time"

	"docverify/internal/documents"
)

const (
	defaultHomeCountryCode   = "+91"
	defaultMinPhoneDigits    = 10
	defaultAddressConfidence = 0.9
)

// Options configures locale- and policy-dependent normalization behavior.
type Options struct {
	// HomeCountryCode is assumed for phone numbers without a country prefix.
	HomeCountryCode string
	// MinPhoneDigits is the minimum count of significant (national) digits.
	MinPhoneDigits int
	// AddressConfidencePenalty scales candidate confidence to account for
	// the lossy address segmentation. Must be in (0, 1].
	AddressConfidencePenalty float64
}

func (o Options) withDefaults() Options {
	if o.HomeCountryCode == "" {
		o.HomeCountryCode = defaultHomeCountryCode
	}
	if o.MinPhoneDigits <= 0 {
		o.MinPhoneDigits = defaultMinPhoneDigits
	}
	if o.AddressConfidencePenalty <= 0 || o.AddressConfidencePenalty > 1 {
		o.AddressConfidencePenalty = defaultAddressConfidence
	}
	return o
}

// Field is one canonicalized value derived from a single candidate. It is
// never mutated after creation; re-derive instead of patching.
type Field struct {
	Name documents.FieldName
	// Value is the canonical comparable form (ISO-8601 date, E.164 phone,
	// lower-cased email, digit string, title-cased name, joined address).
	Value string
	// Address carries the segmented component tuple when Name is address.
	Address    *Address
	Confidence float64
	DocumentID string
}

// Normalizer applies the type-specific canonicalization rules.
type Normalizer struct {
	opts Options
	now  func() time.Time
}

// New constructs a Normalizer. The zero Options value selects defaults.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts.withDefaults(), now: time.Now}
}

// WithClock overrides the wall clock used for future-date checks. Reports
// must be reproducible for a fixed "now".
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	if now != nil {
		n.now = now
	}
	return n
}

// Candidate normalizes one field candidate from the given document. It
// returns either a new Field or a typed *Error.
func (n *Normalizer) Candidate(documentID string, cand documents.FieldCandidate) (Field, error) {
	if collapseWhitespace(cand.RawValue) == "" {
		return Field{}, newError(KindEmptyValue, cand.Field, cand.RawValue, "")
	}

	field := Field{
		Name:       cand.Field,
		Confidence: cand.Confidence,
		DocumentID: documentID,
	}

	switch cand.Field {
	case documents.FieldDateOfBirth:
		value, err := n.date(cand.Field, cand.RawValue, true)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldExpiryDate, documents.FieldEmploymentStartDate:
		value, err := n.date(cand.Field, cand.RawValue, false)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldPhoneNumber:
		value, err := n.phone(cand.RawValue)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldEmail:
		value, err := normalizeEmail(cand.RawValue)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldNationalID:
		value, err := normalizeNationalID(cand.RawValue)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldTaxID:
		value, err := normalizeTaxID(cand.RawValue)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldEmployeeID:
		value, err := normalizeEmployeeID(cand.RawValue)
		if err != nil {
			return Field{}, err
		}
		field.Value = value
	case documents.FieldAddress:
		addr := segmentAddress(cand.RawValue)
		field.Address = &addr
		field.Value = addr.Canonical()
		field.Confidence = cand.Confidence * n.opts.AddressConfidencePenalty
	case documents.FieldFullName, documents.FieldFatherName, documents.FieldAccountHolderName:
		field.Value = normalizeName(cand.RawValue)
	default:
		// Unknown fields pass through with whitespace cleanup only.
		field.Value = collapseWhitespace(cand.RawValue)
	}

	return field, nil
}

// date parses a raw date in any supported format and renders it in the
// canonical ISO-8601 form. rejectFuture applies to birth dates.
func (n *Normalizer) date(fieldName documents.FieldName, raw string, rejectFuture bool) (string, error) {
	parsed, ok := parseDate(raw)
	if !ok {
		return "", newError(KindInvalidDate, fieldName, raw, "no known pattern matched")
	}
	if rejectFuture && parsed.After(n.now()) {
		return "", newError(KindInvalidDate, fieldName, raw, "date is in the future")
	}
	return parsed.Format(CanonicalDateFormat), nil
}
