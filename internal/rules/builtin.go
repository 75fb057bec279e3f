package rules

import (
	"fmt"
	"strings"
	"time"

	"docverify/internal/documents"
	"docverify/internal/normalize"
	"docverify/internal/reconcile"
	"docverify/internal/textutil"
)

const (
	defaultFuzzyThreshold = 0.85
	defaultMinWorkingAge  = 18
)

// Options carries the tunable thresholds the built-in catalogue uses.
type Options struct {
	// FuzzyThreshold is the minimum token-overlap ratio for name and
	// address values to count as matching.
	FuzzyThreshold float64
	// MinWorkingAge is the minimum plausible age, in years, at the start of
	// employment.
	MinWorkingAge int
}

func (o Options) withDefaults() Options {
	if o.FuzzyThreshold <= 0 || o.FuzzyThreshold > 1 {
		o.FuzzyThreshold = defaultFuzzyThreshold
	}
	if o.MinWorkingAge <= 0 {
		o.MinWorkingAge = defaultMinWorkingAge
	}
	return o
}

// Default builds the built-in rule catalogue. The returned error is fatal at
// startup: a malformed catalogue must abort initialization.
func Default(opts Options) (*Catalogue, error) {
	opts = opts.withDefaults()
	catalogue := NewCatalogue()
	for _, rule := range []Rule{
		nameConsistency(opts),
		dobConsistency(),
		addressConsistency(opts),
		nationalIDValidity(),
		documentNotExpired(),
		employmentTenure(opts),
		holderNameMatch(opts),
		phoneConsistency(),
		fatherNameConsistency(opts),
	} {
		if err := catalogue.Register(rule); err != nil {
			return nil, err
		}
	}
	return catalogue, nil
}

func nameConsistency(opts Options) Rule {
	return Rule{
		ID:      "name_consistency",
		Summary: "Full name matches across all documents",
		DocumentTypes: []documents.Type{
			documents.TypeGovernmentID,
			documents.TypeBankStatement,
			documents.TypeEmploymentLetter,
		},
		Predicate: fuzzyConsistency(documents.FieldFullName, opts.FuzzyThreshold),
	}
}

func dobConsistency() Rule {
	return Rule{
		ID:            "dob_consistency",
		Summary:       "Date of birth matches between the ID and every document carrying one",
		DocumentTypes: []documents.Type{documents.TypeGovernmentID},
		Predicate: func(in Input) Outcome {
			sources := sourcesFor(in, documents.FieldDateOfBirth)
			if len(sources) == 0 {
				return warnMissingField(in, documents.FieldDateOfBirth)
			}
			if !anyFromType(sources, documents.TypeGovernmentID) {
				out := warnMissingField(in, documents.FieldDateOfBirth)
				out.Message = "government ID carries no usable date of birth"
				return out
			}
			values := distinctValues(sources)
			if len(values) == 1 {
				return Outcome{
					Status:   StatusPass,
					Message:  "dates of birth agree",
					Evidence: evidence(sources),
				}
			}
			return Outcome{
				Status:   StatusFail,
				Message:  fmt.Sprintf("dates of birth disagree: %s", strings.Join(values, " vs ")),
				Evidence: evidence(sources),
			}
		},
	}
}

func addressConsistency(opts Options) Rule {
	return Rule{
		ID:      "address_consistency",
		Summary: "Address on the ID matches the bank statement",
		DocumentTypes: []documents.Type{
			documents.TypeGovernmentID,
			documents.TypeBankStatement,
		},
		Predicate: func(in Input) Outcome {
			sources := sourcesFor(in, documents.FieldAddress)
			idAddr, okID := firstFromType(sources, documents.TypeGovernmentID)
			bankAddr, okBank := firstFromType(sources, documents.TypeBankStatement)
			if !okID || !okBank {
				return warnMissingField(in, documents.FieldAddress)
			}
			ev := map[string]string{
				string(documents.TypeGovernmentID):  idAddr.Value,
				string(documents.TypeBankStatement): bankAddr.Value,
			}
			overlap := textutil.TokenOverlap(idAddr.Value, bankAddr.Value)
			ev["token_overlap"] = fmt.Sprintf("%.2f", overlap)
			if overlap >= opts.FuzzyThreshold {
				return Outcome{Status: StatusPass, Message: "addresses agree", Evidence: ev}
			}
			return Outcome{
				Status:   StatusFail,
				Message:  fmt.Sprintf("addresses disagree (overlap %.2f below %.2f)", overlap, opts.FuzzyThreshold),
				Evidence: ev,
			}
		},
	}
}

func nationalIDValidity() Rule {
	return Rule{
		ID:            "national_id_validity",
		Summary:       "National ID passes format and check-digit validation",
		DocumentTypes: []documents.Type{documents.TypeGovernmentID},
		Predicate: func(in Input) Outcome {
			value, ok := valueFor(in, documents.FieldNationalID)
			if !ok {
				// Candidates that failed the checksum were discarded during
				// normalization; the field is absent, not contradictory.
				return warnMissingField(in, documents.FieldNationalID)
			}
			return Outcome{
				Status:   StatusPass,
				Message:  "national ID format and check digit verify",
				Evidence: map[string]string{string(documents.FieldNationalID): value},
			}
		},
	}
}

func documentNotExpired() Rule {
	return Rule{
		ID:            "document_not_expired",
		Summary:       "Government ID is not past its expiry date",
		DocumentTypes: []documents.Type{documents.TypeGovernmentID},
		Predicate: func(in Input) Outcome {
			value, ok := valueFor(in, documents.FieldExpiryDate)
			if !ok {
				return warnMissingField(in, documents.FieldExpiryDate)
			}
			expiry, err := time.Parse(normalize.CanonicalDateFormat, value)
			if err != nil {
				return warnMissingField(in, documents.FieldExpiryDate)
			}
			// The boundary is the clock's calendar day, not the UTC epoch
			// day; built in UTC to compare against the parsed expiry.
			year, month, day := in.Now.Date()
			today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			ev := map[string]string{
				string(documents.FieldExpiryDate): value,
				"evaluated_at":                    today.Format(normalize.CanonicalDateFormat),
			}
			if expiry.Before(today) {
				return Outcome{
					Status:   StatusFail,
					Message:  fmt.Sprintf("document expired on %s", value),
					Evidence: ev,
				}
			}
			return Outcome{Status: StatusPass, Message: "document is not expired", Evidence: ev}
		},
	}
}

func employmentTenure(opts Options) Rule {
	return Rule{
		ID:            "employment_tenure",
		Summary:       "Age at employment start is at least the minimum working age",
		DocumentTypes: []documents.Type{documents.TypeEmploymentLetter},
		Predicate: func(in Input) Outcome {
			dobValue, ok := valueFor(in, documents.FieldDateOfBirth)
			if !ok {
				return warnMissingField(in, documents.FieldDateOfBirth)
			}
			dob, err := time.Parse(normalize.CanonicalDateFormat, dobValue)
			if err != nil {
				return warnMissingField(in, documents.FieldDateOfBirth)
			}

			reference := in.Now
			referenceLabel := "today"
			if startValue, ok := valueFor(in, documents.FieldEmploymentStartDate); ok {
				if start, err := time.Parse(normalize.CanonicalDateFormat, startValue); err == nil {
					reference = start
					referenceLabel = startValue
				}
			}

			age := yearsBetween(dob, reference)
			ev := map[string]string{
				string(documents.FieldDateOfBirth): dobValue,
				"reference_date":                   referenceLabel,
				"age_years":                        fmt.Sprintf("%d", age),
				"min_working_age":                  fmt.Sprintf("%d", opts.MinWorkingAge),
			}
			if age < opts.MinWorkingAge {
				return Outcome{
					Status:   StatusFail,
					Message:  fmt.Sprintf("age %d at employment start is below minimum working age %d", age, opts.MinWorkingAge),
					Evidence: ev,
				}
			}
			return Outcome{Status: StatusPass, Message: "employment tenure is plausible", Evidence: ev}
		},
	}
}

func holderNameMatch(opts Options) Rule {
	return Rule{
		ID:      "holder_name_match",
		Summary: "Bank statement holder name matches the ID holder name",
		DocumentTypes: []documents.Type{
			documents.TypeGovernmentID,
			documents.TypeBankStatement,
		},
		Predicate: func(in Input) Outcome {
			holder, okHolder := valueFor(in, documents.FieldAccountHolderName)
			idName, okName := idHolderName(in)
			if !okHolder {
				return warnMissingField(in, documents.FieldAccountHolderName)
			}
			if !okName {
				return warnMissingField(in, documents.FieldFullName)
			}
			ev := map[string]string{
				string(documents.FieldAccountHolderName): holder,
				string(documents.FieldFullName):          idName,
			}
			overlap := textutil.TokenOverlap(holder, idName)
			ev["token_overlap"] = fmt.Sprintf("%.2f", overlap)
			if overlap >= opts.FuzzyThreshold {
				return Outcome{Status: StatusPass, Message: "holder name matches ID holder", Evidence: ev}
			}
			return Outcome{
				Status:   StatusFail,
				Message:  fmt.Sprintf("holder name does not match ID holder (overlap %.2f)", overlap),
				Evidence: ev,
			}
		},
	}
}

func phoneConsistency() Rule {
	return Rule{
		ID:            "phone_consistency",
		Summary:       "Phone number matches across documents carrying one",
		DocumentTypes: []documents.Type{documents.TypeGovernmentID},
		Predicate: func(in Input) Outcome {
			sources := sourcesFor(in, documents.FieldPhoneNumber)
			if len(sources) == 0 {
				return warnMissingField(in, documents.FieldPhoneNumber)
			}
			if len(sources) < 2 {
				out := warnMissingField(in, documents.FieldPhoneNumber)
				out.Message = "only one document carries a phone number"
				out.Evidence = evidence(sources)
				return out
			}
			values := distinctValues(sources)
			if len(values) == 1 {
				return Outcome{Status: StatusPass, Message: "phone numbers agree", Evidence: evidence(sources)}
			}
			return Outcome{
				Status:   StatusFail,
				Message:  fmt.Sprintf("phone numbers disagree: %s", strings.Join(values, " vs ")),
				Evidence: evidence(sources),
			}
		},
	}
}

func fatherNameConsistency(opts Options) Rule {
	return Rule{
		ID:            "father_name_consistency",
		Summary:       "Father's name matches where more than one document carries it",
		DocumentTypes: []documents.Type{documents.TypeGovernmentID},
		Predicate:     fuzzyConsistency(documents.FieldFatherName, opts.FuzzyThreshold),
	}
}

// fuzzyConsistency builds a predicate requiring every pair of per-document
// values for the field to clear the token-overlap threshold.
func fuzzyConsistency(name documents.FieldName, threshold float64) Predicate {
	return func(in Input) Outcome {
		sources := sourcesFor(in, name)
		if len(sources) == 0 {
			return warnMissingField(in, name)
		}
		if len(sources) < 2 {
			out := warnMissingField(in, name)
			out.Message = fmt.Sprintf("only one document carries %s", name)
			out.Evidence = evidence(sources)
			return out
		}

		ev := evidence(sources)
		worst := 1.0
		for i := 0; i < len(sources); i++ {
			for j := i + 1; j < len(sources); j++ {
				overlap := textutil.TokenOverlap(sources[i].Value, sources[j].Value)
				if overlap < worst {
					worst = overlap
				}
			}
		}
		ev["token_overlap"] = fmt.Sprintf("%.2f", worst)

		if worst >= threshold {
			return Outcome{
				Status:   StatusPass,
				Message:  fmt.Sprintf("%s values agree across documents", name),
				Evidence: ev,
			}
		}
		return Outcome{
			Status:   StatusFail,
			Message:  fmt.Sprintf("%s values disagree (overlap %.2f below %.2f)", name, worst, threshold),
			Evidence: ev,
		}
	}
}

// idHolderName is the full name as seen on the government ID, falling back
// to the authoritative reconciled name.
func idHolderName(in Input) (string, bool) {
	sources := sourcesFor(in, documents.FieldFullName)
	if src, ok := firstFromType(sources, documents.TypeGovernmentID); ok {
		return src.Value, true
	}
	return valueFor(in, documents.FieldFullName)
}

func anyFromType(sources []reconcile.Source, t documents.Type) bool {
	_, ok := firstFromType(sources, t)
	return ok
}

func firstFromType(sources []reconcile.Source, t documents.Type) (reconcile.Source, bool) {
	for _, src := range sources {
		if src.DocumentType == t {
			return src, true
		}
	}
	return reconcile.Source{}, false
}

// yearsBetween computes whole calendar years from dob to reference.
func yearsBetween(dob, reference time.Time) int {
	years := reference.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(reference) {
		years--
	}
	return years
}
