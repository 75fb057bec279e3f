package documents

import "strings"

// Type identifies the kind of scanned document a person submitted.
type Type string

const (
	TypeGovernmentID     Type = "government_id"
	TypeBankStatement    Type = "bank_statement"
	TypeEmploymentLetter Type = "employment_letter"
)

var allTypes = []Type{
	TypeGovernmentID,
	TypeBankStatement,
	TypeEmploymentLetter,
}

var typeSet = func() map[Type]struct{} {
	set := make(map[Type]struct{}, len(allTypes))
	for _, t := range allTypes {
		set[t] = struct{}{}
	}
	return set
}()

// AllTypes returns the ordered list of known document types.
func AllTypes() []Type {
	cp := make([]Type, len(allTypes))
	copy(cp, allTypes)
	return cp
}

// ParseType converts a string into a known document Type.
func ParseType(value string) (Type, bool) {
	normalized := Type(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := typeSet[normalized]
	return normalized, ok
}

// Status represents the extraction lifecycle of a single document.
type Status string

const (
	StatusPending   Status = "pending"
	StatusExtracted Status = "extracted"
	StatusFailed    Status = "failed"
)

// Terminal reports whether a document has reached a final extraction state.
func (s Status) Terminal() bool {
	return s == StatusExtracted || s == StatusFailed
}

// ParseStatus converts a string into a known document Status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, true
	case StatusExtracted:
		return StatusExtracted, true
	case StatusFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

// FieldName identifies a logical field extracted from a document.
type FieldName string

const (
	FieldFullName            FieldName = "full_name"
	FieldDateOfBirth         FieldName = "date_of_birth"
	FieldAddress             FieldName = "address"
	FieldPhoneNumber         FieldName = "phone_number"
	FieldEmail               FieldName = "email"
	FieldNationalID          FieldName = "national_id"
	FieldTaxID               FieldName = "tax_id"
	FieldFatherName          FieldName = "father_name"
	FieldEmployeeID          FieldName = "employee_id"
	FieldExpiryDate          FieldName = "expiry_date"
	FieldEmploymentStartDate FieldName = "employment_start_date"
	FieldAccountHolderName   FieldName = "account_holder_name"
)

var allFieldNames = []FieldName{
	FieldFullName,
	FieldDateOfBirth,
	FieldAddress,
	FieldPhoneNumber,
	FieldEmail,
	FieldNationalID,
	FieldTaxID,
	FieldFatherName,
	FieldEmployeeID,
	FieldExpiryDate,
	FieldEmploymentStartDate,
	FieldAccountHolderName,
}

// AllFieldNames returns the ordered list of known field names. The order is
// stable and is used wherever per-field output must be reproducible.
func AllFieldNames() []FieldName {
	cp := make([]FieldName, len(allFieldNames))
	copy(cp, allFieldNames)
	return cp
}

// ParseFieldName converts a string into a known FieldName.
func ParseFieldName(value string) (FieldName, bool) {
	normalized := FieldName(strings.ToLower(strings.TrimSpace(value)))
	for _, name := range allFieldNames {
		if name == normalized {
			return name, true
		}
	}
	return "", false
}

// FieldCandidate is one raw provider-supplied value for a field, before
// normalization. Candidates keep their provider and confidence so
// reconciliation can weigh them.
type FieldCandidate struct {
	Field      FieldName
	RawValue   string
	Provider   string
	Confidence float64
}

// Document is one scanned document owned by a person. It is created at
// ingestion, mutated only by the extraction step, and immutable afterwards.
type Document struct {
	ID           string
	PersonID     string
	Type         Type
	SourcePath   string
	RawText      string
	Candidates   []FieldCandidate
	Status       Status
	ErrorMessage string
	// IngestOrder is the position of the document within its person's set at
	// ingestion time. Reconciliation uses it as the deterministic tie-break.
	IngestOrder int
}

// TypesPresent returns the set of document types present in docs.
func TypesPresent(docs []Document) map[Type]struct{} {
	present := make(map[Type]struct{}, len(docs))
	for _, doc := range docs {
		present[doc.Type] = struct{}{}
	}
	return present
}
