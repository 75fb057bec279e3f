package extract

import (
	"regexp"
	"strings"

	"docverify/internal/documents"
)

// Confidence assigned to candidates mined from raw text by pattern
// matching; provider-supplied field maps carry their own scores.
const patternConfidence = 0.6

var (
	nationalIDPattern = regexp.MustCompile(`\b[0-9]{4}\s?[0-9]{4}\s?[0-9]{4}\b`)
	taxIDPattern      = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phonePattern      = regexp.MustCompile(`(?:\+91[\s\-]?)?[6-9][0-9]{4}[\s\-]?[0-9]{5}\b`)
)

// labeledFields maps line labels seen on the supported document kinds to
// field names. Matching is case-insensitive on the label portion.
var labeledFields = []struct {
	label *regexp.Regexp
	field documents.FieldName
}{
	{regexp.MustCompile(`(?i)^\s*(?:full\s+)?name\s*[:\-]\s*(.+)$`), documents.FieldFullName},
	{regexp.MustCompile(`(?i)^\s*(?:father(?:'s)?\s+name|s/o)\s*[:\-]\s*(.+)$`), documents.FieldFatherName},
	{regexp.MustCompile(`(?i)^\s*(?:date\s+of\s+birth|dob|birth\s+date)\s*[:\-]\s*(.+)$`), documents.FieldDateOfBirth},
	{regexp.MustCompile(`(?i)^\s*address\s*[:\-]\s*(.+)$`), documents.FieldAddress},
	{regexp.MustCompile(`(?i)^\s*(?:expiry|valid\s+(?:till|until|upto))\s*(?:date)?\s*[:\-]\s*(.+)$`), documents.FieldExpiryDate},
	{regexp.MustCompile(`(?i)^\s*(?:employee\s+id|emp\.?\s*id)\s*[:\-]\s*(.+)$`), documents.FieldEmployeeID},
	{regexp.MustCompile(`(?i)^\s*(?:date\s+of\s+joining|joining\s+date|start\s+date)\s*[:\-]\s*(.+)$`), documents.FieldEmploymentStartDate},
	{regexp.MustCompile(`(?i)^\s*(?:account\s+holder|holder\s+name)\s*[:\-]\s*(.+)$`), documents.FieldAccountHolderName},
}

// FieldsFromText mines field candidates out of raw OCR text using labeled
// lines and well-known identifier patterns. The provider name is stamped on
// every candidate for reconciliation evidence.
func FieldsFromText(rawText, provider string) []documents.FieldCandidate {
	var candidates []documents.FieldCandidate
	seen := make(map[documents.FieldName]struct{})

	add := func(field documents.FieldName, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		// First hit per field wins; later lines tend to be boilerplate.
		if _, dup := seen[field]; dup {
			return
		}
		seen[field] = struct{}{}
		candidates = append(candidates, documents.FieldCandidate{
			Field:      field,
			RawValue:   value,
			Provider:   provider,
			Confidence: patternConfidence,
		})
	}

	for _, line := range strings.Split(rawText, "\n") {
		for _, lf := range labeledFields {
			if match := lf.label.FindStringSubmatch(line); match != nil {
				add(lf.field, match[1])
			}
		}
	}

	if match := nationalIDPattern.FindString(rawText); match != "" {
		add(documents.FieldNationalID, match)
	}
	if match := taxIDPattern.FindString(rawText); match != "" {
		add(documents.FieldTaxID, match)
	}
	if match := emailPattern.FindString(rawText); match != "" {
		add(documents.FieldEmail, match)
	}
	if match := phonePattern.FindString(rawText); match != "" {
		add(documents.FieldPhoneNumber, match)
	}

	return candidates
}
