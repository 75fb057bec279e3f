package normalize

import (
	"regexp"
	"strings"

	"docverify/internal/documents"
)

const nationalIDLength = 12

var taxIDRe = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

var nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]`)

// normalizeNationalID validates the 12-digit national identifier, including
// its Verhoeff check digit.
func normalizeNationalID(raw string) (string, error) {
	cleaned := correctConfusions(raw, classNumeric)
	digits := digitsOnly(cleaned)

	if len(digits) != nationalIDLength {
		return "", newError(KindInvalidIdentifierFormat, documents.FieldNationalID, raw, "expected 12 digits")
	}
	if !verhoeffValid(digits) {
		return "", newError(KindChecksumMismatch, documents.FieldNationalID, raw, "check digit does not verify")
	}
	return digits, nil
}

// normalizeTaxID validates the alphanumeric tax identifier
// (five letters, four digits, one letter). The format defines no checksum.
func normalizeTaxID(raw string) (string, error) {
	cleaned := correctConfusions(strings.ToUpper(raw), classAlphanumeric)
	cleaned = nonAlnumRe.ReplaceAllString(cleaned, "")

	if !taxIDRe.MatchString(cleaned) {
		return "", newError(KindInvalidIdentifierFormat, documents.FieldTaxID, raw, "expected AAAAA9999A")
	}
	return cleaned, nil
}

var employeeIDPrefixRe = regexp.MustCompile(`(?i)^(EMP|ID|STAFF|EMPLOYEE)[\s\-_]*`)

var employeeIDKeepRe = regexp.MustCompile(`[^A-Z0-9\-]`)

// normalizeEmployeeID strips common prefixes and separators from an employee
// identifier. IDs this short carry no format guarantee beyond a minimum length.
func normalizeEmployeeID(raw string) (string, error) {
	cleaned := collapseWhitespace(strings.ToUpper(raw))
	cleaned = employeeIDPrefixRe.ReplaceAllString(cleaned, "")
	cleaned = correctConfusions(cleaned, classNumeric)
	cleaned = employeeIDKeepRe.ReplaceAllString(cleaned, "")

	if len(cleaned) < 2 {
		return "", newError(KindInvalidIdentifierFormat, documents.FieldEmployeeID, raw, "too short")
	}
	return cleaned, nil
}

// Verhoeff dihedral-group tables.
var verhoeffD = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

var verhoeffP = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

func verhoeffValid(digits string) bool {
	c := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		c = verhoeffD[c][verhoeffP[i%8][d]]
	}
	return c == 0
}

// VerhoeffCheckDigit computes the check digit for a digit string. Exposed
// for fixture construction in tests and tooling.
func VerhoeffCheckDigit(digits string) int {
	c := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		c = verhoeffD[c][verhoeffP[(i+1)%8][d]]
	}
	inv := [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}
	return inv[c]
}
