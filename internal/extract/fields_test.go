package extract

import (
	"testing"

	"docverify/internal/documents"
)

const sampleIDText = `GOVERNMENT OF INDIA
Name: Ravi Kumar Sharma
Father's Name: Suresh Sharma
DOB: 15/05/1990
Address: 42 MG Road, Indiranagar, Bengaluru, Karnataka 560038
Valid Till: 01/01/2031
2345 6789 0129
`

func candidateMap(candidates []documents.FieldCandidate) map[documents.FieldName]documents.FieldCandidate {
	byField := make(map[documents.FieldName]documents.FieldCandidate, len(candidates))
	for _, cand := range candidates {
		byField[cand.Field] = cand
	}
	return byField
}

func TestFieldsFromTextLabeledLines(t *testing.T) {
	byField := candidateMap(FieldsFromText(sampleIDText, "textfile"))

	want := map[documents.FieldName]string{
		documents.FieldFullName:    "Ravi Kumar Sharma",
		documents.FieldFatherName:  "Suresh Sharma",
		documents.FieldDateOfBirth: "15/05/1990",
		documents.FieldAddress:     "42 MG Road, Indiranagar, Bengaluru, Karnataka 560038",
		documents.FieldExpiryDate:  "01/01/2031",
		documents.FieldNationalID:  "2345 6789 0129",
	}
	for field, value := range want {
		cand, ok := byField[field]
		if !ok {
			t.Fatalf("field %s not extracted", field)
		}
		if cand.RawValue != value {
			t.Fatalf("field %s = %q, want %q", field, cand.RawValue, value)
		}
		if cand.Provider != "textfile" {
			t.Fatalf("field %s provider = %q", field, cand.Provider)
		}
		if cand.Confidence != patternConfidence {
			t.Fatalf("field %s confidence = %v", field, cand.Confidence)
		}
	}
}

func TestFieldsFromTextPatterns(t *testing.T) {
	text := `Account Holder: Ravi Kumar
Contact: ravi.kumar@example.com
Registered Mobile: +91 98765 43210
PAN: ABCPK1234F
`
	byField := candidateMap(FieldsFromText(text, "tesseract"))

	if cand := byField[documents.FieldEmail]; cand.RawValue != "ravi.kumar@example.com" {
		t.Fatalf("email = %q", cand.RawValue)
	}
	if cand := byField[documents.FieldTaxID]; cand.RawValue != "ABCPK1234F" {
		t.Fatalf("tax id = %q", cand.RawValue)
	}
	if cand, ok := byField[documents.FieldPhoneNumber]; !ok || cand.RawValue == "" {
		t.Fatal("phone not extracted")
	}
	if cand := byField[documents.FieldAccountHolderName]; cand.RawValue != "Ravi Kumar" {
		t.Fatalf("account holder = %q", cand.RawValue)
	}
}

func TestFieldsFromTextFirstHitWins(t *testing.T) {
	text := "Name: Ravi Kumar\nName: Someone Else\n"
	byField := candidateMap(FieldsFromText(text, "textfile"))
	if cand := byField[documents.FieldFullName]; cand.RawValue != "Ravi Kumar" {
		t.Fatalf("full name = %q, want first occurrence", cand.RawValue)
	}
}

func TestFieldsFromTextEmpty(t *testing.T) {
	if candidates := FieldsFromText("", "textfile"); len(candidates) != 0 {
		t.Fatalf("candidates = %d, want 0", len(candidates))
	}
}
