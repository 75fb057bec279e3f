package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docverify/internal/documents"
	"docverify/internal/extract"
	"docverify/internal/services"
)

// Confidence stamped on model-extracted candidates. The model sees the whole
// document at once, so its output ranks above pattern mining but below a
// human-verified value.
const llmConfidence = 0.9

const extractionSystemPrompt = `You extract identity fields from scanned document text.
Respond with a single JSON object. Keys are field names; values are objects
with "value" (the extracted value, or null if absent) and "raw_context" (the
source line the value came from). Use exactly these keys:
full_name, father_name, date_of_birth, address, phone_number, email_address,
national_id_number, tax_id_number, employee_id, account_number,
account_holder_name, expiry_date, employment_start_date.
Do not invent values. Copy values verbatim from the text, including OCR noise.`

// fieldKeys maps the JSON contract keys to internal field names.
var fieldKeys = map[string]documents.FieldName{
	"full_name":             documents.FieldFullName,
	"father_name":           documents.FieldFatherName,
	"date_of_birth":         documents.FieldDateOfBirth,
	"address":               documents.FieldAddress,
	"phone_number":          documents.FieldPhoneNumber,
	"email_address":         documents.FieldEmail,
	"national_id_number":    documents.FieldNationalID,
	"tax_id_number":         documents.FieldTaxID,
	"employee_id":           documents.FieldEmployeeID,
	"account_holder_name":   documents.FieldAccountHolderName,
	"expiry_date":           documents.FieldExpiryDate,
	"employment_start_date": documents.FieldEmploymentStartDate,
}

type extractedField struct {
	Value      *string `json:"value"`
	RawContext string  `json:"raw_context"`
}

// Provider sends document text to the model and returns the structured
// fields it reports. It needs text to work with, so it only fires for
// documents that carry a plain-text source.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string { return "llm" }

func (p *Provider) Extract(ctx context.Context, doc documents.Document) (extract.Result, error) {
	start := time.Now()
	raw := doc.RawText
	if raw == "" {
		var err error
		raw, err = readTextSource(doc.SourcePath)
		if err != nil {
			return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "llm", "no text source", err)
		}
	}

	content, err := p.client.CompleteJSON(ctx, extractionSystemPrompt, raw)
	if err != nil {
		return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "llm", "complete", err)
	}

	var parsed map[string]extractedField
	if err := DecodeJSON(content, &parsed); err != nil {
		return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "llm", "parse payload", err)
	}

	var candidates []documents.FieldCandidate
	for _, name := range documents.AllFieldNames() {
		for key, field := range fieldKeys {
			if field != name {
				continue
			}
			entry, ok := parsed[key]
			if !ok || entry.Value == nil {
				continue
			}
			value := strings.TrimSpace(*entry.Value)
			if value == "" || strings.EqualFold(value, "null") {
				continue
			}
			candidates = append(candidates, documents.FieldCandidate{
				Field:      field,
				RawValue:   value,
				Provider:   "llm",
				Confidence: llmConfidence,
			})
		}
	}

	return extract.Result{
		RawText:    raw,
		Candidates: candidates,
		Duration:   time.Since(start),
	}, nil
}

func readTextSource(sourcePath string) (string, error) {
	path := sourcePath
	if !strings.EqualFold(filepath.Ext(sourcePath), ".txt") {
		path = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".txt"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}
