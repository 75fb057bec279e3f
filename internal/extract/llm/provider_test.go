package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"docverify/internal/documents"
	"docverify/internal/testsupport"
)

const fieldsPayload = `{
  "full_name": {"value": "Ravi Kumar Sharma", "raw_context": "Name: Ravi Kumar Sharma"},
  "date_of_birth": {"value": "15/05/1990", "raw_context": "DOB: 15/05/1990"},
  "email_address": {"value": "ravi@example.com", "raw_context": "Email: ravi@example.com"},
  "father_name": {"value": null, "raw_context": ""},
  "tax_id_number": {"value": "  ", "raw_context": ""}
}`

func newTestProvider(t *testing.T, payload string) *Provider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(payload))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"})
	return NewProvider(client)
}

func TestProviderExtractFromRawText(t *testing.T) {
	provider := newTestProvider(t, fieldsPayload)

	result, err := provider.Extract(context.Background(), documents.Document{
		ID:      "d1",
		RawText: "Name: Ravi Kumar Sharma\nDOB: 15/05/1990\n",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	wantOrder := []documents.FieldName{
		documents.FieldFullName,
		documents.FieldDateOfBirth,
		documents.FieldEmail,
	}
	if len(result.Candidates) != len(wantOrder) {
		t.Fatalf("candidates = %+v, want %d fields", result.Candidates, len(wantOrder))
	}
	for i, name := range wantOrder {
		cand := result.Candidates[i]
		if cand.Field != name {
			t.Fatalf("candidate[%d] = %s, want %s", i, cand.Field, name)
		}
		if cand.Provider != "llm" {
			t.Fatalf("provider = %q", cand.Provider)
		}
		if cand.Confidence != llmConfidence {
			t.Fatalf("confidence = %v", cand.Confidence)
		}
	}
}

func TestProviderReadsSidecarWhenNoRawText(t *testing.T) {
	provider := newTestProvider(t, fieldsPayload)

	dir := t.TempDir()
	image := filepath.Join(dir, "government_id.png")
	testsupport.WriteTextFile(t, image, "binary")
	testsupport.WriteTextFile(t, filepath.Join(dir, "government_id.txt"), "Name: Ravi Kumar Sharma\n")

	result, err := provider.Extract(context.Background(), documents.Document{ID: "d1", SourcePath: image})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.RawText != "Name: Ravi Kumar Sharma\n" {
		t.Fatalf("raw text = %q", result.RawText)
	}
}

func TestProviderNoTextSource(t *testing.T) {
	provider := newTestProvider(t, fieldsPayload)

	dir := t.TempDir()
	image := filepath.Join(dir, "government_id.png")
	testsupport.WriteTextFile(t, image, "binary")

	if _, err := provider.Extract(context.Background(), documents.Document{ID: "d1", SourcePath: image}); err == nil {
		t.Fatal("expected error without a text source")
	}
}

func TestProviderRejectsMalformedPayload(t *testing.T) {
	provider := newTestProvider(t, `["not","an","object"]`)

	_, err := provider.Extract(context.Background(), documents.Document{ID: "d1", RawText: "text"})
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
