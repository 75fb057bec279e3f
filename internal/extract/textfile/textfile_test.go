package textfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"docverify/internal/documents"
	"docverify/internal/services"
	"docverify/internal/testsupport"
)

func TestExtractReadsTxtDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "government_id.txt")
	testsupport.WriteTextFile(t, path, "Name: Ravi Kumar\nDOB: 15/05/1990\n")

	result, err := New().Extract(context.Background(), documents.Document{ID: "d1", SourcePath: path})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.RawText == "" {
		t.Fatal("raw text empty")
	}

	var foundName bool
	for _, cand := range result.Candidates {
		if cand.Field == documents.FieldFullName && cand.RawValue == "Ravi Kumar" {
			foundName = true
		}
		if cand.Provider != "textfile" {
			t.Fatalf("provider = %q", cand.Provider)
		}
	}
	if !foundName {
		t.Fatalf("full name not extracted: %+v", result.Candidates)
	}
}

func TestExtractReadsSidecar(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "government_id.png")
	testsupport.WriteTextFile(t, image, "not really an image")
	testsupport.WriteTextFile(t, filepath.Join(dir, "government_id.txt"), "Name: Ravi Kumar\n")

	result, err := New().Extract(context.Background(), documents.Document{ID: "d1", SourcePath: image})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.RawText != "Name: Ravi Kumar\n" {
		t.Fatalf("raw text = %q", result.RawText)
	}
}

func TestExtractNoTextSource(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "government_id.png")
	testsupport.WriteTextFile(t, image, "binary")

	_, err := New().Extract(context.Background(), documents.Document{ID: "d1", SourcePath: image})
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Extract(ctx, documents.Document{ID: "d1", SourcePath: "x.txt"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
