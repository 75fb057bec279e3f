package tesseract

import (
	"context"
	"errors"
	"testing"
	"time"

	"docverify/internal/documents"
	"docverify/internal/services"
)

func TestExtractParsesRunnerOutput(t *testing.T) {
	var gotName string
	var gotArgs []string
	provider := New("tesseract", time.Second, WithCommandRunner(
		func(ctx context.Context, name string, args ...string) (string, error) {
			gotName = name
			gotArgs = args
			return "Name: Ravi Kumar\nDOB: 15/05/1990\n", nil
		},
	))

	result, err := provider.Extract(context.Background(), documents.Document{
		ID:         "d1",
		SourcePath: "/inbox/ravi/government_id.png",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if gotName != "tesseract" {
		t.Fatalf("binary = %q", gotName)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "/inbox/ravi/government_id.png" || gotArgs[1] != "stdout" {
		t.Fatalf("args = %v", gotArgs)
	}
	if len(result.Candidates) == 0 {
		t.Fatal("no candidates mined from ocr output")
	}
	for _, cand := range result.Candidates {
		if cand.Provider != "tesseract" {
			t.Fatalf("provider = %q", cand.Provider)
		}
	}
}

func TestExtractRunnerFailure(t *testing.T) {
	provider := New("tesseract", time.Second, WithCommandRunner(
		func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("exec: not found")
		},
	))
	_, err := provider.Extract(context.Background(), documents.Document{ID: "d1", SourcePath: "x.png"})
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractTimeout(t *testing.T) {
	provider := New("tesseract", 10*time.Millisecond, WithCommandRunner(
		func(ctx context.Context, name string, args ...string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	))
	_, err := provider.Extract(context.Background(), documents.Document{ID: "d1", SourcePath: "x.png"})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestExtractEmptyOutput(t *testing.T) {
	provider := New("tesseract", time.Second, WithCommandRunner(
		func(ctx context.Context, name string, args ...string) (string, error) {
			return "   \n", nil
		},
	))
	_, err := provider.Extract(context.Background(), documents.Document{ID: "d1", SourcePath: "x.png"})
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestNewDefaults(t *testing.T) {
	provider := New("", 0)
	if provider.binary != "tesseract" {
		t.Fatalf("binary = %q", provider.binary)
	}
	if provider.timeout != 30*time.Second {
		t.Fatalf("timeout = %v", provider.timeout)
	}
}
