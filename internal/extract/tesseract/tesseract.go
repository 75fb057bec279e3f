// Package tesseract shells out to the tesseract OCR binary for scanned
// document images. The binary path and timeout come from configuration; a
// command runner hook keeps the provider testable without the binary
// installed.
package tesseract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"docverify/internal/documents"
	"docverify/internal/extract"
	"docverify/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

type Provider struct {
	binary  string
	timeout time.Duration
	runner  commandRunner
}

type Option func(*Provider)

// WithCommandRunner replaces the process execution used by the provider.
// Intended for tests.
func WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) Option {
	return func(p *Provider) {
		p.runner = runner
	}
}

func New(binary string, timeout time.Duration, opts ...Option) *Provider {
	if binary == "" {
		binary = "tesseract"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := &Provider{binary: binary, timeout: timeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return "tesseract" }

func (p *Provider) Extract(ctx context.Context, doc documents.Document) (extract.Result, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	output, err := p.run(ctx, p.binary, doc.SourcePath, "stdout")
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return extract.Result{}, services.Wrap(services.ErrTimeout, "extraction", "tesseract", "ocr timed out", err)
		}
		return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "tesseract", "run ocr", err)
	}
	raw := strings.TrimSpace(output)
	if raw == "" {
		return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "tesseract", "ocr produced no text", nil)
	}
	return extract.Result{
		RawText:    raw,
		Candidates: extract.FieldsFromText(raw, "tesseract"),
		Duration:   time.Since(start),
	}, nil
}

func (p *Provider) run(ctx context.Context, name string, args ...string) (string, error) {
	if p.runner != nil {
		return p.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
