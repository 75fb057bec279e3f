// Package textfile reads document text from plain-text sources: either the
// document itself when it is a .txt file, or a sidecar .txt next to a scanned
// image. It is the cheapest provider and always runs first in the default
// chain.
package textfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docverify/internal/documents"
	"docverify/internal/extract"
	"docverify/internal/services"
)

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "textfile" }

func (p *Provider) Extract(ctx context.Context, doc documents.Document) (extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return extract.Result{}, err
	}
	path, ok := textPath(doc.SourcePath)
	if !ok {
		return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "textfile", fmt.Sprintf("no text source for %s", filepath.Base(doc.SourcePath)), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Result{}, services.Wrap(services.ErrUnavailable, "extraction", "textfile", "read text source", err)
	}
	raw := string(data)
	return extract.Result{
		RawText:    raw,
		Candidates: extract.FieldsFromText(raw, "textfile"),
	}, nil
}

// textPath resolves the readable text source for a document. A .txt document
// is its own source; anything else may carry a sidecar with the same base
// name and a .txt extension.
func textPath(sourcePath string) (string, bool) {
	if strings.EqualFold(filepath.Ext(sourcePath), ".txt") {
		return sourcePath, true
	}
	sidecar := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".txt"
	if _, err := os.Stat(sidecar); err == nil {
		return sidecar, true
	}
	return "", false
}
