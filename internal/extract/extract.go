// Package extract defines the provider contract the pipeline uses to turn
// raw document bytes into text and field candidates, and the explicit
// ordered fallback chain across providers.
package extract

import (
	"context"
	"log/slog"
	"time"

	"docverify/internal/documents"
	"docverify/internal/logging"
	"docverify/internal/services"
)

// Result is what a provider produces for one document.
type Result struct {
	RawText    string
	Candidates []documents.FieldCandidate
	Duration   time.Duration
}

// Provider extracts text and field candidates from one document. Providers
// are opaque to the core: failures are reported through the services error
// markers and never abort the person pipeline.
type Provider interface {
	Name() string
	Extract(ctx context.Context, doc documents.Document) (Result, error)
}

// Chain tries providers in their configured order and returns the first
// result that yields candidates. It is the whole of the fallback policy:
// no provider branching lives anywhere else.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a fallback chain over the given providers.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

// Extract runs the chain for one document. It returns the first usable
// result; if every provider fails, the last error is returned so the caller
// can mark the document Failed.
func (c *Chain) Extract(ctx context.Context, doc documents.Document) (Result, error) {
	var lastErr error
	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		result, err := provider.Extract(ctx, doc)
		if err != nil {
			lastErr = err
			c.logger.Warn("extraction provider failed",
				logging.String(logging.FieldProvider, provider.Name()),
				logging.String(logging.FieldDocumentID, doc.ID),
				logging.Error(err),
			)
			continue
		}
		if len(result.Candidates) == 0 && result.RawText == "" {
			c.logger.Debug("extraction provider produced nothing",
				logging.String(logging.FieldProvider, provider.Name()),
				logging.String(logging.FieldDocumentID, doc.ID),
			)
			continue
		}
		return result, nil
	}
	if lastErr == nil {
		lastErr = services.Wrap(services.ErrUnavailable, "extract", "chain", "no provider produced output", nil)
	}
	return Result{}, lastErr
}
