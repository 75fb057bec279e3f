// Package extraction is the workflow stage that turns ingested documents
// into text and field candidates via the configured provider chain.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"docverify/internal/config"
	"docverify/internal/deps"
	"docverify/internal/documents"
	"docverify/internal/extract"
	"docverify/internal/extract/llm"
	"docverify/internal/extract/tesseract"
	"docverify/internal/extract/textfile"
	"docverify/internal/logging"
	"docverify/internal/queue"
	"docverify/internal/services"
	"docverify/internal/stage"
)

// Extractor runs the provider chain over every document attached to a person.
// Provider failures on a single document mark that document failed without
// aborting the rest of the person's documents.
type Extractor struct {
	cfg    *config.Config
	store  *queue.Store
	chain  *extract.Chain
	logger *slog.Logger

	mu sync.Mutex
}

// NewExtractor builds the stage handler with the provider chain taken from
// configuration.
func NewExtractor(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	providers, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		cfg:    cfg,
		store:  store,
		chain:  extract.NewChain(logger.With(logging.String("component", "extract-chain")), providers...),
		logger: logger.With(logging.String("component", "extractor")),
	}, nil
}

// NewExtractorWithChain injects a prebuilt chain (used in tests).
func NewExtractorWithChain(cfg *config.Config, store *queue.Store, logger *slog.Logger, chain *extract.Chain) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{cfg: cfg, store: store, chain: chain, logger: logger}
}

func buildProviders(cfg *config.Config) ([]extract.Provider, error) {
	names := cfg.Extraction.Providers
	if len(names) == 0 {
		names = []string{"textfile"}
	}
	providers := make([]extract.Provider, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "textfile":
			providers = append(providers, textfile.New())
		case "tesseract":
			providers = append(providers, tesseract.New(
				cfg.Extraction.Tesseract.Binary,
				time.Duration(cfg.Extraction.Tesseract.TimeoutSeconds)*time.Second,
			))
		case "llm":
			client := llm.NewClient(llm.Config{
				APIKey:         cfg.Extraction.LLM.APIKey,
				BaseURL:        cfg.Extraction.LLM.BaseURL,
				Model:          cfg.Extraction.LLM.Model,
				TimeoutSeconds: cfg.Extraction.LLM.TimeoutSeconds,
			})
			providers = append(providers, llm.NewProvider(client))
		default:
			return nil, services.Wrap(services.ErrConfiguration, "extraction", "providers",
				fmt.Sprintf("unknown extraction provider %q", name), nil)
		}
	}
	return providers, nil
}

// Prepare initializes progress messaging prior to Execute.
func (e *Extractor) Prepare(ctx context.Context, person *queue.Person) error {
	person.ProgressStage = "Extracting"
	e.logger.Info("starting document extraction",
		logging.String(logging.FieldPersonID, person.PersonKey),
	)
	return nil
}

// Execute extracts every document attached to the person with bounded
// concurrency and persists the per-document results.
func (e *Extractor) Execute(ctx context.Context, person *queue.Person) error {
	rows, err := e.store.DocumentsForPerson(ctx, person.ID)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("person %s has no documents", person.PersonKey)
	}

	limit := e.cfg.Workflow.DocumentConcurrency
	if limit <= 0 {
		limit = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for _, row := range rows {
		row := row
		if row.Status == string(documents.StatusExtracted) {
			continue
		}
		group.Go(func() error {
			return e.extractOne(groupCtx, person, row)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return nil
}

// extractOne runs the chain for a single document. Chain failure marks the
// document failed; only persistence errors propagate.
func (e *Extractor) extractOne(ctx context.Context, person *queue.Person, row *queue.DocumentRow) error {
	doc, err := row.ToDocument(person.PersonKey)
	if err != nil {
		return err
	}
	result, extractErr := e.chain.Extract(ctx, doc)
	if extractErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Warn("document extraction failed",
			logging.String(logging.FieldPersonID, person.PersonKey),
			logging.String(logging.FieldDocumentID, row.ID),
			logging.Error(extractErr),
		)
		row.Status = string(documents.StatusFailed)
		row.ErrorMessage = extractErr.Error()
	} else {
		doc.RawText = result.RawText
		doc.Candidates = result.Candidates
		doc.Status = documents.StatusExtracted

		updated, err := queue.FromDocument(person.ID, doc)
		if err != nil {
			return err
		}
		updated.IngestOrder = row.IngestOrder
		*row = *updated
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.UpdateDocument(ctx, row); err != nil {
		return fmt.Errorf("persist document %s: %w", row.ID, err)
	}
	return nil
}

// HealthCheck reports whether the configured providers are usable.
func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	for _, status := range deps.CheckBinaries(deps.Requirements(e.cfg)) {
		if !status.Available && !status.Optional {
			return stage.Unhealthy("extractor", status.Detail)
		}
	}
	for _, name := range e.cfg.Extraction.Providers {
		if strings.EqualFold(strings.TrimSpace(name), "llm") && strings.TrimSpace(e.cfg.Extraction.LLM.APIKey) == "" {
			return stage.Unhealthy("extractor", "llm provider enabled without api key")
		}
	}
	return stage.Healthy("extractor")
}

var _ stage.Handler = (*Extractor)(nil)
