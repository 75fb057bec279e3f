// Package verification is the workflow stage that reconciles a person's
// extracted fields, evaluates the rule catalogue, and persists the final
// report.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"docverify/internal/config"
	"docverify/internal/documents"
	"docverify/internal/logging"
	"docverify/internal/normalize"
	"docverify/internal/queue"
	"docverify/internal/rules"
	"docverify/internal/stage"
	"docverify/internal/verify"
)

// Handler is the verification stage. It is stateless between persons; each
// Execute builds the person's documents from the store and runs one
// verification pass.
type Handler struct {
	cfg      *config.Config
	store    *queue.Store
	verifier *verify.Verifier
	logger   *slog.Logger
}

// NewHandler builds the stage with the default rule catalogue configured
// from the normalize section.
func NewHandler(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	catalogue, err := rules.Default(rules.Options{
		FuzzyThreshold: cfg.Normalize.FuzzyMatchThreshold,
		MinWorkingAge:  cfg.Normalize.MinWorkingAge,
	})
	if err != nil {
		return nil, fmt.Errorf("build rule catalogue: %w", err)
	}
	verifier, err := verify.New(catalogue, verify.Options{
		Normalize: normalize.Options{
			HomeCountryCode:          cfg.Normalize.HomeCountryCode,
			MinPhoneDigits:           cfg.Normalize.MinPhoneDigits,
			AddressConfidencePenalty: cfg.Normalize.AddressConfidencePenalty,
		},
		FuzzyThreshold: cfg.Normalize.FuzzyMatchThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("build verifier: %w", err)
	}
	return &Handler{
		cfg:      cfg,
		store:    store,
		verifier: verifier,
		logger:   logger.With(logging.String("component", "verification")),
	}, nil
}

// NewHandlerWithVerifier injects a prebuilt verifier (used in tests).
func NewHandlerWithVerifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, verifier *verify.Verifier) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{cfg: cfg, store: store, verifier: verifier, logger: logger}
}

// Prepare initializes progress messaging prior to Execute.
func (h *Handler) Prepare(ctx context.Context, person *queue.Person) error {
	person.ProgressStage = "Verifying"
	return nil
}

// Execute runs one verification pass and persists the report.
func (h *Handler) Execute(ctx context.Context, person *queue.Person) error {
	rows, err := h.store.DocumentsForPerson(ctx, person.ID)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	docs := make([]documents.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.ToDocument(person.PersonKey)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	rep, err := h.verifier.VerifyPerson(ctx, person.PersonKey, docs)
	if err != nil {
		return fmt.Errorf("verify person %s: %w", person.PersonKey, err)
	}

	encoded, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := h.store.SaveReport(ctx, &queue.ReportRow{
		PersonID:      person.ID,
		RunID:         rep.RunID,
		OverallStatus: string(rep.OverallStatus),
		ReportJSON:    string(encoded),
		GeneratedAt:   rep.GeneratedAt,
	}); err != nil {
		return err
	}

	h.logger.Info("verification completed",
		logging.String(logging.FieldPersonID, person.PersonKey),
		logging.String(logging.FieldStatus, string(rep.OverallStatus)),
		logging.String("run_id", rep.RunID),
	)
	return nil
}

// HealthCheck reports stage readiness. Verification has no external
// dependencies.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if h.verifier == nil {
		return stage.Unhealthy("verification", "verifier not configured")
	}
	return stage.Healthy("verification")
}

var _ stage.Handler = (*Handler)(nil)
