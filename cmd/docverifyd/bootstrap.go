package main

import (
	"log/slog"

	"docverify/internal/config"
	"docverify/internal/extraction"
	"docverify/internal/queue"
	"docverify/internal/verification"
	"docverify/internal/workflow"
)

func registerStages(manager *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger) error {
	extractor, err := extraction.NewExtractor(cfg, store, logger)
	if err != nil {
		return err
	}
	verifier, err := verification.NewHandler(cfg, store, logger)
	if err != nil {
		return err
	}
	manager.ConfigureStages(extractor, verifier)
	return nil
}
