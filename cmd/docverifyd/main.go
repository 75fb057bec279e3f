package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"docverify/internal/config"
	"docverify/internal/daemon"
	"docverify/internal/logging"
	"docverify/internal/queue"
	"docverify/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		log.Fatalf("open queue store: %v", err)
	}

	manager := workflow.NewManager(cfg, store, logger)
	if err := registerStages(manager, cfg, store, logger); err != nil {
		log.Fatalf("configure stages: %v", err)
	}

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	<-ctx.Done()
	logger.Info("docverifyd shutting down")
}
