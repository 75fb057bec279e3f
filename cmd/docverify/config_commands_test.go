package main

import (
	"os"
	"path/filepath"
	"testing"

	"docverify/internal/config"
)

func TestConfigValidateReportsPaths(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration OK")
	requireContains(t, out, env.cfg.Paths.InboxDir)
	requireContains(t, out, "textfile")
}

func TestConfigValidateRejectsBrokenConfig(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := "[normalize]\nfuzzy_match_threshold = 3.5\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "fuzzy_match_threshold")
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, target)

	cfg, resolved, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist on disk")
	}
	if resolved != target {
		t.Fatalf("resolved path = %q, want %q", resolved, target)
	}
	if len(cfg.Extraction.Providers) == 0 {
		t.Fatal("sample config should configure extraction providers")
	}
}

func TestConfigInitRefusesExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# hand edited\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	_, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected existing-file error")
	}
	requireContains(t, err.Error(), "already exists")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "# hand edited\n" {
		t.Fatalf("existing config was overwritten: %q", data)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("load overwritten sample: %v", err)
	}
}
