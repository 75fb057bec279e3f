package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Normalize.HomeCountryCode != "+91" {
		t.Fatalf("home country code = %q, want +91", cfg.Normalize.HomeCountryCode)
	}
	if cfg.Normalize.FuzzyMatchThreshold != 0.85 {
		t.Fatalf("fuzzy threshold = %v, want 0.85", cfg.Normalize.FuzzyMatchThreshold)
	}
	if len(cfg.Extraction.Providers) == 0 {
		t.Fatal("default provider chain is empty")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
inbox_dir = "` + filepath.Join(dir, "inbox") + `"
data_dir = "` + filepath.Join(dir, "data") + `"

[normalize]
home_country_code = "+44"
fuzzy_match_threshold = 0.7

[extraction]
providers = ["Textfile"]

[workflow]
person_workers = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for written file")
	}
	if cfg.Normalize.HomeCountryCode != "+44" {
		t.Fatalf("home country code = %q, want +44", cfg.Normalize.HomeCountryCode)
	}
	if cfg.Normalize.FuzzyMatchThreshold != 0.7 {
		t.Fatalf("fuzzy threshold = %v", cfg.Normalize.FuzzyMatchThreshold)
	}
	// Provider names are lower-cased during normalization.
	if len(cfg.Extraction.Providers) != 1 || cfg.Extraction.Providers[0] != "textfile" {
		t.Fatalf("providers = %v, want [textfile]", cfg.Extraction.Providers)
	}
	if cfg.Workflow.PersonWorkers != 2 {
		t.Fatalf("person workers = %d, want 2", cfg.Workflow.PersonWorkers)
	}
	// Unset sections keep their defaults.
	if cfg.Workflow.DocumentConcurrency != 3 {
		t.Fatalf("document concurrency = %d, want default 3", cfg.Workflow.DocumentConcurrency)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"bad country code",
			"[normalize]\nhome_country_code = \"91\"\n",
			"home_country_code",
		},
		{
			"threshold out of range",
			"[normalize]\nfuzzy_match_threshold = 1.5\n",
			"fuzzy_match_threshold",
		},
		{
			"unknown provider",
			"[extraction]\nproviders = [\"carrier-pigeon\"]\n",
			"unknown provider",
		},
		{
			"llm without api key",
			"[extraction]\nproviders = [\"llm\"]\n",
			"api_key",
		},
		{
			"zero workers",
			"[workflow]\nperson_workers = -1\n",
			"person_workers",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Load error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after CreateSample")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/var/lib/docverify"
	if got := cfg.DatabasePath(); got != filepath.Join("/var/lib/docverify", "docverify.db") {
		t.Fatalf("DatabasePath = %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.InboxDir = filepath.Join(dir, "inbox")
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = ""

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, sub := range []string{"inbox", "work", "data"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing: %v", sub, err)
		}
	}
}
