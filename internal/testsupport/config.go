package testsupport

import (
	"path/filepath"
	"testing"

	"docverify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InboxDir = filepath.Join(base, "inbox")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Extraction.Providers = []string{"textfile"}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProviders overrides the extraction provider chain on the test config.
func WithProviders(providers ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extraction.Providers = providers
	}
}

// WithFuzzyThreshold overrides the fuzzy match threshold on the test config.
func WithFuzzyThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Normalize.FuzzyMatchThreshold = threshold
	}
}
