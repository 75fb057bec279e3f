package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// InboxDir is watched by the daemon for new person document sets.
	InboxDir string `toml:"inbox_dir"`
	// WorkDir holds unpacked archives and scratch files.
	WorkDir string `toml:"work_dir"`
	// DataDir holds the queue database.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Normalize contains locale and threshold settings for field normalization
// and reconciliation.
type Normalize struct {
	// HomeCountryCode is assumed for phone numbers without a country prefix.
	HomeCountryCode string `toml:"home_country_code"`
	// MinPhoneDigits is the minimum count of significant digits a phone
	// number must retain after cleanup.
	MinPhoneDigits int `toml:"min_phone_digits"`
	// FuzzyMatchThreshold is the token-overlap ratio at or above which two
	// name or address values are treated as agreeing.
	FuzzyMatchThreshold float64 `toml:"fuzzy_match_threshold"`
	// AddressConfidencePenalty scales confidence for lossy address parses.
	AddressConfidencePenalty float64 `toml:"address_confidence_penalty"`
	// MinWorkingAge is the minimum plausible age at employment start.
	MinWorkingAge int `toml:"min_working_age"`
}

// Tesseract contains settings for the OCR binary provider.
type Tesseract struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains connection settings for the LLM extraction provider.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Extraction configures the provider fallback chain.
type Extraction struct {
	// Providers is the explicit ordered fallback chain. Known providers:
	// textfile, tesseract, llm.
	Providers []string `toml:"providers"`
	Tesseract Tesseract `toml:"tesseract"`
	LLM       LLM       `toml:"llm"`
}

// Workflow contains daemon timing and concurrency settings.
type Workflow struct {
	QueuePollInterval int `toml:"queue_poll_interval"`
	// PersonWorkers bounds how many persons are processed concurrently.
	PersonWorkers int `toml:"person_workers"`
	// DocumentConcurrency bounds concurrent extraction calls per person.
	DocumentConcurrency int `toml:"document_concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for docverify.
//
// Configuration sections by subsystem:
//   - Paths: inbox, scratch, database, and log directories
//   - Normalize: locale defaults and match thresholds
//   - Extraction: provider chain, OCR binary, LLM connection
//   - Workflow: polling intervals and worker bounds
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Normalize  Normalize  `toml:"normalize"`
	Extraction Extraction `toml:"extraction"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/docverify/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("docverify.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.InboxDir, c.Paths.WorkDir, c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the queue database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "docverify.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
