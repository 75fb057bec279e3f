package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownProviders = map[string]struct{}{
	"textfile":  {},
	"tesseract": {},
	"llm":       {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateNormalize(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNormalize() error {
	if !strings.HasPrefix(c.Normalize.HomeCountryCode, "+") {
		return errors.New("normalize.home_country_code must start with '+'")
	}
	if c.Normalize.MinPhoneDigits <= 0 {
		return errors.New("normalize.min_phone_digits must be positive")
	}
	if c.Normalize.FuzzyMatchThreshold <= 0 || c.Normalize.FuzzyMatchThreshold > 1 {
		return errors.New("normalize.fuzzy_match_threshold must be in (0, 1]")
	}
	if c.Normalize.AddressConfidencePenalty <= 0 || c.Normalize.AddressConfidencePenalty > 1 {
		return errors.New("normalize.address_confidence_penalty must be in (0, 1]")
	}
	if c.Normalize.MinWorkingAge <= 0 {
		return errors.New("normalize.min_working_age must be positive")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if len(c.Extraction.Providers) == 0 {
		return errors.New("extraction.providers must list at least one provider")
	}
	for _, name := range c.Extraction.Providers {
		if _, ok := knownProviders[name]; !ok {
			return fmt.Errorf("extraction.providers: unknown provider %q", name)
		}
		if name == "llm" && strings.TrimSpace(c.Extraction.LLM.APIKey) == "" {
			return errors.New("extraction.llm.api_key must be set when the llm provider is enabled")
		}
	}
	if c.Extraction.Tesseract.TimeoutSeconds <= 0 {
		return errors.New("extraction.tesseract.timeout_seconds must be positive")
	}
	if c.Extraction.LLM.TimeoutSeconds <= 0 {
		return errors.New("extraction.llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.PersonWorkers <= 0 {
		return errors.New("workflow.person_workers must be positive")
	}
	if c.Workflow.DocumentConcurrency <= 0 {
		return errors.New("workflow.document_concurrency must be positive")
	}
	return nil
}
