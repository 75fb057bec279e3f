package config

import "strings"

// normalize expands path fields and trims string settings so the rest of
// the system never re-cleans configuration values.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.InboxDir,
		&c.Paths.WorkDir,
		&c.Paths.DataDir,
		&c.Paths.LogDir,
	} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Normalize.HomeCountryCode = strings.TrimSpace(c.Normalize.HomeCountryCode)

	for i, provider := range c.Extraction.Providers {
		c.Extraction.Providers[i] = strings.ToLower(strings.TrimSpace(provider))
	}
	c.Extraction.Tesseract.Binary = strings.TrimSpace(c.Extraction.Tesseract.Binary)
	c.Extraction.LLM.APIKey = strings.TrimSpace(c.Extraction.LLM.APIKey)
	c.Extraction.LLM.BaseURL = strings.TrimSpace(c.Extraction.LLM.BaseURL)
	c.Extraction.LLM.Model = strings.TrimSpace(c.Extraction.LLM.Model)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
