// Package deps reports on the external tools the extraction chain relies on.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"docverify/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements derives the external tool set from the configured provider
// chain. Only providers that shell out appear here.
func Requirements(cfg *config.Config) []Requirement {
	var reqs []Requirement
	for _, provider := range cfg.Extraction.Providers {
		switch strings.ToLower(strings.TrimSpace(provider)) {
		case "tesseract":
			binary := strings.TrimSpace(cfg.Extraction.Tesseract.Binary)
			if binary == "" {
				binary = "tesseract"
			}
			reqs = append(reqs, Requirement{
				Name:        "Tesseract",
				Command:     binary,
				Description: "OCR engine for scanned documents",
			})
		}
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
