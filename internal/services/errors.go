// Package services provides the shared error taxonomy for external
// extraction providers and pipeline stages.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable marks a provider that could not be reached or started.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrTimeout marks a provider call that exceeded its deadline.
	ErrTimeout = errors.New("provider timeout")
	// ErrValidation marks malformed input detected before any external call.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks a misconfigured provider or catalogue. Fatal at
	// startup, never tolerated at runtime.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks failures worth retrying on a later run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsProviderFailure reports whether the error is an external-provider
// failure (unavailable or timed out) that marks one document Failed while
// the person pipeline continues.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
