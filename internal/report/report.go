// Package report folds rule outcomes into the per-person verification
// report. Reports are immutable once built; reruns produce new reports.
package report

import (
	"strings"
	"time"

	"docverify/internal/documents"
	"docverify/internal/reconcile"
	"docverify/internal/rules"
)

// OverallStatus is the aggregate per-person verdict.
type OverallStatus string

const (
	StatusVerified   OverallStatus = "verified"
	StatusRejected   OverallStatus = "rejected"
	StatusIncomplete OverallStatus = "incomplete"
)

// ParseOverallStatus converts a string into a known OverallStatus.
func ParseOverallStatus(value string) (OverallStatus, bool) {
	switch OverallStatus(strings.ToLower(strings.TrimSpace(value))) {
	case StatusVerified:
		return StatusVerified, true
	case StatusRejected:
		return StatusRejected, true
	case StatusIncomplete:
		return StatusIncomplete, true
	default:
		return "", false
	}
}

// Field is the snapshot of one reconciled field carried in a report.
type Field struct {
	Name       documents.FieldName `json:"name"`
	Value      string              `json:"value"`
	Confidence float64             `json:"confidence"`
	DocumentID string              `json:"document_id"`
	Conflicted bool                `json:"conflicted,omitempty"`
}

// Report is the verification result for one person. Outcomes are ordered by
// rule-definition order regardless of evaluation concurrency.
type Report struct {
	PersonID      string          `json:"person_id"`
	RunID         string          `json:"run_id"`
	Outcomes      []rules.Outcome `json:"outcomes"`
	OverallStatus OverallStatus   `json:"overall_status"`
	Fields        []Field         `json:"extracted_data"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// Aggregate folds an ordered outcome sequence into the overall status. A
// single Fail dominates any amount of incompleteness; Verified additionally
// requires at least one Pass so an empty evaluation never verifies by
// default.
func Aggregate(outcomes []rules.Outcome) OverallStatus {
	passes := 0
	warned := false
	for _, outcome := range outcomes {
		switch outcome.Status {
		case rules.StatusFail:
			return StatusRejected
		case rules.StatusWarn:
			warned = true
		case rules.StatusPass:
			passes++
		}
	}
	if warned || passes == 0 {
		return StatusIncomplete
	}
	return StatusVerified
}

// SnapshotFields renders the reconciled fields in the stable field-name
// order used by every report.
func SnapshotFields(fields map[documents.FieldName]reconcile.Reconciled) []Field {
	out := make([]Field, 0, len(fields))
	for _, name := range documents.AllFieldNames() {
		rec, ok := fields[name]
		if !ok {
			continue
		}
		out = append(out, Field{
			Name:       name,
			Value:      rec.Field.Value,
			Confidence: rec.Field.Confidence,
			DocumentID: rec.Field.DocumentID,
			Conflicted: rec.Conflicted,
		})
	}
	return out
}
