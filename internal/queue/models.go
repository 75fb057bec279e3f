package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a person in the verification queue.
type Status string

const (
	StatusPending    Status = "pending"
	StatusExtracting Status = "extracting"
	StatusExtracted  Status = "extracted"
	StatusVerifying  Status = "verifying"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DaemonStopReason is the error message set when persons are failed due to
// daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusExtracted,
	StatusVerifying,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtracting: {},
	StatusVerifying:  {},
}

// Person represents one person's verification run persisted in SQLite.
type Person struct {
	ID            int64
	PersonKey     string
	SourceDir     string
	Status        Status
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ProgressStage string
	LastHeartbeat *time.Time
}

// DocumentRow is the persisted form of an ingested document.
type DocumentRow struct {
	ID             string
	PersonID       int64
	DocType        string
	SourcePath     string
	Status         string
	RawText        string
	CandidatesJSON string
	ErrorMessage   string
	IngestOrder    int
}

// ReportRow is a completed verification report.
type ReportRow struct {
	PersonID      int64
	RunID         string
	OverallStatus string
	ReportJSON    string
	GeneratedAt   time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (p Person) IsProcessing() bool {
	_, ok := processingStatuses[p.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// SetFailed marks the person as failed with the given error message.
func (p *Person) SetFailed(message string) {
	p.Status = StatusFailed
	p.ErrorMessage = message
	p.LastHeartbeat = nil
	p.ProgressStage = "Failed"
}
