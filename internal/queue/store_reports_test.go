package queue

import (
	"context"
	"testing"
	"time"
)

func TestSaveAndLatestReport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	person, err := store.NewPerson(ctx, "ravi_kumar", "")
	if err != nil {
		t.Fatalf("NewPerson: %v", err)
	}

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, runID := range []string{"run-1", "run-2"} {
		row := &ReportRow{
			PersonID:      person.ID,
			RunID:         runID,
			OverallStatus: "verified",
			ReportJSON:    `{"run_id":"` + runID + `"}`,
			GeneratedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SaveReport(ctx, row); err != nil {
			t.Fatalf("SaveReport %s: %v", runID, err)
		}
	}

	latest, err := store.LatestReport(ctx, person.ID)
	if err != nil {
		t.Fatalf("LatestReport: %v", err)
	}
	if latest == nil || latest.RunID != "run-2" {
		t.Fatalf("latest = %+v, want run-2", latest)
	}
	if !latest.GeneratedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("generated at = %v", latest.GeneratedAt)
	}

	byRun, err := store.ReportByRun(ctx, person.ID, "run-1")
	if err != nil {
		t.Fatalf("ReportByRun: %v", err)
	}
	if byRun == nil || byRun.RunID != "run-1" {
		t.Fatalf("byRun = %+v", byRun)
	}

	missing, err := store.ReportByRun(ctx, person.ID, "run-9")
	if err != nil {
		t.Fatalf("ReportByRun missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown run, got %+v", missing)
	}
}

func TestLatestReportNoneGenerated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	person, err := store.NewPerson(ctx, "ravi_kumar", "")
	if err != nil {
		t.Fatalf("NewPerson: %v", err)
	}
	latest, err := store.LatestReport(ctx, person.ID)
	if err != nil {
		t.Fatalf("LatestReport: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil, got %+v", latest)
	}
}
