package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveReport persists a completed verification report.
func (s *Store) SaveReport(ctx context.Context, row *ReportRow) error {
	if row == nil {
		return errors.New("report is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO reports (person_id, run_id, overall_status, report_json, generated_at)
         VALUES (?, ?, ?, ?, ?)`,
		row.PersonID,
		row.RunID,
		row.OverallStatus,
		row.ReportJSON,
		row.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// LatestReport returns the most recent report for a person, or nil when none
// has been generated.
func (s *Store) LatestReport(ctx context.Context, personID int64) (*ReportRow, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT person_id, run_id, overall_status, report_json, generated_at
         FROM reports WHERE person_id = ? ORDER BY generated_at DESC LIMIT 1`,
		personID,
	)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest report: %w", err)
	}
	return report, nil
}

// ReportByRun returns the report for a specific run.
func (s *Store) ReportByRun(ctx context.Context, personID int64, runID string) (*ReportRow, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT person_id, run_id, overall_status, report_json, generated_at
         FROM reports WHERE person_id = ? AND run_id = ?`,
		personID, runID,
	)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report by run: %w", err)
	}
	return report, nil
}

func scanReport(scanner interface{ Scan(dest ...any) error }) (*ReportRow, error) {
	var (
		row          ReportRow
		generatedRaw string
	)
	if err := scanner.Scan(&row.PersonID, &row.RunID, &row.OverallStatus, &row.ReportJSON, &generatedRaw); err != nil {
		return nil, err
	}
	if generated, err := parseTimeString(generatedRaw); err == nil {
		row.GeneratedAt = generated
	}
	return &row, nil
}
