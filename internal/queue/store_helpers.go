package queue

import (
	"database/sql"
	"errors"
	"time"
)

const personColumns = "id, person_key, source_dir, status, error_message, created_at, updated_at, progress_stage, last_heartbeat"

func scanPerson(scanner interface{ Scan(dest ...any) error }) (*Person, error) {
	var (
		id               int64
		personKey        string
		sourceDir        sql.NullString
		statusStr        string
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		lastHeartbeatRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&personKey,
		&sourceDir,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&lastHeartbeatRaw,
	); err != nil {
		return nil, err
	}

	person := &Person{
		ID:            id,
		PersonKey:     personKey,
		SourceDir:     sourceDir.String,
		Status:        Status(statusStr),
		ErrorMessage:  errorMessage.String,
		ProgressStage: progressStage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		person.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		person.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			person.LastHeartbeat = &heartbeat
		}
	}
	return person, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
