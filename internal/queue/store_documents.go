package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"docverify/internal/documents"
)

const documentColumns = "id, person_id, doc_type, source_path, status, raw_text, candidates_json, error_message, ingest_order"

// InsertDocument attaches a document to a person.
func (s *Store) InsertDocument(ctx context.Context, row *DocumentRow) error {
	if row == nil {
		return errors.New("document is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.PersonID,
		row.DocType,
		row.SourcePath,
		row.Status,
		nullableString(row.RawText),
		nullableString(row.CandidatesJSON),
		nullableString(row.ErrorMessage),
		row.IngestOrder,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// UpdateDocument persists extraction results for a document.
func (s *Store) UpdateDocument(ctx context.Context, row *DocumentRow) error {
	if row == nil {
		return errors.New("document is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE documents
         SET status = ?, raw_text = ?, candidates_json = ?, error_message = ?
         WHERE id = ?`,
		row.Status,
		nullableString(row.RawText),
		nullableString(row.CandidatesJSON),
		nullableString(row.ErrorMessage),
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// DocumentsForPerson returns a person's documents in ingest order.
func (s *Store) DocumentsForPerson(ctx context.Context, personID int64) ([]*DocumentRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+documentColumns+` FROM documents WHERE person_id = ? ORDER BY ingest_order`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var result []*DocumentRow
	for rows.Next() {
		row, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanDocument(scanner interface{ Scan(dest ...any) error }) (*DocumentRow, error) {
	var (
		row          DocumentRow
		rawText      sql.NullString
		candidates   sql.NullString
		errorMessage sql.NullString
	)
	if err := scanner.Scan(
		&row.ID,
		&row.PersonID,
		&row.DocType,
		&row.SourcePath,
		&row.Status,
		&rawText,
		&candidates,
		&errorMessage,
		&row.IngestOrder,
	); err != nil {
		return nil, err
	}
	row.RawText = rawText.String
	row.CandidatesJSON = candidates.String
	row.ErrorMessage = errorMessage.String
	return &row, nil
}

// ToDocument converts a persisted row into the in-memory document model.
func (r *DocumentRow) ToDocument(personKey string) (documents.Document, error) {
	doc := documents.Document{
		ID:           r.ID,
		PersonID:     personKey,
		Type:         documents.Type(r.DocType),
		SourcePath:   r.SourcePath,
		RawText:      r.RawText,
		Status:       documents.Status(r.Status),
		ErrorMessage: r.ErrorMessage,
		IngestOrder:  r.IngestOrder,
	}
	if r.CandidatesJSON != "" {
		if err := json.Unmarshal([]byte(r.CandidatesJSON), &doc.Candidates); err != nil {
			return doc, fmt.Errorf("decode candidates for %s: %w", r.ID, err)
		}
	}
	return doc, nil
}

// FromDocument converts the in-memory model into its persisted form.
func FromDocument(personID int64, doc documents.Document) (*DocumentRow, error) {
	row := &DocumentRow{
		ID:           doc.ID,
		PersonID:     personID,
		DocType:      string(doc.Type),
		SourcePath:   doc.SourcePath,
		Status:       string(doc.Status),
		RawText:      doc.RawText,
		ErrorMessage: doc.ErrorMessage,
		IngestOrder:  doc.IngestOrder,
	}
	if len(doc.Candidates) > 0 {
		encoded, err := json.Marshal(doc.Candidates)
		if err != nil {
			return nil, fmt.Errorf("encode candidates for %s: %w", doc.ID, err)
		}
		row.CandidatesJSON = string(encoded)
	}
	return row, nil
}
