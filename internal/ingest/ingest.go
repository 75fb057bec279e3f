// Package ingest discovers submitted document bundles and enqueues them for
// verification. A bundle is either a folder of files or a zip archive; in
// both forms files are grouped by person and classified by the document-type
// suffix in the filename (for example ravi_kumar_government_id.txt).
package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"docverify/internal/documents"
	"docverify/internal/logging"
	"docverify/internal/queue"
)

// Ingestor enqueues persons from filesystem bundles.
type Ingestor struct {
	store   *queue.Store
	workDir string
	logger  *slog.Logger
}

// Summary reports what an ingest run enqueued.
type Summary struct {
	Persons   int
	Documents int
	Skipped   []string
}

func New(store *queue.Store, workDir string, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ingestor{
		store:   store,
		workDir: workDir,
		logger:  logger.With(logging.String("component", "ingest")),
	}
}

// IngestPath enqueues a bundle from a zip archive, a directory of person
// subdirectories, or a flat directory of suffixed files.
func (i *Ingestor) IngestPath(ctx context.Context, path string) (Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, fmt.Errorf("stat bundle: %w", err)
	}
	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(path), ".zip") {
			return i.ingestZip(ctx, path)
		}
		return Summary{}, fmt.Errorf("unsupported bundle %s: not a directory or zip archive", filepath.Base(path))
	}
	return i.ingestDir(ctx, path)
}

// ingestDir walks one directory level. Subdirectories become persons keyed
// by directory name; loose files are grouped by the person prefix before the
// document-type suffix.
func (i *Ingestor) ingestDir(ctx context.Context, root string) (Summary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Summary{}, fmt.Errorf("read bundle dir: %w", err)
	}

	var summary Summary
	grouped := make(map[string][]string)
	var keys []string

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(root, name)
		if entry.IsDir() {
			files, err := personDirFiles(full)
			if err != nil {
				return summary, err
			}
			if len(files) == 0 {
				summary.Skipped = append(summary.Skipped, name)
				continue
			}
			if _, seen := grouped[name]; !seen {
				keys = append(keys, name)
			}
			grouped[name] = append(grouped[name], files...)
			continue
		}
		person, _, ok := classifyFilename(name)
		if !ok {
			summary.Skipped = append(summary.Skipped, name)
			continue
		}
		if _, seen := grouped[person]; !seen {
			keys = append(keys, person)
		}
		grouped[person] = append(grouped[person], full)
	}

	sort.Strings(keys)
	for _, personKey := range keys {
		added, err := i.enqueuePerson(ctx, personKey, root, grouped[personKey])
		if err != nil {
			return summary, err
		}
		if added > 0 {
			summary.Persons++
			summary.Documents += added
		}
	}
	return summary, nil
}

func personDirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read person dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// enqueuePerson inserts the person and their classified documents. Files
// without a recognizable document-type suffix are ignored.
func (i *Ingestor) enqueuePerson(ctx context.Context, personKey, sourceDir string, files []string) (int, error) {
	existing, err := i.store.GetByKey(ctx, personKey)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		i.logger.Info("person already enqueued, skipping",
			logging.String(logging.FieldPersonID, personKey),
		)
		return 0, nil
	}

	classified := make([]*queue.DocumentRow, 0, len(files))
	sort.Strings(files)
	for _, file := range dedupeSidecars(files) {
		_, docType, ok := classifyFilename(filepath.Base(file))
		if !ok {
			continue
		}
		classified = append(classified, &queue.DocumentRow{
			ID:          uuid.NewString(),
			DocType:     string(docType),
			SourcePath:  file,
			Status:      string(documents.StatusPending),
			IngestOrder: len(classified),
		})
	}
	if len(classified) == 0 {
		return 0, nil
	}

	person, err := i.store.NewPerson(ctx, personKey, sourceDir)
	if err != nil {
		return 0, err
	}
	for _, row := range classified {
		row.PersonID = person.ID
		if err := i.store.InsertDocument(ctx, row); err != nil {
			return 0, err
		}
	}
	i.logger.Info("person enqueued",
		logging.String(logging.FieldPersonID, personKey),
		logging.Int("documents", len(classified)),
	)
	return len(classified), nil
}

// dedupeSidecars drops a .txt file when a scan with the same stem exists
// alongside it; the text then rides along as the scan's sidecar instead of
// becoming a second document.
func dedupeSidecars(files []string) []string {
	stems := make(map[string]struct{}, len(files))
	for _, file := range files {
		if !strings.EqualFold(filepath.Ext(file), ".txt") {
			stems[strings.TrimSuffix(file, filepath.Ext(file))] = struct{}{}
		}
	}
	kept := files[:0:0]
	for _, file := range files {
		if strings.EqualFold(filepath.Ext(file), ".txt") {
			if _, scan := stems[strings.TrimSuffix(file, filepath.Ext(file))]; scan {
				continue
			}
		}
		kept = append(kept, file)
	}
	return kept
}

// ingestZip extracts the archive into the work directory and ingests the
// extracted tree.
func (i *Ingestor) ingestZip(ctx context.Context, archivePath string) (Summary, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return Summary{}, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	dest := filepath.Join(i.workDir, "ingest", base)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create extraction dir: %w", err)
	}

	for _, file := range reader.File {
		if err := extractZipEntry(file, dest); err != nil {
			return Summary{}, err
		}
	}
	return i.ingestDir(ctx, dest)
}

func extractZipEntry(file *zip.File, dest string) error {
	cleaned := filepath.Clean(file.Name)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("archive entry %q escapes extraction dir", file.Name)
	}
	target := filepath.Join(dest, cleaned)

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create entry dir: %w", err)
	}
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %q: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create extracted file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %q: %w", file.Name, err)
	}
	return nil
}

// classifyFilename splits a file name into the person prefix and document
// type suffix: "ravi_kumar_government_id.txt" yields ("ravi_kumar",
// TypeGovernmentID). Sidecar-only text for a person directory carries no
// prefix and still classifies.
func classifyFilename(name string) (string, documents.Type, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	lowered := strings.ToLower(stem)
	for _, docType := range documents.AllTypes() {
		suffix := string(docType)
		if lowered == suffix {
			return "", docType, true
		}
		if strings.HasSuffix(lowered, "_"+suffix) {
			person := stem[:len(stem)-len(suffix)-1]
			return person, docType, true
		}
	}
	return "", "", false
}
