package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zer0bav/gds/internal/model"
)

const (
	// JSONLFileName is the line-delimited JSON output file name.
	JSONLFileName = "results.jsonl"

	// CSVFileName is the CSV output file name.
	CSVFileName = "results.csv"

	// dirPerm is the permission for created output directories.
	dirPerm = 0o750

	// filePerm is the permission for created output files.
	filePerm = 0o640
)

// Sink appends findings to the two output files of a run. It is safe
// for concurrent use; each Append writes one finding to both formats
// and flushes before returning, so readers tailing the files see
// complete lines only.
type Sink struct {
	mu        sync.Mutex
	jsonlFile *os.File
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonlPath string
	csvPath   string
	count     int
}

// New opens a Sink rooted at dir, creating the directory and both
// output files as needed. Existing files are appended to, never
// truncated; the CSV header is written only when the file is new or
// empty, so repeated runs into the same directory stay well-formed.
func New(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	s := &Sink{
		jsonlPath: filepath.Join(dir, JSONLFileName),
		csvPath:   filepath.Join(dir, CSVFileName),
	}

	var err error
	s.jsonlFile, err = os.OpenFile(s.jsonlPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", JSONLFileName, err)
	}

	s.csvFile, err = os.OpenFile(s.csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		s.jsonlFile.Close() //nolint:errcheck,gosec // Best-effort cleanup
		return nil, fmt.Errorf("failed to open %s: %w", CSVFileName, err)
	}
	s.csvWriter = csv.NewWriter(s.csvFile)

	if err := s.writeHeaderIfNew(); err != nil {
		s.Close() //nolint:errcheck,gosec // Best-effort cleanup
		return nil, err
	}
	return s, nil
}

// writeHeaderIfNew writes the CSV header only when the file is empty.
func (s *Sink) writeHeaderIfNew() error {
	info, err := s.csvFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", CSVFileName, err)
	}
	if info.Size() > 0 {
		return nil
	}
	if err := s.csvWriter.Write(model.CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	s.csvWriter.Flush()
	if err := s.csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV header: %w", err)
	}
	return s.csvFile.Sync()
}

// Append writes one finding to both output files and flushes them to
// disk before returning. A failed Append leaves previously written
// findings intact; the caller decides whether to continue the run.
func (s *Sink) Append(f *model.Finding) error {
	line, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode finding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.jsonlFile.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append to %s: %w", JSONLFileName, err)
	}
	if err := s.jsonlFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", JSONLFileName, err)
	}

	if err := s.csvWriter.Write(f.CSVRecord()); err != nil {
		return fmt.Errorf("failed to append to %s: %w", CSVFileName, err)
	}
	s.csvWriter.Flush()
	if err := s.csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", CSVFileName, err)
	}
	if err := s.csvFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", CSVFileName, err)
	}

	s.count++
	return nil
}

// Count returns the number of findings appended through this Sink.
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// JSONLPath returns the path of the line-delimited JSON output file.
func (s *Sink) JSONLPath() string { return s.jsonlPath }

// CSVPath returns the path of the CSV output file.
func (s *Sink) CSVPath() string { return s.csvPath }

// Close flushes and closes both output files.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.csvWriter.Flush()
	csvErr := s.csvWriter.Error()
	if err := s.csvFile.Close(); err != nil && csvErr == nil {
		csvErr = err
	}
	if err := s.jsonlFile.Close(); err != nil {
		return err
	}
	return csvErr
}
