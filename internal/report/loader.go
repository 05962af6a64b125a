package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/zer0bav/gds/internal/model"
)

// maxLineSize bounds a single JSONL line. Findings with full snippets
// stay well under this.
const maxLineSize = 1024 * 1024

// LoadJSONL reads findings from a line-delimited JSON file. Malformed
// lines are skipped with a warning rather than aborting the load: an
// interrupted run may leave a truncated final line, and the rest of
// the file is still worth reporting on.
func LoadJSONL(path string, logger *slog.Logger) ([]model.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close() //nolint:errcheck,gosec // Read-only file

	var findings []model.Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var finding model.Finding
		if err := json.Unmarshal(line, &finding); err != nil {
			logger.Warn("skipping malformed line", "path", path, "line", lineNo, "error", err)
			continue
		}
		findings = append(findings, finding)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	return findings, nil
}

// LoadCSV reads findings from a CSV results file. The header row is
// validated loosely: only the column count matters, so files produced
// by older versions with the same layout still load.
func LoadCSV(path string, logger *slog.Logger) ([]model.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close() //nolint:errcheck,gosec // Read-only file

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(model.CSVHeader)

	var findings []model.Finding
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			logger.Warn("skipping malformed row", "path", path, "row", row, "error", err)
			continue
		}
		if row == 1 && record[0] == model.CSVHeader[0] {
			continue // header
		}
		findings = append(findings, findingFromRecord(record))
	}
	return findings, nil
}

// findingFromRecord maps a CSV row back to a Finding. Cells that fail
// to parse degrade to zero values; CSV is the lossy format of the two.
func findingFromRecord(record []string) model.Finding {
	finding := model.Finding{
		Category: record[1],
		Dork:     record[2],
		Query:    record[3],
		URL:      record[4],
		Title:    record[6],
		Error:    record[8],
	}
	if ts, err := strconv.ParseFloat(record[0], 64); err == nil {
		finding.Timestamp = ts
	}
	if record[5] != "" {
		if code, err := strconv.Atoi(record[5]); err == nil {
			finding.Status = &model.Status{Code: code}
		} else {
			finding.Status = &model.Status{Failed: true}
		}
	}
	finding.SensitiveHint = record[7] == "true"
	return finding
}
