package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/zer0bav/gds/internal/model"
)

func TestSink(t *testing.T) {
	t.Parallel()

	t.Run("creates directory and files with CSV header", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		s, err := New(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close() //nolint:errcheck,gosec // Test cleanup

		if _, err := os.Stat(s.JSONLPath()); err != nil {
			t.Errorf("jsonl file not created: %v", err)
		}

		f, err := os.Open(s.CSVPath())
		if err != nil {
			t.Fatalf("csv file not created: %v", err)
		}
		defer f.Close() //nolint:errcheck,gosec // Test cleanup

		header, err := csv.NewReader(f).Read()
		if err != nil {
			t.Fatalf("failed to read header: %v", err)
		}
		if len(header) != len(model.CSVHeader) {
			t.Fatalf("header has %d columns, expected %d", len(header), len(model.CSVHeader))
		}
		for i, col := range model.CSVHeader {
			if header[i] != col {
				t.Errorf("header[%d] = %q, expected %q", i, header[i], col)
			}
		}
	})

	t.Run("appends findings to both formats", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := New(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		finding := model.NewFinding(model.NewQuery("backup_files", "filetype:sql", "example.com"), "http://example.com/db.sql")
		finding.Status = &model.Status{Code: 200}
		finding.Title = "dump"
		if err := s.Append(finding); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if s.Count() != 1 {
			t.Errorf("count = %d, expected 1", s.Count())
		}

		jf, err := os.Open(s.JSONLPath())
		if err != nil {
			t.Fatalf("failed to open jsonl: %v", err)
		}
		defer jf.Close() //nolint:errcheck,gosec // Test cleanup

		scanner := bufio.NewScanner(jf)
		if !scanner.Scan() {
			t.Fatal("jsonl has no lines")
		}
		var got model.Finding
		if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
			t.Fatalf("jsonl line is not valid JSON: %v", err)
		}
		if got.URL != "http://example.com/db.sql" {
			t.Errorf("url = %q", got.URL)
		}
		if scanner.Scan() {
			t.Error("jsonl has extra lines")
		}

		cf, err := os.Open(s.CSVPath())
		if err != nil {
			t.Fatalf("failed to open csv: %v", err)
		}
		defer cf.Close() //nolint:errcheck,gosec // Test cleanup

		rows, err := csv.NewReader(cf).ReadAll()
		if err != nil {
			t.Fatalf("failed to read csv: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("csv has %d rows, expected header plus one record", len(rows))
		}
		if rows[1][4] != "http://example.com/db.sql" {
			t.Errorf("csv url cell = %q", rows[1][4])
		}
		if rows[1][5] != "200" {
			t.Errorf("csv status cell = %q", rows[1][5])
		}
	})

	t.Run("reopening does not duplicate the header", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		s1, err := New(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		finding := model.NewFinding(model.NewQuery("cat", "dork", ""), "http://example.com/a")
		if err := s1.Append(finding); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if err := s1.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		s2, err := New(dir)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		if err := s2.Append(model.NewFinding(model.NewQuery("cat", "dork", ""), "http://example.com/b")); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if err := s2.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		f, err := os.Open(s2.CSVPath())
		if err != nil {
			t.Fatalf("failed to open csv: %v", err)
		}
		defer f.Close() //nolint:errcheck,gosec // Test cleanup

		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("failed to read csv: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("csv has %d rows, expected one header and two records", len(rows))
		}
		if rows[0][0] != "timestamp" || rows[1][0] == "timestamp" {
			t.Error("header duplicated or misplaced after reopen")
		}
	})

	t.Run("concurrent appends keep lines whole", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := New(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		const writers = 8
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				f := model.NewFinding(model.NewQuery("cat", "dork", ""), "http://example.com/"+string(rune('a'+n)))
				if err := s.Append(f); err != nil {
					t.Errorf("append failed: %v", err)
				}
			}(i)
		}
		wg.Wait()
		if err := s.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if s.Count() != writers {
			t.Errorf("count = %d, expected %d", s.Count(), writers)
		}

		jf, err := os.Open(s.JSONLPath())
		if err != nil {
			t.Fatalf("failed to open jsonl: %v", err)
		}
		defer jf.Close() //nolint:errcheck,gosec // Test cleanup

		lines := 0
		scanner := bufio.NewScanner(jf)
		for scanner.Scan() {
			var f model.Finding
			if err := json.Unmarshal(scanner.Bytes(), &f); err != nil {
				t.Errorf("interleaved or corrupt line: %v", err)
			}
			lines++
		}
		if lines != writers {
			t.Errorf("jsonl has %d lines, expected %d", lines, writers)
		}
	})
}
