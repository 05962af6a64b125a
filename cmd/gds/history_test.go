package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zer0bav/gds/internal/database"
	"github.com/zer0bav/gds/internal/model"
)

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists saved runs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := database.Open(dir, database.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		run := &model.RunRecord{
			StartedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC),
			Target:     "example.com",
			Queries:    8,
			Findings:   3,
			Sensitive:  1,
			OutputDir:  "/tmp/out",
		}
		if err := db.SaveRun(context.Background(), run); err != nil {
			t.Fatal(err)
		}
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}

		cmd := NewRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"history", "--data-dir", dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "example.com") {
			t.Errorf("target missing: %s", out)
		}
		if !strings.Contains(out, "/tmp/out") {
			t.Errorf("output dir missing: %s", out)
		}
	})

	t.Run("missing database", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"history", "--data-dir", filepath.Join(t.TempDir(), "empty")})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error when no history exists")
		}
	})
}
