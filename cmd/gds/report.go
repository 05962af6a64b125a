package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zer0bav/gds/internal/config"
	"github.com/zer0bav/gds/internal/log"
	"github.com/zer0bav/gds/internal/model"
	"github.com/zer0bav/gds/internal/report"
	"github.com/zer0bav/gds/internal/sink"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [results-file]",
		Short: "Summarize a previous run's findings offline",
		Long: `Report reads a results.jsonl or results.csv file produced by a scan
and prints an aggregate summary: totals, findings per category, and the
most frequent result domains. It never touches the network.

Without an argument it looks for results.jsonl in the default output
directory.

Examples:
  # Summarize the default output
  gds report

  # Detailed listing from a specific file
  gds report gds_output/results.jsonl --details

  # Render Markdown for sharing
  gds report -m -o report.md gds_output/results.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().Bool("details", false, "List every finding after the aggregate sections")
	cmd.Flags().BoolP("markdown", "m", false, "Render the report as Markdown")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))

	path := filepath.Join(config.DefaultOutputDir, sink.JSONLFileName)
	if len(args) == 1 {
		path = args[0]
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		// No jsonl in the default location; the CSV may still be there
		// if the jsonl was moved or deleted.
		path = filepath.Join(config.DefaultOutputDir, sink.CSVFileName)
	}

	findings, err := loadFindings(path, logger)
	if err != nil {
		return err
	}
	summary := report.Summarize(findings)

	out := cmd.OutOrStdout()
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec // Path comes from the operator
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck,gosec // Flushed by the writer below
		out = f
	}

	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	details, err := cmd.Flags().GetBool("details")
	if err != nil {
		return err
	}

	var writer report.Writer
	if markdown {
		writer = report.NewMarkdownWriter(out)
	} else {
		writer = report.NewTextWriter(out, report.WithDetails(details))
	}

	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// loadFindings picks the loader by file extension.
func loadFindings(path string, logger *slog.Logger) ([]model.Finding, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return report.LoadCSV(path, logger)
	}
	return report.LoadJSONL(path, logger)
}
