package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zer0bav/gds/internal/config"
	"github.com/zer0bav/gds/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past scan runs from the history database",
		Long: `History lists the run records accumulated by previous scans: when
each run happened, its target, and how much it found. The findings
themselves live in each run's output directory.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().String("data-dir", config.XDGDataDir(), "Directory holding the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := database.Open(dataDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no scan history yet: %w", err)
	}
	defer db.Close() //nolint:errcheck,gosec // Read-only access

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scan runs recorded.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-5s %-20s %-25s %9s %9s %10s  %s\n",
		"ID", "STARTED", "TARGET", "QUERIES", "FINDINGS", "SENSITIVE", "OUTPUT")
	for _, run := range runs {
		target := run.Target
		if target == "" {
			target = "(unscoped)"
		}
		fmt.Fprintf(w, "%-5d %-20s %-25s %9d %9d %10d  %s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			target,
			run.Queries,
			run.Findings,
			run.Sensitive,
			run.OutputDir,
		)
	}
	return nil
}
