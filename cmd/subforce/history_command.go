package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subforce/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs recorded in the report database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := report.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				outcomes, err := store.RunOutcomes(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, outcomes)
				}
				renderOutcomes(cmd, runID, outcomes)
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, runs)
			}
			renderRuns(cmd, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "show per-file outcomes for one run ID")
	return cmd
}

func renderRuns(cmd *cobra.Command, runs []report.Run) {
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := "apply"
		if run.DryRun {
			mode = "dry-run"
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			mode,
			strconv.Itoa(run.FilesTotal),
			strconv.Itoa(run.FilesOK),
			strconv.Itoa(run.FilesPartial),
			strconv.Itoa(run.FilesSkipped),
			strconv.Itoa(run.TracksChanged),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Run", "Started", "Mode", "Files", "OK", "Partial", "Skipped", "Changed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}

func renderOutcomes(cmd *cobra.Command, runID string, outcomes []report.FileOutcome) {
	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		fmt.Fprintf(out, "No outcomes recorded for run %s.\n", runID)
		return
	}
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		changes := make([]string, 0, len(outcome.Changed))
		for _, change := range outcome.Changed {
			changes = append(changes, fmt.Sprintf("track %d forced=%t", change.Track, change.Forced))
		}
		rows = append(rows, []string{
			outcome.Path,
			outcome.Status,
			strings.Join(changes, ", "),
			outcome.Error,
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"File", "Status", "Changes", "Error"},
		rows,
		nil,
	))
}
