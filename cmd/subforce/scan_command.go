package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"subforce/internal/batch"
	"subforce/internal/language"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var workers int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze the library and report planned flag changes without editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(ctx, cmd, true, recursive, workers)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Walk the whole library tree")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")
	return cmd
}

// renderChanges prints the per-track analysis for a dry run.
func renderChanges(cmd *cobra.Command, summary batch.Summary) {
	out := cmd.OutOrStdout()

	var rows [][]string
	for _, outcome := range summary.Outcomes {
		for _, change := range outcome.Changes {
			wanted := "clear"
			if change.Forced {
				wanted = "set"
			}
			rows = append(rows, []string{
				filepath.Base(outcome.Path),
				strconv.Itoa(change.Track),
				language.DisplayName(change.Language),
				strconv.Itoa(change.Elements),
				wanted,
				string(change.Reason),
			})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "All forced flags already match; nothing to change.")
		return
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"File", "Track", "Language", "Elements", "Forced", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	))
}
