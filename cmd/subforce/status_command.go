package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subforce/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and configured paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			depStatuses := preflight.CheckSystemDeps(cfg)
			pathResults := preflight.CheckPaths(cfg)

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"tools": depStatuses,
					"paths": pathResults,
				})
			}

			out := cmd.OutOrStdout()
			var rows [][]string
			allOK := true
			for _, status := range depStatuses {
				mark := "ok"
				detail := status.Description
				if !status.Available {
					mark = "missing"
					detail = status.Detail
					allOK = false
				}
				rows = append(rows, []string{status.Name, status.Command, mark, detail})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Tool", "Command", "Status", "Detail"},
				rows,
				nil,
			))

			rows = rows[:0]
			for _, result := range pathResults {
				mark := "ok"
				if !result.Passed {
					mark = "failed"
					allOK = false
				}
				rows = append(rows, []string{result.Name, mark, result.Detail})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Path", "Status", "Detail"},
				rows,
				nil,
			))

			if !allOK {
				return fmt.Errorf("preflight checks failed")
			}
			return nil
		},
	}
}
