package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON emits the payload for a subcommand honoring the --json flag:
// run and scan summaries, history records, preflight results. Indented so
// the output stays readable when piped to a file alongside the logs.
func writeJSON(cmd *cobra.Command, payload any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
