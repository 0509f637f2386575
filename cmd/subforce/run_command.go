package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"subforce/internal/batch"
	"subforce/internal/language"
	"subforce/internal/preflight"
	"subforce/internal/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var workers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify subtitle tracks and fix forced flags across the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(ctx, cmd, false, recursive, workers)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Walk the whole library tree")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")
	return cmd
}

func executeBatch(ctx *commandContext, cmd *cobra.Command, dryRun, recursive bool, workers int) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if recursive {
		cfg.Paths.Recursive = true
	}
	if workers > 0 {
		cfg.Workflow.Workers = workers
	}

	if !dryRun {
		if err := preflight.RequireTools(cfg); err != nil {
			return err
		}
	}

	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	store, err := report.Open(cfg)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	defer store.Close()

	extractor, editor := ctx.collaborators(logger)
	runner := batch.NewRunner(cfg, extractor, editor, logger,
		batch.WithDryRun(dryRun),
		batch.WithStore(store),
	)

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	switch {
	case ctx.jsonOutput():
		if err := writeJSON(cmd, summaryView(summary)); err != nil {
			return err
		}
	case dryRun:
		renderChanges(cmd, summary)
		renderTotals(cmd, summary, dryRun)
	default:
		renderSummary(cmd, summary)
		renderTotals(cmd, summary, dryRun)
	}

	if summary.AllFailed() {
		return fmt.Errorf("%w (%d files attempted)", batch.ErrNothingProcessed, len(summary.Outcomes))
	}
	return nil
}

func renderSummary(cmd *cobra.Command, summary batch.Summary) {
	out := cmd.OutOrStdout()

	var rows [][]string
	for _, outcome := range summary.Outcomes {
		detail := ""
		switch {
		case outcome.Err != nil:
			detail = outcome.Err.Error()
		case outcome.Reason != "":
			detail = outcome.Reason
		}
		rows = append(rows, []string{
			filepath.Base(outcome.Path),
			string(outcome.Status),
			strconv.Itoa(len(outcome.Changes)),
			detail,
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(out,
			[]string{"File", "Status", "Changes", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		))
	}
}

func renderTotals(cmd *cobra.Command, summary batch.Summary, dryRun bool) {
	ok, partial, skipped, changed := summary.Counts()
	verb := "changed"
	if dryRun {
		verb = "would change"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d files: %d ok, %d partial, %d skipped; %s %d track flags\n",
		len(summary.Outcomes), ok, partial, skipped, verb, changed)
}

type changeJSON struct {
	Track    int    `json:"track"`
	Language string `json:"language"`
	Elements int    `json:"elements"`
	Forced   bool   `json:"forced"`
	Reason   string `json:"reason"`
	Applied  bool   `json:"applied"`
	Error    string `json:"error,omitempty"`
}

type outcomeJSON struct {
	Path    string       `json:"path"`
	Status  string       `json:"status"`
	Detail  string       `json:"detail,omitempty"`
	Changes []changeJSON `json:"changes,omitempty"`
}

type summaryJSON struct {
	RunID         string        `json:"run_id"`
	LibraryRoot   string        `json:"library_root"`
	DryRun        bool          `json:"dry_run"`
	FilesTotal    int           `json:"files_total"`
	FilesOK       int           `json:"files_ok"`
	FilesPartial  int           `json:"files_partial"`
	FilesSkipped  int           `json:"files_skipped"`
	TracksChanged int           `json:"tracks_changed"`
	Outcomes      []outcomeJSON `json:"outcomes"`
}

func summaryView(summary batch.Summary) summaryJSON {
	ok, partial, skipped, changed := summary.Counts()
	view := summaryJSON{
		RunID:         summary.RunID,
		LibraryRoot:   summary.LibraryRoot,
		DryRun:        summary.DryRun,
		FilesTotal:    len(summary.Outcomes),
		FilesOK:       ok,
		FilesPartial:  partial,
		FilesSkipped:  skipped,
		TracksChanged: changed,
	}
	for _, outcome := range summary.Outcomes {
		entry := outcomeJSON{
			Path:   outcome.Path,
			Status: string(outcome.Status),
		}
		switch {
		case outcome.Err != nil:
			entry.Detail = outcome.Err.Error()
		case outcome.Reason != "":
			entry.Detail = outcome.Reason
		}
		for _, change := range outcome.Changes {
			changeEntry := changeJSON{
				Track:    change.Track,
				Language: language.DisplayName(change.Language),
				Elements: change.Elements,
				Forced:   change.Forced,
				Reason:   string(change.Reason),
				Applied:  change.Applied,
			}
			if change.Err != nil {
				changeEntry.Error = change.Err.Error()
			}
			entry.Changes = append(entry.Changes, changeEntry)
		}
		view.Outcomes = append(view.Outcomes, entry)
	}
	return view
}
