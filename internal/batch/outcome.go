package batch

import (
	"time"

	"subforce/internal/classify"
	"subforce/internal/report"
)

// Status categorizes how a file's processing ended.
type Status string

const (
	// StatusOK: every needed edit applied, or none were needed.
	StatusOK Status = "ok"
	// StatusPartial: at least one edit failed, the rest were attempted.
	StatusPartial Status = "partial"
	// StatusSkipped: extraction or validation failed, or the file had no
	// subtitle tracks; nothing was edited.
	StatusSkipped Status = "skipped"
)

// TrackChange describes one flag edit the diff called for.
type TrackChange struct {
	Track    int
	EditID   int
	Language string
	Elements int
	Forced   bool
	Reason   classify.Reason
	Applied  bool
	Err      error
}

// Outcome is the per-file result record.
type Outcome struct {
	Path    string
	Status  Status
	Reason  string
	Changes []TrackChange
	Err     error
}

// Summary aggregates a whole run.
type Summary struct {
	RunID       string
	LibraryRoot string
	DryRun      bool
	StartedAt   time.Time
	FinishedAt  time.Time
	Outcomes    []Outcome
}

// Counts tallies outcome statuses and applied changes.
func (s Summary) Counts() (ok, partial, skipped, changed int) {
	for _, outcome := range s.Outcomes {
		switch outcome.Status {
		case StatusOK:
			ok++
		case StatusPartial:
			partial++
		case StatusSkipped:
			skipped++
		}
		for _, change := range outcome.Changes {
			if change.Applied || (s.DryRun && change.Err == nil) {
				changed++
			}
		}
	}
	return ok, partial, skipped, changed
}

// AllFailed reports whether not a single file could be processed. Only
// this condition warrants a non-zero exit status; individual failures are
// partial-success outcomes. A file skipped without an error (extraction
// ran fine and found no subtitle tracks) was processed, not failed.
func (s Summary) AllFailed() bool {
	if len(s.Outcomes) == 0 {
		return false
	}
	for _, outcome := range s.Outcomes {
		if outcome.Err == nil {
			return false
		}
	}
	return true
}

// reportRun converts the summary into store records.
func (s Summary) reportRun() (report.Run, []report.FileOutcome) {
	ok, partial, skipped, changed := s.Counts()
	run := report.Run{
		ID:            s.RunID,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
		LibraryRoot:   s.LibraryRoot,
		DryRun:        s.DryRun,
		FilesTotal:    len(s.Outcomes),
		FilesOK:       ok,
		FilesPartial:  partial,
		FilesSkipped:  skipped,
		TracksChanged: changed,
	}

	outcomes := make([]report.FileOutcome, 0, len(s.Outcomes))
	for _, outcome := range s.Outcomes {
		record := report.FileOutcome{
			RunID:  s.RunID,
			Path:   outcome.Path,
			Status: string(outcome.Status),
		}
		switch {
		case outcome.Err != nil:
			record.Error = outcome.Err.Error()
		case outcome.Reason != "":
			record.Error = outcome.Reason
		}
		for _, change := range outcome.Changes {
			record.Changed = append(record.Changed, report.TrackChange{
				Track:    change.Track,
				Language: change.Language,
				Elements: change.Elements,
				Forced:   change.Forced,
				Reason:   string(change.Reason),
				Applied:  change.Applied,
			})
		}
		outcomes = append(outcomes, record)
	}
	return run, outcomes
}
