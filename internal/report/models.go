package report

import "time"

// Run summarizes one batch pass over a library.
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	LibraryRoot   string
	DryRun        bool
	FilesTotal    int
	FilesOK       int
	FilesPartial  int
	FilesSkipped  int
	TracksChanged int
}

// FileOutcome records what happened to one file during a run.
type FileOutcome struct {
	RunID   string
	Path    string
	Status  string
	Changed []TrackChange
	Error   string
}

// TrackChange records one flag edit (applied or, in a dry run, planned).
type TrackChange struct {
	Track    int    `json:"track"`
	Language string `json:"language"`
	Elements int    `json:"elements"`
	Forced   bool   `json:"forced"`
	Reason   string `json:"reason"`
	Applied  bool   `json:"applied"`
}
