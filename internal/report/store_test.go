package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"subforce/internal/testsupport"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(testsupport.NewConfig(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveRunRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Minute)
	run := Run{
		ID:            uuid.NewString(),
		StartedAt:     started,
		FinishedAt:    time.Now(),
		LibraryRoot:   "/library",
		FilesTotal:    3,
		FilesOK:       1,
		FilesPartial:  1,
		FilesSkipped:  1,
		TracksChanged: 2,
	}
	outcomes := []FileOutcome{
		{
			RunID:  run.ID,
			Path:   "/library/a.mkv",
			Status: "ok",
			Changed: []TrackChange{
				{Track: 4, Language: "eng", Elements: 120, Forced: true, Reason: "both", Applied: true},
			},
		},
		{RunID: run.ID, Path: "/library/b.mkv", Status: "skipped", Error: "extraction error: mediainfo: inspect"},
	}
	if err := store.SaveRun(ctx, run, outcomes); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.FilesTotal != 3 || got.TracksChanged != 2 || got.DryRun {
		t.Errorf("unexpected run record: %+v", got)
	}

	stored, err := store.RunOutcomes(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(stored))
	}
	if len(stored[0].Changed) != 1 || stored[0].Changed[0].Track != 4 || !stored[0].Changed[0].Forced {
		t.Errorf("changed tracks did not round trip: %+v", stored[0].Changed)
	}
	if stored[1].Status != "skipped" || stored[1].Error == "" {
		t.Errorf("skip outcome mangled: %+v", stored[1])
	}
}

func TestRecentRunsOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		run := Run{
			ID:          uuid.NewString(),
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
			FinishedAt:  base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			LibraryRoot: "/library",
		}
		if err := store.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not honored: %d runs", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not newest-first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestRecentRunsOrderingSubsecond(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Half a second lands on trailing zeros; a format that trims them
	// would make this start time sort after one a microsecond later.
	earlier := time.Date(2026, time.August, 29, 12, 0, 12, 500_000_000, time.UTC)
	later := earlier.Add(time.Microsecond)

	earlierID := uuid.NewString()
	laterID := uuid.NewString()
	for _, run := range []Run{
		{ID: laterID, StartedAt: later, FinishedAt: later, LibraryRoot: "/library"},
		{ID: earlierID, StartedAt: earlier, FinishedAt: earlier, LibraryRoot: "/library"},
	} {
		if err := store.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveRun %s: %v", run.ID, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != laterID || runs[1].ID != earlierID {
		t.Errorf("sub-second starts out of order: %s then %s", runs[0].ID, runs[1].ID)
	}
	if !runs[0].StartedAt.Equal(later) {
		t.Errorf("start time did not round trip: %v, want %v", runs[0].StartedAt, later)
	}
}
