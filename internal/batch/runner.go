package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subforce/internal/classify"
	"subforce/internal/config"
	"subforce/internal/fileutil"
	"subforce/internal/language"
	"subforce/internal/logging"
	"subforce/internal/report"
	"subforce/internal/services"
	"subforce/internal/services/mediainfo"
)

// TrackExtractor obtains subtitle track metadata for one file.
type TrackExtractor interface {
	ExtractTracks(ctx context.Context, path string) ([]mediainfo.TrackInfo, error)
}

// FlagEditor sets the forced flag on one track of one file.
type FlagEditor interface {
	SetForced(ctx context.Context, path string, editID int, forced bool) error
}

// Runner executes batch passes over a library.
type Runner struct {
	cfg       *config.Config
	extractor TrackExtractor
	editor    FlagEditor
	store     *report.Store
	logger    *slog.Logger
	dryRun    bool
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithDryRun computes and records edit instructions without applying them.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) { r.dryRun = enabled }
}

// WithStore persists run summaries to the report database.
func WithStore(store *report.Store) Option {
	return func(r *Runner) { r.store = store }
}

// NewRunner constructs a batch runner.
func NewRunner(cfg *config.Config, extractor TrackExtractor, editor FlagEditor, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		extractor: extractor,
		editor:    editor,
		logger:    logging.NewComponentLogger(logger, "batch"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every candidate file under the configured library root
// and returns the aggregated summary. The returned error covers only
// run-level failures (lock contention, unreadable root, report
// persistence); per-file problems land in the summary's outcomes.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:       uuid.NewString(),
		LibraryRoot: r.cfg.Paths.LibraryDir,
		DryRun:      r.dryRun,
		StartedAt:   time.Now(),
	}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "prepare", "", err)
	}

	// One pass per library at a time; two concurrent passes would race
	// on mkvpropedit writes.
	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "subforce.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "lock", "", err)
	}
	if !locked {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "lock", "another run is already in progress", nil)
	}
	defer lock.Unlock()

	files, err := fileutil.ScanMediaFiles(r.cfg.Paths.LibraryDir, r.cfg.Paths.Recursive)
	if err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "scan", "", err)
	}

	r.logger.Info("starting batch run",
		logging.String("run_id", summary.RunID),
		logging.String("library", r.cfg.Paths.LibraryDir),
		logging.Int("files", len(files)),
		logging.Bool("dry_run", r.dryRun),
	)

	summary.Outcomes = r.processFiles(ctx, files)
	summary.FinishedAt = time.Now()

	ok, partial, skipped, changed := summary.Counts()
	r.logger.Info("batch run complete",
		logging.String("run_id", summary.RunID),
		logging.Int("ok", ok),
		logging.Int("partial", partial),
		logging.Int("skipped", skipped),
		logging.Int("tracks_changed", changed),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	if r.store != nil {
		run, outcomes := summary.reportRun()
		if err := r.store.SaveRun(ctx, run, outcomes); err != nil {
			return summary, fmt.Errorf("persist run report: %w", err)
		}
	}
	return summary, nil
}

// processFiles fans files out over the worker pool. Each worker writes
// its outcome into its own slot, so results need no shared aggregation
// and come back in input order.
func (r *Runner) processFiles(ctx context.Context, files []string) []Outcome {
	outcomes := make([]Outcome, len(files))

	workers := r.cfg.Workflow.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = r.processFile(ctx, files[idx])
			}
		}()
	}

	for idx := range files {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			// Remaining files are recorded as skipped; a rerun is safe.
			for rest := idx; rest < len(files); rest++ {
				if outcomes[rest].Path == "" {
					outcomes[rest] = Outcome{Path: files[rest], Status: StatusSkipped, Err: ctx.Err()}
				}
			}
			close(jobs)
			wg.Wait()
			return outcomes
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func (r *Runner) processFile(ctx context.Context, path string) Outcome {
	outcome := Outcome{Path: path}

	infos, err := r.extractor.ExtractTracks(ctx, path)
	if err != nil {
		r.logger.Warn("extraction failed, skipping file",
			logging.String("path", path),
			logging.Error(err),
		)
		outcome.Status = StatusSkipped
		outcome.Err = err
		return outcome
	}
	if len(infos) == 0 {
		outcome.Status = StatusSkipped
		outcome.Reason = "no subtitle tracks"
		r.logger.Debug("no subtitle tracks", logging.String("path", path))
		return outcome
	}

	tracks := make([]classify.Track, 0, len(infos))
	byNumber := make(map[int]mediainfo.TrackInfo, len(infos))
	for _, info := range infos {
		byNumber[info.Number] = info
		tracks = append(tracks, classify.Track{
			Index:        info.Number,
			Language:     language.GroupKey(info.Language),
			ElementCount: info.ElementCount,
			Forced:       info.Forced,
		})
		if info.ElementCount == 0 {
			r.logger.Warn("track reports zero elements, will be treated as forced",
				logging.String("path", path),
				logging.Int("track", info.Number),
			)
		}
	}

	decisions, err := classify.Classify(tracks, r.cfg.Thresholds())
	if err != nil {
		outcome.Status = StatusSkipped
		outcome.Err = services.Wrap(services.ErrValidation, "batch", "classify", path, err)
		r.logger.Warn("track data failed validation, skipping file",
			logging.String("path", path),
			logging.Error(err),
		)
		return outcome
	}

	outcome.Changes = r.diff(byNumber, decisions)
	if len(outcome.Changes) == 0 {
		outcome.Status = StatusOK
		r.logger.Debug("all forced flags already correct", logging.String("path", path))
		return outcome
	}

	if r.dryRun {
		outcome.Status = StatusOK
		for _, change := range outcome.Changes {
			r.logger.Info("would update forced flag",
				logging.String("path", path),
				logging.Int("track", change.Track),
				logging.String("language", language.DisplayName(change.Language)),
				logging.Int("elements", change.Elements),
				logging.Bool("forced", change.Forced),
				logging.String("reason", string(change.Reason)),
			)
		}
		return outcome
	}

	outcome.Status = r.applyChanges(ctx, path, outcome.Changes)
	return outcome
}

// diff builds one change per track whose decision disagrees with the
// flag currently in the file. Tracks already matching produce nothing,
// which is what makes reruns idempotent.
func (r *Runner) diff(byNumber map[int]mediainfo.TrackInfo, decisions []classify.Decision) []TrackChange {
	var changes []TrackChange
	for _, decision := range decisions {
		info := byNumber[decision.TrackIndex]
		if decision.ShouldForce == info.Forced {
			continue
		}
		changes = append(changes, TrackChange{
			Track:    decision.TrackIndex,
			EditID:   info.EditID,
			Language: decision.Language,
			Elements: decision.ElementCount,
			Forced:   decision.ShouldForce,
			Reason:   decision.Reason,
		})
	}
	return changes
}

// applyChanges issues the edits serially in track order; the edit tool
// does not tolerate concurrent writers on one file. A failed edit is
// recorded and the rest still run.
func (r *Runner) applyChanges(ctx context.Context, path string, changes []TrackChange) Status {
	failures := 0
	for i := range changes {
		change := &changes[i]
		err := r.editor.SetForced(ctx, path, change.EditID, change.Forced)
		if err != nil {
			change.Err = err
			failures++
			r.logger.Error("failed to update forced flag",
				logging.String("path", path),
				logging.Int("track", change.Track),
				logging.Error(err),
			)
			continue
		}
		change.Applied = true
		r.logger.Info("forced flag updated",
			logging.String("path", path),
			logging.Int("track", change.Track),
			logging.String("language", language.DisplayName(change.Language)),
			logging.Int("elements", change.Elements),
			logging.Bool("forced", change.Forced),
			logging.String("reason", string(change.Reason)),
		)
	}
	if failures > 0 {
		return StatusPartial
	}
	return StatusOK
}

// ErrNothingProcessed signals that a run finished without successfully
// processing a single file.
var ErrNothingProcessed = errors.New("no file could be processed")
