// Package mkvpropedit applies forced-flag changes through the
// mkvpropedit command line tool. Edits are metadata-only; stream payloads
// are never rewritten, and setting a flag to its current value is a
// harmless no-op.
package mkvpropedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"subforce/internal/logging"
	"subforce/internal/services"
)

type runner func(ctx context.Context, name string, args ...string) error

func defaultRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Editor mutates track flags in place.
type Editor struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	run     runner
}

// NewEditor constructs an editor. An empty binary name falls back to
// "mkvpropedit"; a zero timeout disables the bounded wait.
func NewEditor(binary string, timeout time.Duration, logger *slog.Logger) *Editor {
	if strings.TrimSpace(binary) == "" {
		binary = "mkvpropedit"
	}
	return &Editor{
		binary:  binary,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "mkvpropedit"),
		run:     defaultRunner,
	}
}

// WithRunner injects a custom command runner for tests.
func (e *Editor) WithRunner(r runner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// SetForced sets the forced flag on one track. editID is the mkvmerge
// track ID from extraction; mkvpropedit's track selectors are 1-based, so
// the ID is shifted by one on the command line.
func (e *Editor) SetForced(ctx context.Context, path string, editID int, forced bool) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, "mkvpropedit", "set-forced", "empty path", nil)
	}
	if editID < 0 {
		return services.Wrap(services.ErrEdit, "mkvpropedit", "set-forced",
			fmt.Sprintf("track has no edit mapping in %s", path), nil)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	flag := "0"
	if forced {
		flag = "1"
	}
	selector := "track:" + strconv.Itoa(editID+1)
	err := e.run(ctx, e.binary, path, "--edit", selector, "--set", "flag-forced="+flag)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "mkvpropedit", "set-forced", path, err)
		}
		return services.Wrap(services.ErrEdit, "mkvpropedit", "set-forced", path, err)
	}

	e.logger.Debug("forced flag updated",
		logging.String("path", path),
		logging.String("selector", selector),
		logging.Bool("forced", forced),
	)
	return nil
}
