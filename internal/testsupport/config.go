// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subforce/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per
// test and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	for _, dir := range []string{cfg.Paths.LibraryDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}

	builder := &configBuilder{t: t, cfg: &cfg}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithWorkers overrides the worker pool size on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Workers = workers
	}
}

// WithLibraryFiles creates empty files under the library root.
func WithLibraryFiles(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			path := filepath.Join(b.cfg.Paths.LibraryDir, name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				b.t.Fatalf("create dir for %s: %v", name, err)
			}
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				b.t.Fatalf("create %s: %v", name, err)
			}
		}
	}
}
