package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if cfg.Classify.AbsoluteElements != 400 {
		t.Errorf("absolute_elements default = %d, want 400", cfg.Classify.AbsoluteElements)
	}
	if cfg.Classify.RelativeRatio != 0.20 {
		t.Errorf("relative_ratio default = %v, want 0.20", cfg.Classify.RelativeRatio)
	}
	if cfg.Workflow.Workers != 2 {
		t.Errorf("workers default = %d, want 2", cfg.Workflow.Workers)
	}
	if cfg.Tools.Mkvpropedit != "mkvpropedit" {
		t.Errorf("mkvpropedit default = %q", cfg.Tools.Mkvpropedit)
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`library_dir = "~/rips"`,
		`log_dir = "` + dir + `/logs"`,
		"recursive = true",
		"[classify]",
		"absolute_elements = 250",
		"relative_ratio = 0.1",
		"[workflow]",
		"workers = 4",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.LibraryDir != filepath.Join(home, "rips") {
		t.Errorf("library_dir = %q, tilde not expanded", cfg.Paths.LibraryDir)
	}
	if !cfg.Paths.Recursive {
		t.Error("recursive not parsed")
	}
	if cfg.Classify.AbsoluteElements != 250 || cfg.Classify.RelativeRatio != 0.1 {
		t.Errorf("classify overrides not applied: %+v", cfg.Classify)
	}
	if cfg.Workflow.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workflow.Workers)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty library dir", func(c *Config) { c.Paths.LibraryDir = "" }},
		{"negative absolute threshold", func(c *Config) { c.Classify.AbsoluteElements = -1 }},
		{"ratio above one", func(c *Config) { c.Classify.RelativeRatio = 1.5 }},
		{"zero workers", func(c *Config) { c.Workflow.Workers = 0 }},
		{"blank tool", func(c *Config) { c.Tools.Mediainfo = " " }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample file not detected")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestThresholds(t *testing.T) {
	cfg := Default()
	cfg.Classify.AbsoluteElements = 123
	cfg.Classify.RelativeRatio = 0.5
	th := cfg.Thresholds()
	if th.AbsoluteElements != 123 || th.RelativeRatio != 0.5 {
		t.Errorf("Thresholds() = %+v", th)
	}
}
