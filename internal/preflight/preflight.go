// Package preflight verifies external tools and paths before a batch run
// starts, so missing prerequisites fail configuration-fast instead of
// per file.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"subforce/internal/config"
	"subforce/internal/deps"
	"subforce/internal/services"
)

// Result reports one path check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckSystemDeps evaluates the external binaries the run needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "MediaInfo",
			Command:     cfg.Tools.Mediainfo,
			Description: "Reports subtitle track languages and element counts",
		},
		{
			Name:        "mkvinfo",
			Command:     cfg.Tools.Mkvinfo,
			Description: "Maps container track numbers to mkvpropedit track IDs",
		},
		{
			Name:        "mkvpropedit",
			Command:     cfg.Tools.Mkvpropedit,
			Description: "Applies forced-flag edits without remuxing",
		},
	})
}

// CheckPaths verifies the library root is readable and the log directory
// writable.
func CheckPaths(cfg *config.Config) []Result {
	results := make([]Result, 0, 2)
	results = append(results, checkReadableDir("Library root", cfg.Paths.LibraryDir))
	results = append(results, checkWritableDir("Log directory", cfg.Paths.LogDir))
	return results
}

// RequireTools returns a configuration error when any required binary is
// unavailable. The run command calls this before touching the library.
func RequireTools(cfg *config.Config) error {
	var missing []string
	for _, status := range CheckSystemDeps(cfg) {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Command)
		}
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrConfiguration, "preflight", "tools",
			fmt.Sprintf("required binaries missing: %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}

func checkReadableDir(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if _, err := os.ReadDir(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

func checkWritableDir(name, path string) Result {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	probe, err := os.CreateTemp(path, ".preflight-*")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}
