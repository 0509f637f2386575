// Package fileutil provides filesystem helpers for locating candidate
// container files.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// mediaExtensions lists the container formats whose track flags
// mkvpropedit can edit in place.
var mediaExtensions = map[string]struct{}{
	".mkv": {},
}

// IsMediaFile reports whether the path has an editable container extension.
func IsMediaFile(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ScanMediaFiles returns the sorted candidate files under root. With
// recursive false only root's immediate entries are considered; otherwise
// the whole tree is walked. A missing or unreadable root is an error.
func ScanMediaFiles(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %q is not a directory", root)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && IsMediaFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk library root: %w", err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read library root: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsMediaFile(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
