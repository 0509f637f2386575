package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks failures that must abort before any file is
	// touched: unreadable settings, missing required binaries.
	ErrConfiguration = errors.New("configuration error")
	// ErrExtraction marks a per-file metadata extraction failure.
	ErrExtraction = errors.New("extraction error")
	// ErrValidation marks malformed track data reported by the extractor.
	ErrValidation = errors.New("validation error")
	// ErrEdit marks a per-track flag edit failure.
	ErrEdit = errors.New("edit error")
	// ErrTimeout marks an external tool exceeding its bounded wait.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error carrying component context while tagging it with
// the provided marker for later outcome classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExtraction
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
