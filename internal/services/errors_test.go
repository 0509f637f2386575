package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 2")
	err := Wrap(ErrExtraction, "mediainfo", "inspect", "decode output", base)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("wrapped error lost its marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error lost its cause: %v", err)
	}
	want := "extraction error: mediainfo: inspect: decode output: exit status 2"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrValidation, "mediainfo", "", "negative element count", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing validation marker: %v", err)
	}
	if err.Error() != "validation error: mediainfo: negative element count" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", errors.New("boom"))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("nil marker should default to extraction: %v", err)
	}
}
