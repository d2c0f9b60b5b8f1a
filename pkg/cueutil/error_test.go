// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	cueerrors "cuelang.org/go/cue/errors"
	"github.com/google/go-cmp/cmp"
)

func TestFormatError_NonCUE(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "test.cue") != nil {
		t.Error("FormatError(nil) != nil")
	}

	cause := errors.New("some error")
	err := FormatError(cause, "test.cue")
	if !errors.Is(err, cause) || err.Error() != "test.cue: some error" {
		t.Errorf("FormatError() = %v, want the cause prefixed with the file", err)
	}
	var de *DecodeError
	if errors.As(err, &de) {
		t.Errorf("FormatError() of a plain error = %+v, want no *DecodeError", de)
	}
}

func TestFormatError_CollectsIssues(t *testing.T) {
	t.Parallel()

	_, err := DecodeMap([]byte(`a: 1
a: 2
`), WithFilename("liftoff.cue"))

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("DecodeMap() error = %T %v, want *DecodeError", err, err)
	}
	if de.File != "liftoff.cue" || len(de.Issues) == 0 {
		t.Fatalf("DecodeError = %+v", de)
	}
	if de.Issues[0].Path != "a" {
		t.Errorf("Issues[0].Path = %q, want a", de.Issues[0].Path)
	}
	if !strings.HasPrefix(err.Error(), "liftoff.cue: a: ") {
		t.Errorf("Error() = %q", err.Error())
	}
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		t.Error("DecodeError does not unwrap to the CUE error")
	}
}

func TestDecodeError_MultipleIssues(t *testing.T) {
	t.Parallel()

	err := &DecodeError{File: "config.cue", Issues: []Issue{
		{Path: "ui.color_scheme", Message: "conflicting values"},
		{Message: "incomplete value"},
	}}
	want := "config.cue: validation failed:\n  ui.color_scheme: conflicting values\n  incomplete value"
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("Error() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"empty path", nil, ""},
		{"single element", []string{"name"}, "name"},
		{"nested path", []string{"ui", "log_level"}, "ui.log_level"},
		{"array index", []string{"extends", "0", "path"}, "extends[0].path"},
		{"config file entry", []string{"config_files", "app", "2", "extensions", "0"}, "config_files.app[2].extensions[0]"},
		{"leading number is a key", []string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, false},
		{"within limit", 11, false},
		{"at limit", 100, false},
		{"over limit", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "test.cue")
			if !tt.wantErr {
				if err != nil {
					t.Errorf("CheckFileSize() = %v", err)
				}
				return
			}
			var tooLarge *FileTooLargeError
			if !errors.As(err, &tooLarge) || !errors.Is(err, ErrFileTooLarge) {
				t.Fatalf("CheckFileSize() = %v, want *FileTooLargeError", err)
			}
			if tooLarge.Size != 101 || tooLarge.Max != 100 {
				t.Errorf("FileTooLargeError = %+v", tooLarge)
			}
		})
	}
}
