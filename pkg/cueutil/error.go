// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is the sentinel wrapped by FileTooLargeError.
var ErrFileTooLarge = errors.New("file too large")

type (
	// Issue is one CUE error with the JSON-path style location of the
	// offending field, e.g. config_files.app[0].find_up.
	Issue struct {
		Path    string
		Message string
	}

	// DecodeError lists every issue CUE reported for one file.
	DecodeError struct {
		File   string
		Issues []Issue
		// Err is the CUE error the issues were read from.
		Err error
	}

	// FileTooLargeError is returned before compiling data over the size limit.
	FileTooLargeError struct {
		File string
		Size int
		Max  int64
	}
)

func (e *DecodeError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			lines = append(lines, is.Message)
			continue
		}
		lines = append(lines, is.Path+": "+is.Message)
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.File, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Max)
}

func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts err into a *DecodeError for filePath. Errors that do
// not come from CUE are wrapped with the file path instead.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// errors.Errors promotes any error to a CUE error, so check first.
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	cueErrs := cueerrors.Errors(err)
	de := &DecodeError{File: filePath, Issues: make([]Issue, 0, len(cueErrs)), Err: err}
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE repeats the path at the start of some messages.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		de.Issues = append(de.Issues, Issue{Path: path, Message: msg})
	}
	return de
}

// formatPath renders a CUE path (["config_files", "app", "0", "path"]) as
// config_files.app[0].path. Purely numeric elements are list indices.
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileTooLargeError when data exceeds maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return &FileTooLargeError{File: filename, Size: len(data), Max: maxSize}
	}
	return nil
}
