// SPDX-License-Identifier: MPL-2.0

// Package fspath holds the path rules liftoff applies everywhere: resolution
// against a base directory, home directory expansion and existence checks.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve returns p as an absolute, cleaned path. Relative paths are joined
// onto base; an empty base means the process working directory.
func Resolve(base, p string) (string, error) {
	p = ExpandHome(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		base = wd
	}
	return filepath.Join(ExpandHome(base), p), nil
}

// ExpandHome replaces a leading "~" path element with the user's home
// directory. Paths without that prefix, and failures to look up the home
// directory, return p unchanged.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// IsFile reports whether p exists and is not a directory.
func IsFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
