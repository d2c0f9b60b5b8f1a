// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/liftoff/pkg/fspath"
)

var (
	// ErrNoConfigName is returned when a configuration name is empty.
	ErrNoConfigName = errors.New("config name is required")
	// ErrNoExtensions is returned when no extension was given for a
	// configuration name.
	ErrNoExtensions = errors.New("at least one extension is required")
)

// ConfigNames returns the candidate file names for name, one per extension,
// in extension order.
func ConfigNames(name string, exts []string) ([]string, error) {
	if name == "" {
		return nil, ErrNoConfigName
	}
	if len(exts) == 0 {
		return nil, ErrNoExtensions
	}

	names := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		names = append(names, name+ext)
	}
	return names, nil
}

// Search looks for any of names in each of dirs, in order, walking each one
// upward to the filesystem root. It returns the absolute path of the first
// hit, or "" when nothing matched.
func Search(names, dirs []string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		start, err := fspath.Resolve("", dir)
		if err != nil {
			continue
		}
		if p := findUp(start, names); p != "" {
			return p
		}
	}
	return ""
}

func findUp(dir string, names []string) string {
	for {
		if p := matchIn(dir, names); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// matchIn compares names against the regular files in dir. Matching ignores
// case but the returned path keeps the on-disk spelling, and an exact match
// beats a case-folded one for the same candidate.
func matchIn(dir string, names []string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, name := range names {
		folded := ""
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if e.Name() == name {
				return filepath.Join(dir, e.Name())
			}
			if folded == "" && strings.EqualFold(e.Name(), name) {
				folded = e.Name()
			}
		}
		if folded != "" {
			return filepath.Join(dir, folded)
		}
	}
	return ""
}
