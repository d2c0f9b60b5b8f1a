// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/invowk/liftoff/pkg/fspath"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	got, err := fspath.Resolve(base, "sub/file.json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := filepath.Join(base, "sub", "file.json"); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	abs := filepath.Join(base, "x", "..", "y")
	got, err = fspath.Resolve("/ignored", abs)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := filepath.Join(base, "y"); got != want {
		t.Errorf("Resolve(abs) = %q, want %q", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got, want := fspath.ExpandHome("~/configs"), filepath.Join(home, "configs"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}
	if got := fspath.ExpandHome("configs/~"); got != "configs/~" {
		t.Errorf("ExpandHome() changed a path without a home prefix: %q", got)
	}
}

func TestIsFileIsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !fspath.IsFile(file) || fspath.IsDir(file) {
		t.Errorf("expected %s to be a file", file)
	}
	if fspath.IsFile(dir) || !fspath.IsDir(dir) {
		t.Errorf("expected %s to be a directory", dir)
	}
	if fspath.IsFile(filepath.Join(dir, "missing")) {
		t.Error("missing path reported as file")
	}
}
