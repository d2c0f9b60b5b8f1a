// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/liftoff/internal/testutil"
)

func TestConfigNames(t *testing.T) {
	t.Parallel()

	got, err := ConfigNames("Appfile", []string{".json", "yaml"})
	if err != nil {
		t.Fatalf("ConfigNames() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Appfile.json", "Appfile.yaml"}, got); diff != "" {
		t.Errorf("ConfigNames() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ConfigNames("", []string{".json"}); !errors.Is(err, ErrNoConfigName) {
		t.Errorf("empty name error = %v, want ErrNoConfigName", err)
	}
	if _, err := ConfigNames("Appfile", nil); !errors.Is(err, ErrNoExtensions) {
		t.Errorf("no extensions error = %v, want ErrNoExtensions", err)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	root := testutil.EvalDir(t, t.TempDir())
	nested := filepath.Join(root, "a", "b", "c")
	testutil.MustMkdirAll(t, nested, 0o755)
	testutil.WriteFile(t, root, "APPFILE.json", `{}`)
	other := filepath.Join(root, "other")
	testutil.WriteFile(t, other, "Appfile.yaml", "a: 1\n")

	names := []string{"Appfile.json", "Appfile.yaml"}

	t.Run("walks up and keeps on-disk spelling", func(t *testing.T) {
		t.Parallel()
		got := Search(names, []string{nested})
		if want := filepath.Join(root, "APPFILE.json"); got != want {
			t.Errorf("Search() = %q, want %q", got, want)
		}
	})

	t.Run("first directory wins", func(t *testing.T) {
		t.Parallel()
		got := Search(names, []string{other, nested})
		if want := filepath.Join(other, "Appfile.yaml"); got != want {
			t.Errorf("Search() = %q, want %q", got, want)
		}
	})

	t.Run("empty and missing directories are skipped", func(t *testing.T) {
		t.Parallel()
		got := Search(names, []string{"", filepath.Join(root, "missing"), nested})
		// A missing directory still walks up into root.
		if want := filepath.Join(root, "APPFILE.json"); got != want {
			t.Errorf("Search() = %q, want %q", got, want)
		}
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		if got := Search([]string{"nothing-here.json"}, []string{nested}); got != "" {
			t.Errorf("Search() = %q, want empty", got)
		}
	})
}

func TestMatchIn_PrefersExactCase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "appfile.json", `{}`)
	testutil.WriteFile(t, dir, "Appfile.json", `{}`)

	got := matchIn(dir, []string{"Appfile.json"})
	if filepath.Base(got) != "Appfile.json" {
		// Case-insensitive filesystems hold only one of the two files.
		if got == "" {
			t.Errorf("matchIn() missed")
		}
	}
}
