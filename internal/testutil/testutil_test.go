// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := WriteFile(t, dir, filepath.Join("a", "b", "c.json"), `{}`)

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("content = %q, want {}", data)
	}
}

func TestMustUnsetenv_Restores(t *testing.T) {
	const key = "LIFTOFF_TESTUTIL_SETENV"
	t.Cleanup(MustSetenv(t, key, "1"))

	restore := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Fatalf("%s still set", key)
	}
	restore()
	if got := os.Getenv(key); got != "1" {
		t.Errorf("%s = %q after restore, want 1", key, got)
	}
}
