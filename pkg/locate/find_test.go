// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"path/filepath"
	"testing"

	"github.com/invowk/liftoff/internal/testutil"
	"github.com/invowk/liftoff/pkg/loaders"
)

func TestFind(t *testing.T) {
	t.Parallel()

	dir := testutil.EvalDir(t, t.TempDir())
	testutil.WriteFile(t, dir, "app.json", `{}`)
	testutil.WriteFile(t, dir, "app.yaml", "a: 1\n")
	testutil.WriteFile(t, dir, filepath.Join("conf", "base.toml"), "a = 1\n")
	testutil.WriteFile(t, dir, filepath.Join("conf", "exact.yaml"), "a: 1\n")

	exts := loaders.Extensions{
		{Ext: ".json"},
		{Ext: ".yaml", Loaders: []string{loaders.ModuleYAML}},
		{Ext: ".toml", Loaders: []string{loaders.ModuleTOML}},
	}

	tests := []struct {
		name     string
		loc      Location
		defaults Location
		wantPath string
		wantExt  string
		wantOK   bool
	}{
		{
			name:     "name in directory picks first extension",
			loc:      Location{Path: "."},
			defaults: Location{Name: "app", Cwd: dir, Extensions: exts},
			wantPath: filepath.Join(dir, "app.json"),
			wantExt:  ".json",
			wantOK:   true,
		},
		{
			name:     "extension order decides",
			loc:      Location{Path: ".", Extensions: loaders.Extensions{exts[1], exts[0]}},
			defaults: Location{Name: "app", Cwd: dir, Extensions: exts},
			wantPath: filepath.Join(dir, "app.yaml"),
			wantExt:  ".yaml",
			wantOK:   true,
		},
		{
			name:     "path without name is a file stem",
			loc:      Location{Path: "conf/base"},
			defaults: Location{Cwd: dir, Extensions: exts},
			wantPath: filepath.Join(dir, "conf", "base.toml"),
			wantExt:  ".toml",
			wantOK:   true,
		},
		{
			name:     "path with an extension is used as is",
			loc:      Location{Path: "conf/exact.yaml"},
			defaults: Location{Cwd: dir, Extensions: exts},
			wantPath: filepath.Join(dir, "conf", "exact.yaml"),
			wantExt:  ".yaml",
			wantOK:   true,
		},
		{
			name:     "location cwd overrides default",
			loc:      Location{Path: "base", Cwd: filepath.Join(dir, "conf")},
			defaults: Location{Cwd: "/nowhere", Extensions: exts},
			wantPath: filepath.Join(dir, "conf", "base.toml"),
			wantExt:  ".toml",
			wantOK:   true,
		},
		{
			name:     "find up from a nested directory",
			loc:      Location{Path: "conf/base", FindUp: true},
			defaults: Location{Cwd: filepath.Join(dir, "conf"), Extensions: exts},
			wantPath: filepath.Join(dir, "conf", "base.toml"),
			wantExt:  ".toml",
			wantOK:   true,
		},
		{
			name:     "miss",
			loc:      Location{Path: "missing"},
			defaults: Location{Cwd: dir, Extensions: exts},
		},
		{
			name:     "no extensions requires an exact file",
			loc:      Location{Path: "app.json"},
			defaults: Location{Cwd: dir},
			wantPath: filepath.Join(dir, "app.json"),
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Find(tt.loc, tt.defaults)
			if ok != tt.wantOK {
				t.Fatalf("Find() ok = %v, want %v (got %+v)", ok, tt.wantOK, got)
			}
			if !ok {
				return
			}
			if got.Path != tt.wantPath {
				t.Errorf("Find() path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Extension.Ext != tt.wantExt {
				t.Errorf("Find() extension = %q, want %q", got.Extension.Ext, tt.wantExt)
			}
		})
	}
}

func TestFind_ExtensionCarriesLoaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "cfg.toml", "a = 1\n")

	got, ok := Find(Location{Path: "cfg"}, Location{Cwd: dir, Extensions: loaders.Defaults()})
	if !ok {
		t.Fatal("Find() missed cfg.toml")
	}
	if !got.Extension.HasLoaders() || got.Extension.Loaders[0] != loaders.ModuleTOML {
		t.Errorf("Find() extension = %+v, want toml loaders", got.Extension)
	}
}
