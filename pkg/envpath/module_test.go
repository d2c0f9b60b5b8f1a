// SPDX-License-Identifier: MPL-2.0

package envpath

import (
	"path/filepath"
	"testing"

	"github.com/invowk/liftoff/internal/testutil"
	"github.com/invowk/liftoff/pkg/loaders"
)

func TestFindModule(t *testing.T) {
	t.Parallel()

	root := testutil.EvalDir(t, t.TempDir())
	testutil.WriteFile(t, root, filepath.Join("node_modules", "tool", "package.json"),
		`{"name": "tool", "main": "lib/tool.js", "version": "1.2.3"}`)
	project := filepath.Join(root, "project")
	testutil.WriteFile(t, project, "Appfile.json", `{}`)

	reg := loaders.NewRegistry(nil)
	p := Paths{Cwd: project, ConfigBase: project, ConfigPath: filepath.Join(project, "Appfile.json")}

	got := FindModule(p, ModuleOptions{Name: "tool"}, reg)
	if want := filepath.Join(root, "node_modules", "tool", "lib", "tool.js"); got.Path != want {
		t.Errorf("Path = %q, want %q", got.Path, want)
	}
	if got.Package["version"] != "1.2.3" {
		t.Errorf("Package = %v", got.Package)
	}
	if got.SelfHosted {
		t.Error("SelfHosted = true for an installed module")
	}
}

func TestFindModule_DefaultMainAndCustomLayout(t *testing.T) {
	t.Parallel()

	root := testutil.EvalDir(t, t.TempDir())
	testutil.WriteFile(t, root, filepath.Join("vendor", "tool", "module.json"), `{"name": "tool"}`)

	got := FindModule(Paths{Cwd: root}, ModuleOptions{Name: "tool", Dir: "vendor", Manifest: "module.json"}, loaders.NewRegistry(nil))
	if want := filepath.Join(root, "vendor", "tool", DefaultMain); got.Path != want {
		t.Errorf("Path = %q, want %q", got.Path, want)
	}
}

func TestFindModule_SelfHosted(t *testing.T) {
	t.Parallel()

	root := testutil.EvalDir(t, t.TempDir())
	testutil.WriteFile(t, root, "package.json", `{"name": "tool", "main": "cli.js"}`)
	testutil.WriteFile(t, root, "Appfile.json", `{}`)
	p := Paths{Cwd: root, ConfigBase: root, ConfigPath: filepath.Join(root, "Appfile.json")}

	got := FindModule(p, ModuleOptions{Name: "tool"}, loaders.NewRegistry(nil))
	if !got.SelfHosted || got.Path != filepath.Join(root, "cli.js") {
		t.Errorf("FindModule() = %+v, want self-hosted cli.js", got)
	}
}

func TestFindModule_NameMismatchClearsPackage(t *testing.T) {
	t.Parallel()

	root := testutil.EvalDir(t, t.TempDir())
	testutil.WriteFile(t, root, "package.json", `{"name": "something-else"}`)
	testutil.WriteFile(t, root, "Appfile.json", `{}`)
	p := Paths{Cwd: root, ConfigBase: root, ConfigPath: filepath.Join(root, "Appfile.json")}

	got := FindModule(p, ModuleOptions{Name: "tool"}, loaders.NewRegistry(nil))
	if got.Path != "" || got.Package == nil || len(got.Package) != 0 {
		t.Errorf("FindModule() = %+v, want empty", got)
	}
}

func TestFindModule_NoName(t *testing.T) {
	t.Parallel()

	got := FindModule(Paths{Cwd: t.TempDir()}, ModuleOptions{}, loaders.NewRegistry(nil))
	if got.Path != "" || got.Package == nil {
		t.Errorf("FindModule() = %+v, want empty", got)
	}
}
