// SPDX-License-Identifier: MPL-2.0

package envpath

import (
	"path/filepath"

	"github.com/invowk/liftoff/pkg/fspath"
	"github.com/invowk/liftoff/pkg/loaders"
	"github.com/invowk/liftoff/pkg/locate"
)

const (
	// DefaultModulesDir is the directory local modules are installed into.
	DefaultModulesDir = "node_modules"
	// DefaultManifest is the module manifest file name.
	DefaultManifest = "package.json"
	// DefaultMain is the entry point used when a manifest names none.
	DefaultMain = "index"
)

type (
	// ModuleOptions describe how the hosted tool's module is laid out.
	ModuleOptions struct {
		Name     string
		Dir      string
		Manifest string
	}

	// Module is a resolved local module.
	Module struct {
		// Path is the module entry point, "" when no module was found.
		Path string
		// Package is the decoded manifest. It is empty, never nil, when no
		// module was found.
		Package map[string]any
		// SelfHosted is true when the project itself is the module.
		SelfHosted bool
	}
)

// FindModule looks for <dir>/<Dir>/<Name>/<Manifest> in the configuration
// directory (or the working directory) and its parents. When none exists but
// a configuration file was found, a manifest above the configuration file
// whose "name" equals opts.Name makes the project its own module.
// Manifests are decoded through registry.
func FindModule(p Paths, opts ModuleOptions, registry *loaders.Registry) Module {
	none := Module{Package: map[string]any{}}
	if opts.Name == "" {
		return none
	}
	if opts.Dir == "" {
		opts.Dir = DefaultModulesDir
	}
	if opts.Manifest == "" {
		opts.Manifest = DefaultManifest
	}

	start := p.ConfigBase
	if start == "" {
		start = p.Cwd
	}
	if start != "" {
		for dir := start; ; {
			manifest := filepath.Join(dir, opts.Dir, opts.Name, opts.Manifest)
			if fspath.IsFile(manifest) {
				if m, ok := readManifest(manifest, registry); ok {
					return m
				}
				return none
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if p.ConfigPath == "" {
		return none
	}
	manifest := locate.Search([]string{opts.Manifest}, []string{p.ConfigBase})
	if manifest == "" {
		return none
	}
	m, ok := readManifest(manifest, registry)
	if !ok || m.Package["name"] != opts.Name {
		return none
	}
	m.SelfHosted = true
	return m
}

func readManifest(path string, registry *loaders.Registry) (Module, bool) {
	v, err := registry.Require(path)
	if err != nil {
		return Module{}, false
	}
	pkg, ok := v.(map[string]any)
	if !ok {
		return Module{}, false
	}

	main, _ := pkg["main"].(string)
	if main == "" {
		main = DefaultMain
	}
	return Module{
		Path:    filepath.Join(filepath.Dir(path), main),
		Package: pkg,
	}, true
}
