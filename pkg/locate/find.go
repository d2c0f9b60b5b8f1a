// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"path/filepath"

	"github.com/invowk/liftoff/pkg/fspath"
	"github.com/invowk/liftoff/pkg/loaders"
)

// Found is the outcome of a successful Find.
type Found struct {
	// Path is the absolute path of the file.
	Path string
	// Extension is the declaration whose extension matched Path. It is the
	// zero value when the location declared no extensions.
	Extension loaders.Extension
}

// Find resolves loc, with empty fields taken from defaults, to an existing
// file. The file is Path (joined with Name when set) if that already carries
// one of the extensions, otherwise the first of Path+ext that exists.
func Find(loc, defaults Location) (Found, bool) {
	l := loc.withDefaults(defaults)
	if l.Path == "" {
		l.Path = "."
	}

	base, err := fspath.Resolve("", l.Cwd)
	if err != nil {
		return Found{}, false
	}

	if !l.FindUp {
		return findIn(base, l)
	}

	for dir := base; ; {
		if f, ok := findIn(dir, l); ok {
			return f, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Found{}, false
		}
		dir = parent
	}
}

func findIn(dir string, l Location) (Found, bool) {
	target, err := fspath.Resolve(dir, l.Path)
	if err != nil {
		return Found{}, false
	}
	if l.Name != "" {
		target = filepath.Join(target, l.Name)
	}

	if len(l.Extensions) == 0 {
		if fspath.IsFile(target) {
			return Found{Path: target}, true
		}
		return Found{}, false
	}

	if ext, ok := l.Extensions.Match(target); ok && fspath.IsFile(target) {
		return Found{Path: target, Extension: ext}, true
	}
	for _, ext := range l.Extensions {
		if p := target + ext.Ext; fspath.IsFile(p) {
			return Found{Path: p, Extension: ext}, true
		}
	}
	return Found{}, false
}
