// SPDX-License-Identifier: MPL-2.0

package extends

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/invowk/liftoff/pkg/events"
	"github.com/invowk/liftoff/pkg/fspath"
	"github.com/invowk/liftoff/pkg/loaders"
	"github.com/invowk/liftoff/pkg/locate"
)

// KeyExtends is the configuration key that links a file to its parents.
const KeyExtends = "extends"

type (
	// Config is a merged configuration document.
	Config map[string]any

	// Spec maps a logical configuration name to the locations searched for
	// it, in order.
	Spec map[string][]locate.Location

	// Options are the invocation-wide defaults for a load.
	Options struct {
		// Cwd is the directory locations are resolved from. When empty the
		// directory of ConfigPath is used, then the process directory.
		Cwd string
		// ConfigPath is the project configuration file, if one was given.
		ConfigPath string
		// Extensions are tried for locations that declare none.
		Extensions loaders.Extensions
		// Getwd returns the process directory. Defaults to os.Getwd.
		Getwd func() (string, error)
	}

	// Loader resolves and merges extendable configuration files.
	Loader struct {
		registry *loaders.Registry
		emitter  *events.Emitter
	}

	// traversal is the state of one top-level load. visited holds the
	// absolute paths already merged in this load only.
	traversal struct {
		name    string
		visited map[string]struct{}
	}
)

// NewLoader creates a Loader that decodes files through registry and reports
// misses, failures and cycles to emitter. emitter may be nil.
func NewLoader(registry *loaders.Registry, emitter *events.Emitter) *Loader {
	return &Loader{registry: registry, emitter: emitter}
}

// LoadConfigFiles loads every name in spec. Both returned maps hold every
// name: configs maps it to the merged document (empty when nothing could be
// loaded) and files to the entry file that was used ("" when none).
func (l *Loader) LoadConfigFiles(spec Spec, opts Options) (configs map[string]Config, files map[string]string) {
	configs = make(map[string]Config, len(spec))
	files = make(map[string]string, len(spec))

	cwd := baseDir(opts)

	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		defaults := locate.Location{Name: name, Cwd: cwd, Extensions: opts.Extensions}
		configs[name], files[name] = l.loadName(name, spec[name], defaults)
	}
	return configs, files
}

// LoadFile loads a single location and its extends chain. ok is false when
// the location does not resolve to a file.
func (l *Loader) LoadFile(name string, loc, defaults locate.Location) (cfg Config, path string, ok bool) {
	found, ok := locate.Find(loc, defaults)
	if !ok {
		l.emitter.Emit(events.ConfigMiss{Config: name, Ref: loc.String()})
		return nil, "", false
	}

	t := &traversal{name: name, visited: make(map[string]struct{})}
	acc, _ := l.visit(t, map[string]any{}, found, loc, defaults, false)
	if acc == nil {
		return Config{}, found.Path, true
	}
	delete(acc, KeyExtends)
	return Config(acc), found.Path, true
}

func (l *Loader) loadName(name string, locs []locate.Location, defaults locate.Location) (Config, string) {
	for _, loc := range locs {
		if cfg, path, ok := l.LoadFile(name, loc, defaults); ok {
			return cfg, path
		}
	}
	return Config{}, ""
}

func baseDir(opts Options) string {
	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	wd, err := getwd()
	if err != nil {
		wd = ""
	}

	dir := opts.Cwd
	if dir == "" && opts.ConfigPath != "" {
		dir = filepath.Dir(opts.ConfigPath)
	}
	if dir == "" {
		return wd
	}
	if abs, err := fspath.Resolve(wd, dir); err == nil {
		return abs
	}
	return dir
}

// visit merges the file found for loc into acc and follows its extends
// references. It returns false when an import failed; for the entry file
// the returned map is then nil, for an extends link it is the accumulator
// as it stood before the failing link and the traversal stops.
func (l *Loader) visit(t *traversal, acc map[string]any, found locate.Found, loc, defaults locate.Location, link bool) (map[string]any, bool) {
	if _, seen := t.visited[found.Path]; seen {
		l.emitter.Emit(events.ConfigCycle{Config: t.name, Path: found.Path})
		return acc, true
	}
	t.visited[found.Path] = struct{}{}

	if found.Extension.HasLoaders() {
		cwd := loc.Cwd
		if cwd == "" {
			cwd = defaults.Cwd
		}
		// A registration failure surfaces as the import error below.
		_ = l.registry.Register(found.Extension.Ext, found.Extension.Loaders, cwd)
	}

	value, err := l.registry.Require(found.Path)
	if err != nil {
		l.emitter.Emit(events.ConfigFailure{Config: t.name, Path: found.Path, Extends: link, Err: err})
		if !link {
			return nil, false
		}
		return acc, false
	}

	loaded, ok := value.(map[string]any)
	if !ok {
		return acc, true
	}
	acc = DefaultsDeep(acc, loaded)

	refs, err := locate.FromValue(loaded[KeyExtends])
	if err != nil {
		l.emitter.Emit(events.ConfigFailure{Config: t.name, Path: found.Path, Extends: true, Err: err})
		return acc, true
	}

	exts := loc.Extensions
	if len(exts) == 0 {
		exts = defaults.Extensions
	}
	parentDefaults := locate.Location{Cwd: filepath.Dir(found.Path), Extensions: exts}

	for _, ref := range refs {
		parent, ok := locate.Find(ref, parentDefaults)
		if !ok {
			l.emitter.Emit(events.ConfigMiss{Config: t.name, Ref: ref.String(), Extends: true})
			continue
		}
		if acc, ok = l.visit(t, acc, parent, ref, parentDefaults, true); !ok {
			return acc, false
		}
	}
	return acc, true
}
