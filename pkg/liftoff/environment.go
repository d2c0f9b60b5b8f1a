// SPDX-License-Identifier: MPL-2.0

package liftoff

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"github.com/invowk/liftoff/pkg/envpath"
	"github.com/invowk/liftoff/pkg/extends"
	"github.com/invowk/liftoff/pkg/preload"
)

type (
	// EnvOptions are the per-invocation inputs of BuildEnvironment.
	EnvOptions struct {
		// Cwd is an explicit working directory.
		Cwd string `env:"LIFTOFF_CWD"`
		// ConfigPath is an explicit project configuration file.
		ConfigPath string `env:"LIFTOFF_CONFIG"`
		// Require lists modules to preload.
		Require []string `env:"LIFTOFF_REQUIRE" envSeparator:","`
		// Completion requests shell completions of the given kind instead
		// of a normal run.
		Completion string
		// Argv is the invocation being bootstrapped: the runtime, its
		// flags, the script and the script's arguments. Defaults to os.Args.
		Argv []string
	}

	// Environment is the resolved state of one invocation. It is not
	// modified after BuildEnvironment returns, and its accessors return
	// copies.
	Environment struct {
		cwd              string
		require          []string
		configNameSearch []string
		configPath       string
		configBase       string
		modulePath       string
		modulePackage    map[string]any
		configs          map[string]extends.Config
		configFiles      map[string]string
		argv             []string
		processTitle     string
	}
)

// BuildEnvironment resolves the working directory, the configuration file,
// the local module and the declared configuration files. It neither
// respawns nor preloads.
func (l *Liftoff) BuildEnvironment(eo EnvOptions) (*Environment, error) {
	paths, err := envpath.Resolve(envpath.Options{
		Cwd:         eo.Cwd,
		ConfigPath:  eo.ConfigPath,
		ConfigName:  l.opts.ConfigName,
		Extensions:  l.opts.Extensions.Names(),
		SearchPaths: l.opts.SearchPaths,
		Getwd:       l.getwd,
	})
	if err != nil {
		return nil, err
	}

	module := envpath.FindModule(paths, envpath.ModuleOptions{
		Name:     l.opts.ModuleName,
		Dir:      l.opts.ModulesDir,
		Manifest: l.opts.Manifest,
	}, l.registry)
	if module.SelfHosted {
		paths.Cwd = paths.ConfigBase
	}

	configs, files := l.loader.LoadConfigFiles(l.opts.ConfigFiles, extends.Options{
		Cwd:        eo.Cwd,
		ConfigPath: eo.ConfigPath,
		Extensions: l.opts.Extensions,
		Getwd:      l.getwd,
	})

	argv := eo.Argv
	if argv == nil {
		argv = os.Args
	}

	return &Environment{
		cwd:              paths.Cwd,
		require:          preload.Unique(eo.Require),
		configNameSearch: paths.ConfigNameSearch,
		configPath:       paths.ConfigPath,
		configBase:       paths.ConfigBase,
		modulePath:       module.Path,
		modulePackage:    module.Package,
		configs:          configs,
		configFiles:      files,
		argv:             slices.Clone(argv),
		processTitle:     l.opts.ProcessTitle,
	}, nil
}

// Cwd returns the absolute working directory.
func (e *Environment) Cwd() string { return e.cwd }

// Require returns the modules to preload, without duplicates.
func (e *Environment) Require() []string { return slices.Clone(e.require) }

// ConfigNameSearch returns the candidate configuration file names.
func (e *Environment) ConfigNameSearch() []string { return slices.Clone(e.configNameSearch) }

// ConfigPath returns the configuration file, or "" when none was found.
func (e *Environment) ConfigPath() string { return e.configPath }

// ConfigBase returns the configuration file's directory, or "".
func (e *Environment) ConfigBase() string { return e.configBase }

// ModulePath returns the local module's entry point, or "".
func (e *Environment) ModulePath() string { return e.modulePath }

// ModulePackage returns the local module's manifest. It is empty when no
// module was found.
func (e *Environment) ModulePackage() map[string]any { return cloneMap(e.modulePackage) }

// Configs returns every declared configuration by name.
func (e *Environment) Configs() map[string]extends.Config {
	out := make(map[string]extends.Config, len(e.configs))
	for name, cfg := range e.configs {
		out[name] = extends.Config(cloneMap(cfg))
	}
	return out
}

// Config returns the merged configuration declared as name.
func (e *Environment) Config(name string) (extends.Config, bool) {
	cfg, ok := e.configs[name]
	if !ok {
		return nil, false
	}
	return extends.Config(cloneMap(cfg)), true
}

// ConfigFiles returns the entry file loaded for each declared configuration.
func (e *Environment) ConfigFiles() map[string]string { return maps.Clone(e.configFiles) }

// Argv returns the invocation being bootstrapped.
func (e *Environment) Argv() []string { return slices.Clone(e.argv) }

// ProcessTitle returns the configured process title.
func (e *Environment) ProcessTitle() string { return e.processTitle }

// MarshalJSON implements json.Marshaler.
func (e *Environment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cwd              string                    `json:"cwd"`
		Require          []string                  `json:"require"`
		ConfigNameSearch []string                  `json:"configNameSearch"`
		ConfigPath       string                    `json:"configPath,omitempty"`
		ConfigBase       string                    `json:"configBase,omitempty"`
		ModulePath       string                    `json:"modulePath,omitempty"`
		ModulePackage    map[string]any            `json:"modulePackage"`
		Configs          map[string]extends.Config `json:"configs"`
		ConfigFiles      map[string]string         `json:"configFiles"`
		Argv             []string                  `json:"argv"`
		ProcessTitle     string                    `json:"processTitle,omitempty"`
	}{
		Cwd:              e.cwd,
		Require:          e.require,
		ConfigNameSearch: e.configNameSearch,
		ConfigPath:       e.configPath,
		ConfigBase:       e.configBase,
		ModulePath:       e.modulePath,
		ModulePackage:    e.modulePackage,
		Configs:          e.configs,
		ConfigFiles:      e.configFiles,
		Argv:             e.argv,
		ProcessTitle:     e.processTitle,
	})
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	// Merging into an empty map deep-copies nested maps and slices.
	return extends.DefaultsDeep(nil, m)
}
