// SPDX-License-Identifier: MPL-2.0

package liftoff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"dario.cat/mergo"

	"github.com/invowk/liftoff/pkg/envpath"
	"github.com/invowk/liftoff/pkg/events"
	"github.com/invowk/liftoff/pkg/extends"
	"github.com/invowk/liftoff/pkg/loaders"
	"github.com/invowk/liftoff/pkg/preload"
	"github.com/invowk/liftoff/pkg/respawn"
	"github.com/invowk/liftoff/pkg/types"
)

var (
	// ErrNoCallback is returned by Prepare and Execute when no function is given.
	ErrNoCallback = errors.New("a callback function is required")

	// ErrRespawnLoop is returned by Execute when a respawned child still
	// lacks required flags.
	ErrRespawnLoop = errors.New("respawned process still lacks required flags")

	// ErrNoConfigName is returned by New when neither Name nor ConfigName is set.
	ErrNoConfigName = envpath.ErrNoConfigName
	// ErrNoExtensions is returned when the extension list is empty.
	ErrNoExtensions = envpath.ErrNoExtensions
)

type (
	// Options describe the hosted tool.
	Options struct {
		// Name is the tool name. It is the default for ConfigName (with a
		// "file" suffix), ModuleName and ProcessTitle.
		Name string `json:"name,omitempty"`
		// ProcessTitle is reported in the environment. It is not applied
		// to the running process.
		ProcessTitle string `json:"processTitle,omitempty"`
		// ModuleName is the name of the tool's local module.
		ModuleName string `json:"moduleName,omitempty"`
		// ModulesDir is the directory local modules are installed into.
		ModulesDir string `json:"modulesDir,omitempty"`
		// Manifest is the module manifest file name.
		Manifest string `json:"manifest,omitempty"`
		// ConfigName is the stem of the project configuration file.
		ConfigName string `json:"configName,omitempty"`
		// Extensions are the configuration extensions, in preference order.
		Extensions loaders.Extensions `json:"extensions,omitempty"`
		// SearchPaths are searched for the configuration file after the
		// process directory.
		SearchPaths []string `json:"searchPaths,omitempty"`
		// ConfigFiles declares extendable configuration files by name.
		ConfigFiles extends.Spec `json:"configFiles,omitempty"`
		// Flags yields the runtime flags the tool must run with.
		Flags respawn.FlagsFunc `json:"-"`
		// ValueFlags are runtime flags whose value may be the next token.
		// Defaults to respawn.DefaultValueFlags.
		ValueFlags []string `json:"valueFlags,omitempty"`
		// Completions handles shell completion requests in Prepare.
		Completions func(ctx context.Context, kind string) error `json:"-"`
	}

	// Option configures the collaborators of a Liftoff.
	Option func(*Liftoff)

	// Respawner runs a corrected invocation as a child process.
	Respawner interface {
		Respawn(argv []string, onStart func(*os.Process)) (types.ExitCode, error)
	}

	// Liftoff bootstraps one tool invocation. Create it with New.
	Liftoff struct {
		opts         Options
		emitter      *events.Emitter
		registryOpts []loaders.RegistryOption
		registry     *loaders.Registry
		loader       *extends.Loader
		requirer     preload.Requirer
		respawner    Respawner
		getwd        func() (string, error)
		respawned    func() bool
	}
)

// WithEmitter makes the instance emit on em instead of a private emitter.
func WithEmitter(em *events.Emitter) Option {
	return func(l *Liftoff) { l.emitter = em }
}

// WithRespawner replaces the child process runner.
func WithRespawner(r Respawner) Option {
	return func(l *Liftoff) { l.respawner = r }
}

// WithRequirer replaces the module preloader's requirer.
func WithRequirer(r preload.Requirer) Option {
	return func(l *Liftoff) { l.requirer = r }
}

// WithGetwd replaces the function that reports the process directory.
func WithGetwd(fn func() (string, error)) Option {
	return func(l *Liftoff) { l.getwd = fn }
}

// WithCompletions sets the shell completion handler used by Prepare,
// replacing Options.Completions.
func WithCompletions(fn func(ctx context.Context, kind string) error) Option {
	return func(l *Liftoff) { l.opts.Completions = fn }
}

// WithLoaderModules adds loader modules to the instance's loader catalog.
func WithLoaderModules(modules map[string]loaders.Module) Option {
	return func(l *Liftoff) {
		for name, m := range modules {
			l.registryOpts = append(l.registryOpts, loaders.WithModule(name, m))
		}
	}
}

// New creates a Liftoff for opts. Empty fields are filled with defaults.
func New(opts Options, options ...Option) (*Liftoff, error) {
	if opts.Name == "" && opts.ConfigName == "" {
		return nil, ErrNoConfigName
	}

	defaults := Options{
		ProcessTitle: opts.Name,
		ModuleName:   opts.Name,
		ModulesDir:   envpath.DefaultModulesDir,
		Manifest:     envpath.DefaultManifest,
		Extensions:   loaders.Defaults(),
		ValueFlags:   slices.Clone(respawn.DefaultValueFlags),
	}
	if opts.Name != "" {
		defaults.ConfigName = opts.Name + "file"
	}
	if err := mergo.Merge(&opts, defaults); err != nil {
		return nil, fmt.Errorf("applying default options: %w", err)
	}
	if len(opts.Extensions) == 0 {
		return nil, ErrNoExtensions
	}

	l := &Liftoff{
		opts:      opts,
		emitter:   events.NewEmitter(),
		getwd:     os.Getwd,
		respawned: respawn.IsRespawned,
	}
	for _, o := range options {
		o(l)
	}
	l.registry = loaders.NewRegistry(l.emitter, l.registryOpts...)
	if l.requirer == nil {
		l.requirer = preload.DefaultRequirer{Registry: l.registry}
	}
	if l.respawner == nil {
		l.respawner = respawn.NewExecutor()
	}
	l.loader = extends.NewLoader(l.registry, l.emitter)

	return l, nil
}

// Options returns the effective options, defaults included.
func (l *Liftoff) Options() Options { return l.opts }

// Registry returns the instance's loader registry.
func (l *Liftoff) Registry() *loaders.Registry { return l.registry }

// Subscribe registers a listener for the instance's events.
func (l *Liftoff) Subscribe(listener events.Listener) (unsubscribe func()) {
	return l.emitter.Subscribe(listener)
}
