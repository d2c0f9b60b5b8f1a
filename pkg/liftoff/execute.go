// SPDX-License-Identifier: MPL-2.0

package liftoff

import (
	"context"
	"os"

	"github.com/invowk/liftoff/pkg/events"
	"github.com/invowk/liftoff/pkg/preload"
	"github.com/invowk/liftoff/pkg/respawn"
	"github.com/invowk/liftoff/pkg/types"
)

type (
	// PrepareFunc receives the resolved environment.
	PrepareFunc func(ctx context.Context, env *Environment) error

	// ExecuteFunc runs the tool once the invocation carries its flags.
	// argv is the invocation as reconciled.
	ExecuteFunc func(ctx context.Context, env *Environment, argv []string) error

	// Outcome reports what Execute did.
	Outcome struct {
		// Respawned is true when a child process ran instead of fn.
		Respawned bool
		// ExitCode is the child's exit code when Respawned.
		ExitCode types.ExitCode
		// Argv is the reconciled invocation.
		Argv []string
		// Preloaded holds one entry per preloaded module.
		Preloaded []preload.Outcome
	}
)

// Prepare builds the environment for eo and passes it to fn. When
// eo.Completion is set and the instance has a Completions handler, the
// handler runs instead.
func (l *Liftoff) Prepare(ctx context.Context, eo EnvOptions, fn PrepareFunc) error {
	if fn == nil {
		return ErrNoCallback
	}
	if eo.Completion != "" && l.opts.Completions != nil {
		return l.opts.Completions(ctx, eo.Completion)
	}

	env, err := l.BuildEnvironment(eo)
	if err != nil {
		return err
	}
	return fn(ctx, env)
}

// Execute reconciles env's invocation with the required flags and forced.
//
// When flags are missing, the corrected invocation runs as a child process,
// a respawn event is emitted once it started, and Execute returns the
// child's exit code without calling fn. Otherwise the requested modules are
// preloaded from env.Cwd(), the configuration file's loader is registered,
// and fn runs.
func (l *Liftoff) Execute(ctx context.Context, env *Environment, forced []string, fn ExecuteFunc) (Outcome, error) {
	if fn == nil {
		return Outcome{}, ErrNoCallback
	}

	required, err := respawn.ResolveFlags(ctx, l.opts.Flags)
	if err != nil {
		return Outcome{}, err
	}

	res := respawn.Reconcile(required, env.argv, forced, respawn.WithValueFlags(l.opts.ValueFlags...))
	if !res.Ready {
		if l.respawned() {
			return Outcome{Argv: res.Argv}, ErrRespawnLoop
		}
		code, err := l.respawner.Respawn(res.Argv, func(p *os.Process) {
			l.emitter.Emit(events.Respawn{Argv: res.Argv, Process: p})
		})
		return Outcome{Respawned: true, ExitCode: code, Argv: res.Argv}, err
	}

	preloaded := preload.New(l.requirer, l.emitter).Preload(env.require, env.cwd)
	l.registerConfigLoader(env)

	return Outcome{Argv: res.Argv, Preloaded: preloaded}, fn(ctx, env, res.Argv)
}

func (l *Liftoff) registerConfigLoader(env *Environment) {
	if env.configPath == "" {
		return
	}
	ext, ok := l.opts.Extensions.Match(env.configPath)
	if !ok || !ext.HasLoaders() {
		return
	}
	// Failures are reported as loader:failure events.
	_ = l.registry.Register(ext.Ext, ext.Loaders, env.cwd)
}
