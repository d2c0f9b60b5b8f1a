// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/liftoff/pkg/liftoff"
	"github.com/invowk/liftoff/pkg/respawn"
	"github.com/invowk/liftoff/pkg/types"
)

type (
	runFlags struct {
		invocationFlags
		completion string
	}

	// selfRespawner restarts liftoff itself with the corrected invocation
	// after "--", so the child preloads and launches the tool the way a
	// ready invocation does.
	selfRespawner struct {
		inner  liftoff.Respawner
		prefix []string
	}
)

func newRunCommand(app *App) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [flags] -- <runtime> [runtime flags] <script> [args]",
		Short: "Bootstrap and run a tool invocation",
		Long: `Bootstrap and run a tool invocation.

The invocation is checked against the runtime flags required by the settings
('flags') and those forced with --force-flag. When any is missing, the runtime
is restarted once, through liftoff, with the corrected argument vector and
its exit code is returned. Otherwise the requested modules are preloaded and the invocation
runs in the resolved working directory with LIFTOFF_CWD and LIFTOFF_CONFIG
exported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, app, flags, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	flags.bind(cmd, true)
	cmd.Flags().StringVar(&flags.completion, "completion", "", "print shell completions of this kind instead of running")
	_ = cmd.Flags().MarkHidden("completion")

	return cmd
}

func runInvocation(cmd *cobra.Command, app *App, flags *runFlags, argv []string) error {
	ctx := cmd.Context()

	lo, err := app.newLiftoff(
		liftoff.WithCompletions(func(_ context.Context, kind string) error {
			return writeCompletion(cmd.Root(), app.stdout, kind)
		}),
		liftoff.WithRespawner(&selfRespawner{inner: app.Respawner, prefix: app.selfArgv(&flags.invocationFlags)}),
	)
	if err != nil {
		return actionable(err, "configure bootstrap")
	}

	eo, forced, err := app.invocation(&flags.invocationFlags, argv)
	if err != nil {
		return actionable(err, "read invocation")
	}
	eo.Completion = flags.completion

	return lo.Prepare(ctx, eo, func(ctx context.Context, env *liftoff.Environment) error {
		outcome, err := lo.Execute(ctx, env, forced, func(ctx context.Context, env *liftoff.Environment, argv []string) error {
			code, err := app.Launcher.Launch(ctx, Launch{
				Argv: argv,
				Dir:  env.Cwd(),
				Env:  toolEnviron(env),
			})
			if err != nil {
				return actionable(err, "launch tool", "Check the runtime executable is on your PATH")
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		})
		if err != nil {
			return actionable(err, "bootstrap invocation")
		}
		for _, p := range outcome.Preloaded {
			if p.Err != nil {
				app.logger.Warn("preload failed", "module", p.ID, "err", p.Err)
			}
		}
		if outcome.Respawned && outcome.ExitCode != 0 {
			return &ExitError{Code: outcome.ExitCode}
		}
		return nil
	})
}

func (r *selfRespawner) Respawn(argv []string, onStart func(*os.Process)) (types.ExitCode, error) {
	full := append(slices.Clone(r.prefix), "--")
	return r.inner.Respawn(append(full, argv...), onStart)
}

// selfArgv is the liftoff command line that repeats the current run
// invocation up to its "--".
func (a *App) selfArgv(flags *invocationFlags) []string {
	argv := []string{a.executable, "run"}
	if a.settingsPath != "" {
		argv = append(argv, "--settings", a.settingsPath)
	}
	if a.verbose {
		argv = append(argv, "--verbose")
	}
	if flags.cwd != "" {
		argv = append(argv, "--cwd", flags.cwd)
	}
	if flags.configPath != "" {
		argv = append(argv, "--config", flags.configPath)
	}
	for _, id := range flags.require {
		argv = append(argv, "--require", id)
	}
	for _, f := range flags.forced {
		argv = append(argv, "--force-flag="+f)
	}
	return argv
}

// toolEnviron is the environment of a launched tool: the current one with
// the resolved working directory and config file exported and the respawn
// marker removed. Preloaded dotenv files have already been applied to the
// current environment.
func toolEnviron(env *liftoff.Environment) []string {
	out := slices.DeleteFunc(os.Environ(), func(kv string) bool {
		return strings.HasPrefix(kv, respawn.EnvRespawned+"=")
	})
	out = append(out, "LIFTOFF_CWD="+env.Cwd())
	if p := env.ConfigPath(); p != "" {
		out = append(out, "LIFTOFF_CONFIG="+p)
	}
	return out
}
