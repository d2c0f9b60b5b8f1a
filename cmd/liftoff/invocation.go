// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/invowk/liftoff/pkg/liftoff"
	"github.com/invowk/liftoff/pkg/respawn"
)

const (
	// EnvForcedFlags holds extra runtime flags, as shell words, forced onto
	// every invocation.
	EnvForcedFlags = "LIFTOFF_FORCED_FLAGS"
)

type (
	// invocationEnv is the part of an invocation read from the environment.
	invocationEnv struct {
		liftoff.EnvOptions
		ForcedFlags string `env:"LIFTOFF_FORCED_FLAGS"`
	}

	// invocationFlags are the command-line overrides of invocationEnv.
	invocationFlags struct {
		cwd        string
		configPath string
		require    []string
		forced     []string
	}
)

// bind registers the invocation flags on cmd.
func (f *invocationFlags) bind(cmd *cobra.Command, withForced bool) {
	cmd.Flags().StringVar(&f.cwd, "cwd", "", "working directory of the tool (env LIFTOFF_CWD)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "project config file of the tool (env LIFTOFF_CONFIG)")
	cmd.Flags().StringArrayVarP(&f.require, "require", "r", nil, "module to preload; repeatable (env LIFTOFF_REQUIRE)")
	if withForced {
		f.bindForced(cmd)
	}
}

func (f *invocationFlags) bindForced(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.forced, "force-flag", nil, "runtime flag to force onto the invocation; repeatable (env "+EnvForcedFlags+")")
}

// invocation merges environment defaults, settings preloads and flags into
// the bootstrap inputs. Flags win over the environment; preloads from the
// settings come first.
func (a *App) invocation(f *invocationFlags, argv []string) (liftoff.EnvOptions, []string, error) {
	var ie invocationEnv
	if err := env.ParseWithOptions(&ie, env.Options{
		Environment: env.ToMap(environ(a.getenv)),
	}); err != nil {
		return liftoff.EnvOptions{}, nil, fmt.Errorf("reading invocation environment: %w", err)
	}

	eo := ie.EnvOptions
	if f.cwd != "" {
		eo.Cwd = f.cwd
	}
	if f.configPath != "" {
		eo.ConfigPath = f.configPath
	}
	require := append([]string(nil), a.Settings().Preload...)
	require = append(require, eo.Require...)
	eo.Require = append(require, f.require...)
	eo.Argv = append([]string(nil), argv...)

	forced, err := respawn.SplitShell(ie.ForcedFlags)
	if err != nil {
		return liftoff.EnvOptions{}, nil, &respawn.FlagsError{Err: err}
	}
	forced = append(forced, f.forced...)

	return eo, forced, nil
}

// environ renders the invocation variables visible through getenv.
func environ(getenv func(string) string) []string {
	var out []string
	for _, key := range []string{"LIFTOFF_CWD", "LIFTOFF_CONFIG", "LIFTOFF_REQUIRE", EnvForcedFlags} {
		if v := getenv(key); v != "" {
			out = append(out, key+"="+v)
		}
	}
	return out
}
