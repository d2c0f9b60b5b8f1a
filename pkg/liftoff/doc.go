// SPDX-License-Identifier: MPL-2.0

// Package liftoff bootstraps the runtime environment of a command-line tool.
//
// A Liftoff instance describes the hosted tool: its name, the configuration
// file it looks for, the extensions it understands, extra configuration
// files with extends chains, and the runtime flags it must run with.
// BuildEnvironment resolves all of that into an Environment without side
// effects. Execute then checks the invocation against the required flags:
// when flags are missing the invocation is run again as a child process with
// a corrected argument vector and its exit code is reported back; otherwise
// the requested modules are preloaded and the caller's function runs.
//
// Typical use:
//
//	lo, err := liftoff.New(liftoff.Options{Name: "hacker", Flags: respawn.Static("--harmony")})
//	...
//	err = lo.Prepare(ctx, liftoff.EnvOptions{}, func(ctx context.Context, env *liftoff.Environment) error {
//		out, err := lo.Execute(ctx, env, nil, run)
//		...
//	})
package liftoff
