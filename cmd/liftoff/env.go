// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/liftoff/pkg/liftoff"
)

type envFlags struct {
	invocationFlags
	json bool
}

func newEnvCommand(app *App) *cobra.Command {
	flags := &envFlags{}

	cmd := &cobra.Command{
		Use:   "env [flags] [-- <runtime> [runtime flags] <script> [args]]",
		Short: "Show the resolved environment of an invocation",
		Long: `Show the resolved environment of an invocation without running it:
working directory, config file, local module, declared config files and the
modules that would be preloaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showEnvironment(cmd.Context(), app, flags, args)
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the environment as JSON")

	return cmd
}

func showEnvironment(ctx context.Context, app *App, flags *envFlags, argv []string) error {
	lo, err := app.newLiftoff()
	if err != nil {
		return actionable(err, "configure bootstrap")
	}
	eo, _, err := app.invocation(&flags.invocationFlags, argv)
	if err != nil {
		return actionable(err, "read invocation")
	}

	return lo.Prepare(ctx, eo, func(_ context.Context, env *liftoff.Environment) error {
		if flags.json {
			enc := json.NewEncoder(app.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(env)
		}
		printEnvironment(app.stdout, env)
		return nil
	})
}

func printEnvironment(w io.Writer, env *liftoff.Environment) {
	fmt.Fprintln(w, TitleStyle.Render("Environment"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, keyValue("cwd", orNone(env.Cwd())))
	fmt.Fprintln(w, keyValue("config path", orNone(env.ConfigPath())))
	fmt.Fprintln(w, keyValue("config base", orNone(env.ConfigBase())))
	fmt.Fprintln(w, keyValue("searched names", orNone(strings.Join(env.ConfigNameSearch(), ", "))))
	fmt.Fprintln(w, keyValue("module path", orNone(env.ModulePath())))
	fmt.Fprintln(w, keyValue("process title", orNone(env.ProcessTitle())))
	fmt.Fprintln(w, keyValue("preload", orNone(strings.Join(env.Require(), ", "))))

	files := env.ConfigFiles()
	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("config files"))
	if len(files) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none declared)"))
		return
	}
	for _, name := range sortedKeys(files) {
		fmt.Fprintf(w, "  %s\n", keyValue(name, orNone(files[name])))
	}
}
