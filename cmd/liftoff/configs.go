// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/invowk/liftoff/pkg/liftoff"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

type configsFlags struct {
	invocationFlags
	format string
}

func newConfigsCommand(app *App) *cobra.Command {
	flags := &configsFlags{}

	cmd := &cobra.Command{
		Use:   "configs [name]",
		Short: "Print the merged config files declared in the settings",
		Long: `Print the merged config files declared in the settings ('config_files').

Each logical name is loaded from its first existing location and merged with
the files its 'extends' chain refers to; the file's own keys win. Without a
name, every declared config is printed keyed by name.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return sortedKeys(app.Settings().ConfigFiles), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigs(cmd.Context(), app, flags, args)
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().StringVarP(&flags.format, "format", "f", formatJSON, "output format: json, yaml or toml")

	return cmd
}

func printConfigs(ctx context.Context, app *App, flags *configsFlags, args []string) error {
	lo, err := app.newLiftoff()
	if err != nil {
		return actionable(err, "configure bootstrap")
	}
	eo, _, err := app.invocation(&flags.invocationFlags, nil)
	if err != nil {
		return actionable(err, "read invocation")
	}

	return lo.Prepare(ctx, eo, func(_ context.Context, env *liftoff.Environment) error {
		var out any = env.Configs()
		if len(args) == 1 {
			cfg, ok := env.Config(args[0])
			if !ok {
				return fmt.Errorf("config %q is not declared in the settings", args[0])
			}
			out = cfg
		}
		return encode(app.stdout, flags.format, out)
	})
}

// encode writes v in the named format.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unsupported format %q (valid: json, yaml, toml)", format)
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
