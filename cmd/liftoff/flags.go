// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/liftoff/pkg/respawn"
)

type (
	flagsFlags struct {
		invocationFlags
		json bool
	}

	// flagsDecision is the JSON form of a reconcile decision.
	flagsDecision struct {
		Required []string `json:"required"`
		Forced   []string `json:"forced"`
		Ready    bool     `json:"ready"`
		Argv     []string `json:"argv"`
	}
)

func newFlagsCommand(app *App) *cobra.Command {
	flags := &flagsFlags{}

	cmd := &cobra.Command{
		Use:   "flags [flags] -- <runtime> [runtime flags] <script> [args]",
		Short: "Show whether an invocation would be respawned",
		Long: `Reconcile an invocation with the required and forced runtime flags and
print the decision without starting anything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showFlags(cmd.Context(), app, flags, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	flags.bindForced(cmd)
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the decision as JSON")

	return cmd
}

func showFlags(ctx context.Context, app *App, flags *flagsFlags, argv []string) error {
	_, forced, err := app.invocation(&flags.invocationFlags, argv)
	if err != nil {
		return actionable(err, "read invocation")
	}
	lo, err := app.newLiftoff()
	if err != nil {
		return actionable(err, "configure bootstrap")
	}
	opts := lo.Options()
	required, err := respawn.ResolveFlags(ctx, opts.Flags)
	if err != nil {
		return actionable(err, "resolve required flags", "Check the 'flags' setting")
	}

	res := respawn.Reconcile(required, argv, forced, respawn.WithValueFlags(opts.ValueFlags...))
	decision := flagsDecision{
		Required: nonNil(required),
		Forced:   nonNil(forced),
		Ready:    res.Ready,
		Argv:     res.Argv,
	}

	if flags.json {
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(decision)
	}

	status := SuccessStyle.Render("ready")
	if !res.Ready {
		status = WarningStyle.Render("respawn")
	}
	fmt.Fprintln(app.stdout, keyValue("required", orNone(strings.Join(decision.Required, " "))))
	fmt.Fprintln(app.stdout, keyValue("forced", orNone(strings.Join(decision.Forced, " "))))
	fmt.Fprintln(app.stdout, keyValue("decision", status))
	fmt.Fprintln(app.stdout, keyValue("argv", SuccessStyle.Render(strings.Join(res.Argv, " "))))
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
