// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// annotationSettingsOptional marks commands that run with default settings
// when the settings file cannot be loaded.
const annotationSettingsOptional = "liftoff/settings-optional"

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	cfgFile string
	verbose bool
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "liftoff",
		Short: "Bootstrap a CLI tool: find its config, load it, respawn with the right flags",
		Long: TitleStyle.Render("liftoff") + SubtitleStyle.Render(" - bootstrap a CLI tool") + `

liftoff prepares an invocation of a tool running on a runtime such as node,
python or a JVM. It finds the tool's project config file, loads named config
files following their 'extends' chains, preloads requested modules, and
restarts the runtime when it lacks the flags the tool requires.

` + SubtitleStyle.Render("Examples:") + `
  liftoff run -- node --harmony cli.js build    Run a tool invocation
  liftoff env                                   Show the resolved environment
  liftoff configs tasks --format yaml           Print a merged config file
  liftoff flags -- node cli.js                  Show the respawn decision
  liftoff config show                           Show liftoff settings`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := app.loadSettings(cmd.Context(), flags.cfgFile, flags.verbose)
			if err != nil && cmd.Annotations[annotationSettingsOptional] == "true" {
				// Keep the defaults so broken settings can be inspected and recreated.
				app.verbose = flags.verbose
				fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
				return nil
			}
			return err
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "settings", "", "settings file (default is $HOME/.config/liftoff/config.cue)")

	rootCmd.AddCommand(
		newRunCommand(app),
		newEnvCommand(app),
		newConfigsCommand(app),
		newFlagsCommand(app),
		newValidateCommand(app),
		newConfigCommand(app),
		newCompletionCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the resulting code. It is called by
// main.main.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose)
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
