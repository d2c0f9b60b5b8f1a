// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the `liftoff completion` command.
func newCompletionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for liftoff.

` + SubtitleStyle.Render("Bash:") + `
  eval "$(liftoff completion bash)"

` + SubtitleStyle.Render("Zsh:") + `
  liftoff completion zsh > "${fpath[1]}/_liftoff"

` + SubtitleStyle.Render("Fish:") + `
  liftoff completion fish > ~/.config/fish/completions/liftoff.fish

` + SubtitleStyle.Render("PowerShell:") + `
  liftoff completion powershell | Out-String | Invoke-Expression
`,
		Annotations:           map[string]string{annotationSettingsOptional: "true"},
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), app.stdout, args[0])
		},
	}
}

// writeCompletion writes the completion script of the given shell kind.
func writeCompletion(root *cobra.Command, w io.Writer, kind string) error {
	switch kind {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported completion kind %q", kind)
	}
}
