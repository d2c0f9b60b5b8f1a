// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/liftoff/internal/config"
)

// newConfigCommand creates the `liftoff config` command tree for the CLI's
// own settings.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage liftoff settings",
		Long: `Manage liftoff settings.

Settings are stored in:
  - Linux: ~/.config/liftoff/config.cue
  - macOS: ~/Library/Application Support/liftoff/config.cue
  - Windows: %APPDATA%\liftoff\config.cue

Any setting can be overridden with a LIFTOFF_* environment variable, for
example LIFTOFF_UI_VERBOSE=true or LIFTOFF_FLAGS="--harmony".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			showSettings(app.stdout, app.Settings(), app.settingsPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Create the default settings file",
		Annotations: map[string]string{annotationSettingsOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return initSettings(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Show the settings file path",
		Annotations: map[string]string{annotationSettingsOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Settings file: %s\n", path)
			if app.settingsPath != "" && app.settingsPath != path {
				fmt.Fprintf(app.stdout, "Loaded from: %s\n", app.settingsPath)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective settings as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.Settings()))
			return nil
		},
	})

	return cfgCmd
}

func showSettings(w io.Writer, cfg *config.Config, path string) {
	fmt.Fprintln(w, TitleStyle.Render("Current Settings"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintln(w, keyValue("settings file", SuccessStyle.Render(path)))
	} else {
		fmt.Fprintln(w, keyValue("settings file", SubtitleStyle.Render("(using defaults)")))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, keyValue("name", orNone(cfg.Name)))
	fmt.Fprintln(w, keyValue("config_name", orNone(cfg.ConfigName)))
	fmt.Fprintln(w, keyValue("flags", orNone(cfg.Flags)))
	fmt.Fprintln(w, keyValue("search_paths", orNone(strings.Join(cfg.SearchPaths, ", "))))
	fmt.Fprintln(w, keyValue("preload", orNone(strings.Join(cfg.Preload, ", "))))

	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("extensions"))
	for _, e := range cfg.Extensions {
		loaders := "(native)"
		if len(e.Loaders) > 0 {
			loaders = strings.Join(e.Loaders, ", ")
		}
		fmt.Fprintf(w, "  %s\n", keyValue(e.Ext, SuccessStyle.Render(loaders)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("config_files"))
	if len(cfg.ConfigFiles) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none declared)"))
	}
	for _, name := range sortedKeys(cfg.ConfigFiles) {
		paths := make([]string, 0, len(cfg.ConfigFiles[name]))
		for _, entry := range cfg.ConfigFiles[name] {
			p := entry.Path
			if entry.Name != "" {
				p += "/" + entry.Name
			}
			paths = append(paths, p)
		}
		fmt.Fprintf(w, "  %s\n", keyValue(name, SuccessStyle.Render(strings.Join(paths, ", "))))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  %s\n", keyValue("color_scheme", SuccessStyle.Render(cfg.UI.ColorScheme.String())))
	fmt.Fprintf(w, "  %s\n", keyValue("verbose", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose))))
	fmt.Fprintf(w, "  %s\n", keyValue("log_level", orNone(cfg.UI.LogLevel.String())))
}

func initSettings(w io.Writer) error {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	if !created {
		fmt.Fprintf(w, "%s Settings already exist at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(w, "%s Created default settings at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
