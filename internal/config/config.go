// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/invowk/liftoff/internal/issue"
	"github.com/invowk/liftoff/pkg/cueutil"
	"github.com/invowk/liftoff/pkg/fspath"
	"github.com/invowk/liftoff/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "liftoff"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes the environment variables overriding settings,
	// e.g. LIFTOFF_UI_VERBOSE.
	EnvPrefix = "LIFTOFF"

	// keyDelimiter separates nested viper keys. Extension and config names
	// contain dots, so viper's default delimiter cannot be used.
	keyDelimiter = "::"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the liftoff configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// newViper returns a viper instance carrying the defaults and the
// LIFTOFF_* environment overrides.
func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	defaults := DefaultConfig()
	v.SetDefault("name", defaults.Name)
	v.SetDefault("process_title", defaults.ProcessTitle)
	v.SetDefault("config_name", defaults.ConfigName)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("config_files", defaults.ConfigFiles)
	v.SetDefault("flags", defaults.Flags)
	v.SetDefault("value_flags", defaults.ValueFlags)
	v.SetDefault("preload", defaults.Preload)
	v.SetDefault(key("module", "name"), defaults.Module.Name)
	v.SetDefault(key("module", "dir"), defaults.Module.Dir)
	v.SetDefault(key("module", "manifest"), defaults.Module.Manifest)
	v.SetDefault(key("ui", "color_scheme"), defaults.UI.ColorScheme)
	v.SetDefault(key("ui", "verbose"), defaults.UI.Verbose)
	v.SetDefault(key("ui", "log_level"), defaults.UI.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	return v
}

func key(parts ...string) string {
	return strings.Join(parts, keyDelimiter)
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the path of the file read, or "" when
// only defaults applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fspath.IsFile(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'liftoff config path' to see where settings are read from").
				Wrap(fmt.Errorf("settings file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fspath.IsFile(p) {
			resolvedPath = p
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'liftoff config init' in an empty directory to see a valid file").
				WithIssue(issue.SettingsInvalidId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate settings").
			WithResource(resolvedPath).
			WithSuggestion("Check the LIFTOFF_* environment variables as well as the file").
			WithIssue(issue.SettingsInvalidId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE settings file against #Config and merges
// it over the defaults already set on v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(data,
		cueutil.WithFilename(path),
		cueutil.WithSchema(configSchema, "#Config"),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// DefaultConfigPath returns where settings are read from when no explicit
// file is given.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// CreateDefaultConfig writes the default settings file unless one exists.
// It reports whether a file was written.
func CreateDefaultConfig() (bool, error) {
	cfgPath, err := DefaultConfigPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(cfgPath); err == nil {
		return false, nil
	}
	if err := write(cfgPath, DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes cfg to the default settings file.
func Save(cfg *Config) error {
	cfgPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return write(cfgPath, cfg)
}

func write(cfgPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// liftoff settings\n\n")

	fmt.Fprintf(&sb, "name: %q\n", cfg.Name)
	if cfg.ProcessTitle != "" {
		fmt.Fprintf(&sb, "process_title: %q\n", cfg.ProcessTitle)
	}
	if cfg.ConfigName != "" {
		fmt.Fprintf(&sb, "config_name: %q\n", cfg.ConfigName)
	}
	if cfg.Flags != "" {
		fmt.Fprintf(&sb, "flags: %q\n", cfg.Flags)
	}

	sb.WriteString("\nextensions: [\n")
	for _, e := range cfg.Extensions {
		if len(e.Loaders) > 0 {
			fmt.Fprintf(&sb, "\t{ext: %q, loaders: %s},\n", e.Ext, cueStrings(e.Loaders))
		} else {
			fmt.Fprintf(&sb, "\t{ext: %q},\n", e.Ext)
		}
	}
	sb.WriteString("]\n")

	if len(cfg.SearchPaths) > 0 {
		fmt.Fprintf(&sb, "search_paths: %s\n", cueStrings(cfg.SearchPaths))
	}
	if len(cfg.ValueFlags) > 0 {
		fmt.Fprintf(&sb, "value_flags: %s\n", cueStrings(cfg.ValueFlags))
	}
	if len(cfg.Preload) > 0 {
		fmt.Fprintf(&sb, "preload: %s\n", cueStrings(cfg.Preload))
	}

	if len(cfg.ConfigFiles) > 0 {
		sb.WriteString("\nconfig_files: {\n")
		for _, name := range cfg.configFileNames() {
			fmt.Fprintf(&sb, "\t%q: [\n", name)
			for _, entry := range cfg.ConfigFiles[name] {
				sb.WriteString("\t\t{")
				fmt.Fprintf(&sb, "path: %q", entry.Path)
				if entry.Name != "" {
					fmt.Fprintf(&sb, ", name: %q", entry.Name)
				}
				if entry.Cwd != "" {
					fmt.Fprintf(&sb, ", cwd: %q", entry.Cwd)
				}
				if entry.FindUp {
					sb.WriteString(", find_up: true")
				}
				if len(entry.Extensions) > 0 {
					fmt.Fprintf(&sb, ", extensions: %s", cueStrings(entry.Extensions))
				}
				sb.WriteString("},\n")
			}
			sb.WriteString("\t]\n")
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nmodule: {\n")
	if cfg.Module.Name != "" {
		fmt.Fprintf(&sb, "\tname: %q\n", cfg.Module.Name)
	}
	fmt.Fprintf(&sb, "\tdir: %q\n", cfg.Module.Dir)
	fmt.Fprintf(&sb, "\tmanifest: %q\n", cfg.Module.Manifest)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	if cfg.UI.LogLevel != "" {
		fmt.Fprintf(&sb, "\tlog_level: %q\n", cfg.UI.LogLevel)
	}
	sb.WriteString("}\n")

	return sb.String()
}

func cueStrings(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, s := range items {
		quoted = append(quoted, fmt.Sprintf("%q", s))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
