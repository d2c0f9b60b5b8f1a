// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/liftoff/pkg/envpath"
	"github.com/invowk/liftoff/pkg/loaders"
)

const (
	// DefaultName is the tool name used when the settings do not name one.
	DefaultName = "liftoff"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidExtension is the sentinel error wrapped by InvalidExtensionError.
	ErrInvalidExtension = errors.New("invalid extension")
	// ErrInvalidConfigFileEntry is the sentinel error wrapped by InvalidConfigFileEntryError.
	ErrInvalidConfigFileEntry = errors.New("invalid config file entry")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError wraps ErrInvalidColorScheme.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level of the CLI logger.
	LogLevel string

	// InvalidLogLevelError wraps ErrInvalidLogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidExtensionError is returned for an extension entry without a
	// leading dot or with an empty loader name.
	InvalidExtensionError struct {
		Ext    string
		Reason string
	}

	// InvalidConfigFileEntryError is returned for a config_files location
	// without a path.
	InvalidConfigFileEntryError struct {
		Name  string
		Index int
	}

	// InvalidUIConfigError aggregates UIConfig field errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError aggregates Config field errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// ExtensionEntry is one configuration extension and the loaders able to
	// decode it. An empty Loaders list means the extension is decoded natively.
	ExtensionEntry struct {
		Ext     string   `json:"ext" mapstructure:"ext"`
		Loaders []string `json:"loaders,omitempty" mapstructure:"loaders"`
	}

	// ConfigFileEntry is one candidate location of an extendable config file.
	ConfigFileEntry struct {
		Path       string   `json:"path" mapstructure:"path"`
		Name       string   `json:"name,omitempty" mapstructure:"name"`
		Cwd        string   `json:"cwd,omitempty" mapstructure:"cwd"`
		FindUp     bool     `json:"find_up,omitempty" mapstructure:"find_up"`
		Extensions []string `json:"extensions,omitempty" mapstructure:"extensions"`
	}

	// ModuleConfig locates the hosted tool's local module.
	ModuleConfig struct {
		// Name is the package name; defaults to the tool name.
		Name string `json:"name" mapstructure:"name"`
		// Dir is the directory local modules are installed into.
		Dir string `json:"dir" mapstructure:"dir"`
		// Manifest is the package manifest file name.
		Manifest string `json:"manifest" mapstructure:"manifest"`
	}

	// UIConfig configures CLI output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose lowers the log level to debug.
		Verbose  bool     `json:"verbose" mapstructure:"verbose"`
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
	}

	// Config holds the liftoff CLI settings: the description of the hosted
	// tool plus output preferences.
	Config struct {
		// Name is the hosted tool's name.
		Name string `json:"name" mapstructure:"name"`
		// ProcessTitle is reported in the environment; defaults to Name.
		ProcessTitle string `json:"process_title" mapstructure:"process_title"`
		// ConfigName is the project config stem; defaults to Name + "file".
		ConfigName string `json:"config_name" mapstructure:"config_name"`
		// Extensions are tried in order when searching for the config file.
		Extensions []ExtensionEntry `json:"extensions" mapstructure:"extensions"`
		// SearchPaths are searched after the process directory.
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
		// ConfigFiles declares extendable config files by logical name.
		ConfigFiles map[string][]ConfigFileEntry `json:"config_files" mapstructure:"config_files"`
		// Flags are the runtime flags the tool needs, as shell words.
		Flags string `json:"flags" mapstructure:"flags"`
		// ValueFlags are runtime flags whose value may be the next token.
		// Empty means the node runtime's.
		ValueFlags []string `json:"value_flags" mapstructure:"value_flags"`
		// Preload lists modules preloaded on every run.
		Preload []string `json:"preload" mapstructure:"preload"`
		// Module locates the tool's local module.
		Module ModuleConfig `json:"module" mapstructure:"module"`
		// UI configures CLI output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is defined. The zero value means info.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid checks the extension starts with a dot and names no empty loader.
func (e ExtensionEntry) IsValid() (bool, []error) {
	if !strings.HasPrefix(e.Ext, ".") || len(e.Ext) < 2 {
		return false, []error{&InvalidExtensionError{Ext: e.Ext, Reason: "must start with a dot"}}
	}
	for _, name := range e.Loaders {
		if strings.TrimSpace(name) == "" {
			return false, []error{&InvalidExtensionError{Ext: e.Ext, Reason: "loader names must be non-empty"}}
		}
	}
	return true, nil
}

func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("invalid extension %q: %s", e.Ext, e.Reason)
}

func (e *InvalidExtensionError) Unwrap() error { return ErrInvalidExtension }

func (e *InvalidConfigFileEntryError) Error() string {
	return fmt.Sprintf("invalid config_files.%s[%d]: path must be non-empty", e.Name, e.Index)
}

func (e *InvalidConfigFileEntryError) Unwrap() error { return ErrInvalidConfigFileEntry }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields. Config file entries
// are checked in name order so the reported errors are stable.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, ext := range c.Extensions {
		if valid, fieldErrs := ext.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, name := range c.configFileNames() {
		for i, entry := range c.ConfigFiles[name] {
			if strings.TrimSpace(entry.Path) == "" {
				errs = append(errs, &InvalidConfigFileEntryError{Name: name, Index: i})
			}
		}
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultExtensions returns the built-in extension table in settings form.
func DefaultExtensions() []ExtensionEntry {
	defs := loaders.Defaults()
	out := make([]ExtensionEntry, 0, len(defs))
	for _, e := range defs {
		out = append(out, ExtensionEntry{Ext: e.Ext, Loaders: e.Loaders})
	}
	return out
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Name:        DefaultName,
		Extensions:  DefaultExtensions(),
		SearchPaths: []string{},
		ConfigFiles: map[string][]ConfigFileEntry{},
		ValueFlags:  []string{},
		Preload:     []string{},
		Module: ModuleConfig{
			Dir:      envpath.DefaultModulesDir,
			Manifest: envpath.DefaultManifest,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			LogLevel:    LogLevelInfo,
		},
	}
}
