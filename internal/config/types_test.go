// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, errs := cs.IsValid(); !valid {
			t.Errorf("%q.IsValid() = false, %v", cs, errs)
		}
	}
	valid, errs := ColorScheme("neon").IsValid()
	if valid || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("neon.IsValid() = %v, %v", valid, errs)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []LogLevel{"", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if valid, errs := l.IsValid(); !valid {
			t.Errorf("%q.IsValid() = false, %v", l, errs)
		}
	}
	valid, errs := LogLevel("trace").IsValid()
	if valid || !errors.Is(errs[0], ErrInvalidLogLevel) {
		t.Errorf("trace.IsValid() = %v, %v", valid, errs)
	}
}

func TestExtensionEntry_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry ExtensionEntry
		valid bool
	}{
		{"native", ExtensionEntry{Ext: ".json"}, true},
		{"compound", ExtensionEntry{Ext: ".app.yaml", Loaders: []string{"yaml"}}, true},
		{"no dot", ExtensionEntry{Ext: "json"}, false},
		{"dot only", ExtensionEntry{Ext: "."}, false},
		{"blank loader", ExtensionEntry{Ext: ".toml", Loaders: []string{"toml", " "}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.entry.IsValid()
			if valid != tt.valid {
				t.Fatalf("IsValid() = %v, want %v (%v)", valid, tt.valid, errs)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidExtension) {
				t.Errorf("error should wrap ErrInvalidExtension, got %v", errs[0])
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig().IsValid() = false, %v", errs)
	}

	cfg := DefaultConfig()
	cfg.Extensions = append(cfg.Extensions, ExtensionEntry{Ext: "bad"})
	cfg.ConfigFiles = map[string][]ConfigFileEntry{"b": {{Path: " "}}, "a": {{Path: "ok"}, {}}}
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v; want one aggregate error", valid, errs)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("error should wrap ErrInvalidConfig")
	}
	// extension, a[1], b[0], UI
	if len(cfgErr.FieldErrors) != 4 {
		t.Fatalf("FieldErrors = %v, want 4", cfgErr.FieldErrors)
	}
	var entryErr *InvalidConfigFileEntryError
	if !errors.As(cfgErr.FieldErrors[1], &entryErr) || entryErr.Name != "a" || entryErr.Index != 1 {
		t.Errorf("FieldErrors[1] = %v, want config_files.a[1]", cfgErr.FieldErrors[1])
	}
	if !errors.Is(cfgErr.FieldErrors[3], ErrInvalidUIConfig) {
		t.Errorf("FieldErrors[3] = %v, want UI error", cfgErr.FieldErrors[3])
	}
}
