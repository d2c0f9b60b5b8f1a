// SPDX-License-Identifier: MPL-2.0

package loaders

import (
	"path/filepath"
	"strings"
)

type (
	// Extension declares a file extension (with its leading dot) and the loader
	// modules that can decode it, in order of preference. An empty Loaders list
	// means the extension is decoded natively.
	Extension struct {
		Ext     string   `json:"ext" mapstructure:"ext"`
		Loaders []string `json:"loaders,omitempty" mapstructure:"loaders"`
	}

	// Extensions is an ordered extension list. Order decides which file wins
	// when several candidates exist next to each other.
	Extensions []Extension
)

// Defaults returns the extensions liftoff understands out of the box.
func Defaults() Extensions {
	return Extensions{
		{Ext: ".json"},
		{Ext: ".cue", Loaders: []string{ModuleCUE}},
		{Ext: ".yaml", Loaders: []string{ModuleYAML}},
		{Ext: ".yml", Loaders: []string{ModuleYAML}},
		{Ext: ".toml", Loaders: []string{ModuleTOML, ModuleBurntSushiTOML}},
		{Ext: ".hcl", Loaders: []string{ModuleHCL}},
	}
}

// Plain builds an Extensions list without loader declarations.
func Plain(exts ...string) Extensions {
	out := make(Extensions, 0, len(exts))
	for _, e := range exts {
		out = append(out, Extension{Ext: normalizeExt(e)})
	}
	return out
}

// Names returns the extension strings in order.
func (es Extensions) Names() []string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Ext
	}
	return names
}

// Lookup returns the declaration for ext.
func (es Extensions) Lookup(ext string) (Extension, bool) {
	for _, e := range es {
		if strings.EqualFold(e.Ext, ext) {
			return e, true
		}
	}
	return Extension{}, false
}

// Match returns the longest declared extension that path ends with, so that
// "app.config.json" matches ".config.json" before ".json".
func (es Extensions) Match(path string) (Extension, bool) {
	base := strings.ToLower(filepath.Base(path))
	var best Extension
	found := false
	for _, e := range es {
		if strings.HasSuffix(base, strings.ToLower(e.Ext)) && len(e.Ext) > len(best.Ext) {
			best = e
			found = true
		}
	}
	return best, found
}

// HasLoaders reports whether the extension declares custom loader modules.
func (e Extension) HasLoaders() bool { return len(e.Loaders) > 0 }

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
