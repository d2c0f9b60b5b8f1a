// SPDX-License-Identifier: MPL-2.0

package config

import (
	"maps"
	"slices"

	"github.com/invowk/liftoff/pkg/extends"
	"github.com/invowk/liftoff/pkg/liftoff"
	"github.com/invowk/liftoff/pkg/loaders"
	"github.com/invowk/liftoff/pkg/locate"
	"github.com/invowk/liftoff/pkg/respawn"
)

// LiftoffOptions describes the hosted tool to the bootstrapper. Empty
// fields are left for liftoff.New to default.
func (c *Config) LiftoffOptions() liftoff.Options {
	opts := liftoff.Options{
		Name:         c.Name,
		ProcessTitle: c.ProcessTitle,
		ModuleName:   c.Module.Name,
		ModulesDir:   c.Module.Dir,
		Manifest:     c.Module.Manifest,
		ConfigName:   c.ConfigName,
		Extensions:   extensionsOf(c.Extensions),
		SearchPaths:  slices.Clone(c.SearchPaths),
	}

	if len(c.ConfigFiles) > 0 {
		opts.ConfigFiles = make(extends.Spec, len(c.ConfigFiles))
		for _, name := range c.configFileNames() {
			locs := make([]locate.Location, 0, len(c.ConfigFiles[name]))
			for _, entry := range c.ConfigFiles[name] {
				locs = append(locs, locate.Location{
					Path:       entry.Path,
					Name:       entry.Name,
					Cwd:        entry.Cwd,
					FindUp:     entry.FindUp,
					Extensions: narrow(opts.Extensions, entry.Extensions),
				})
			}
			opts.ConfigFiles[name] = locs
		}
	}

	if c.Flags != "" {
		opts.Flags = respawn.FromShell(c.Flags)
	}
	if len(c.ValueFlags) > 0 {
		opts.ValueFlags = slices.Clone(c.ValueFlags)
	}

	return opts
}

func (c *Config) configFileNames() []string {
	return slices.Sorted(maps.Keys(c.ConfigFiles))
}

func extensionsOf(entries []ExtensionEntry) loaders.Extensions {
	if len(entries) == 0 {
		return nil
	}
	out := make(loaders.Extensions, 0, len(entries))
	for _, e := range entries {
		out = append(out, loaders.Extension{Ext: e.Ext, Loaders: slices.Clone(e.Loaders)})
	}
	return out
}

// narrow selects exts from table, keeping the table's loaders. Extensions
// missing from the table (or an empty table) are decoded natively.
func narrow(table loaders.Extensions, exts []string) loaders.Extensions {
	if len(exts) == 0 {
		return nil
	}
	if len(table) == 0 {
		table = loaders.Defaults()
	}
	out := make(loaders.Extensions, 0, len(exts))
	for _, plain := range loaders.Plain(exts...) {
		if e, ok := table.Lookup(plain.Ext); ok {
			out = append(out, e)
			continue
		}
		out = append(out, plain)
	}
	return out
}
