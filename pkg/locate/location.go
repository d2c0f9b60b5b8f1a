// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/invowk/liftoff/pkg/loaders"
)

// ErrInvalidLocation is returned when a value cannot be read as a Location.
var ErrInvalidLocation = errors.New("invalid location")

// Location describes where to look for a file.
type Location struct {
	// Path is a file or directory, relative to Cwd unless absolute. A
	// leading "~" expands to the home directory.
	Path string `json:"path" mapstructure:"path"`
	// Name is the file stem to look for inside Path. When empty the last
	// element of Path is the file itself.
	Name string `json:"name,omitempty" mapstructure:"name"`
	// Cwd is the directory relative paths are resolved against.
	Cwd string `json:"cwd,omitempty" mapstructure:"cwd"`
	// Extensions lists the extensions tried, in order.
	Extensions loaders.Extensions `json:"extensions,omitempty" mapstructure:"extensions"`
	// FindUp walks from Cwd towards the root until Path exists.
	FindUp bool `json:"findUp,omitempty" mapstructure:"findUp"`
}

// String renders the location for diagnostics.
func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Path)
	if l.Name != "" {
		b.WriteString("/")
		b.WriteString(l.Name)
		b.WriteString("{")
		b.WriteString(strings.Join(l.Extensions.Names(), ","))
		b.WriteString("}")
	}
	if l.Cwd != "" {
		fmt.Fprintf(&b, " (in %s)", l.Cwd)
	}
	return b.String()
}

// withDefaults fills the empty fields of l from d.
func (l Location) withDefaults(d Location) Location {
	if l.Path == "" {
		l.Path = d.Path
	}
	if l.Name == "" {
		l.Name = d.Name
	}
	if l.Cwd == "" {
		l.Cwd = d.Cwd
	}
	if len(l.Extensions) == 0 {
		l.Extensions = d.Extensions
	}
	if !l.FindUp {
		l.FindUp = d.FindUp
	}
	return l
}

// FromValue reads locations from a decoded configuration value: a string
// path, a map with Location fields, or a list mixing both. A nil value
// yields no locations.
func FromValue(v any) ([]Location, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []Location{{Path: t}}, nil
	case map[string]any:
		loc, err := fromMap(t)
		if err != nil {
			return nil, err
		}
		return []Location{loc}, nil
	case []any:
		locs := make([]Location, 0, len(t))
		for i, item := range t {
			sub, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			locs = append(locs, sub...)
		}
		return locs, nil
	case []string:
		locs := make([]Location, len(t))
		for i, p := range t {
			locs[i] = Location{Path: p}
		}
		return locs, nil
	case Location:
		return []Location{t}, nil
	case []Location:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidLocation, v)
	}
}

func fromMap(m map[string]any) (Location, error) {
	var loc Location
	var err error

	if loc.Path, err = stringField(m, "path"); err != nil {
		return loc, err
	}
	if loc.Name, err = stringField(m, "name"); err != nil {
		return loc, err
	}
	if loc.Cwd, err = stringField(m, "cwd"); err != nil {
		return loc, err
	}
	if v, ok := m["findUp"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return loc, fmt.Errorf("%w: findUp must be a boolean", ErrInvalidLocation)
		}
		loc.FindUp = b
	}
	if v, ok := m["extensions"]; ok {
		if loc.Extensions, err = ExtensionsFromValue(v); err != nil {
			return loc, err
		}
	}
	if loc.Path == "" {
		return loc, fmt.Errorf("%w: path is required", ErrInvalidLocation)
	}
	return loc, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidLocation, key, v)
	}
	return s, nil
}

// ExtensionsFromValue reads an extension set from a decoded value: a list of
// extension strings, or a map from extension to a loader name, a list of
// loader names, or null for a natively decoded extension. Map keys are taken
// in sorted order.
func ExtensionsFromValue(v any) (loaders.Extensions, error) {
	switch t := v.(type) {
	case []any:
		exts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: extension must be a string, got %T", ErrInvalidLocation, item)
			}
			exts = append(exts, s)
		}
		return loaders.Plain(exts...), nil
	case []string:
		return loaders.Plain(t...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(loaders.Extensions, 0, len(keys))
		for _, k := range keys {
			names, err := loaderNames(t[k])
			if err != nil {
				return nil, fmt.Errorf("extension %s: %w", k, err)
			}
			ext := loaders.Plain(k)[0]
			ext.Loaders = names
			out = append(out, ext)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported extensions type %T", ErrInvalidLocation, v)
	}
}

func loaderNames(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case []any:
		names := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: loader must be a string, got %T", ErrInvalidLocation, item)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("%w: unsupported loader type %T", ErrInvalidLocation, v)
	}
}
