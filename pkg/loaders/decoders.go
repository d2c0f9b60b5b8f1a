// SPDX-License-Identifier: MPL-2.0

package loaders

import (
	"encoding/json"
	"fmt"

	burntsushi "github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/pelletier/go-toml/v2"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"

	"github.com/invowk/liftoff/pkg/cueutil"
)

// Built-in loader module names.
const (
	ModuleJSON           = "json"
	ModuleYAML           = "yaml"
	ModuleTOML           = "toml"
	ModuleBurntSushiTOML = "toml-burntsushi"
	ModuleCUE            = "cue"
	ModuleHCL            = "hcl"
)

type (
	// Decoder turns the bytes of a file into a Go value. Structured
	// documents decode to map[string]any.
	Decoder interface {
		Decode(path string, data []byte) (any, error)
	}

	// DecoderFunc adapts a function to the Decoder interface.
	DecoderFunc func(path string, data []byte) (any, error)

	// Module imports a loader. contextDir is the directory the registration
	// was made from; modules that do not need it ignore it.
	Module func(contextDir string) (Decoder, error)
)

// Decode implements Decoder.
func (f DecoderFunc) Decode(path string, data []byte) (any, error) { return f(path, data) }

// Builtins returns the built-in loader module catalog.
func Builtins() map[string]Module {
	return map[string]Module{
		ModuleJSON:           static(DecoderFunc(decodeJSON)),
		ModuleYAML:           static(DecoderFunc(decodeYAML)),
		ModuleTOML:           static(DecoderFunc(decodeTOML)),
		ModuleBurntSushiTOML: static(DecoderFunc(decodeBurntSushiTOML)),
		ModuleCUE:            static(DecoderFunc(decodeCUE)),
		ModuleHCL:            static(DecoderFunc(decodeHCL)),
	}
}

func static(d Decoder) Module {
	return func(string) (Decoder, error) { return d, nil }
}

func decodeJSON(path string, data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func decodeYAML(path string, data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return normalize(v), nil
}

func decodeTOML(path string, data []byte) (any, error) {
	m := map[string]any{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func decodeBurntSushiTOML(path string, data []byte) (any, error) {
	m := map[string]any{}
	if _, err := burntsushi.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func decodeCUE(path string, data []byte) (any, error) {
	return cueutil.DecodeMap(data, cueutil.WithFilename(path))
}

// decodeHCL reads the top-level attributes of an HCL body. Blocks are not
// supported: configuration documents are flat attribute sets whose values
// may be objects and tuples.
func decodeHCL(path string, data []byte) (any, error) {
	file, diags := hclsyntax.ParseConfig(data, path, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, valDiags
		}
		raw, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %s: %w", path, name, err)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%s: attribute %s: %w", path, name, err)
		}
		out[name] = v
	}
	return out, nil
}

// normalize converts map[any]any values produced by YAML documents with
// non-string keys into map[string]any so every decoder yields the same shape.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
