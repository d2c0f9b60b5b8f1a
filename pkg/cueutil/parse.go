// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DecodeMap compiles CUE data and decodes the resulting struct into a
// map[string]any. When a schema is configured with WithSchema, the data is
// unified with the schema definition first so validation errors carry the
// offending CUE path.
func DecodeMap(data []byte, opts ...Option) (map[string]any, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Early file size check to prevent OOM attacks from large files
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if value.Err() != nil {
		return nil, FormatError(value.Err(), filename)
	}

	if options.schema != "" {
		schemaValue := ctx.CompileString(options.schema)
		if schemaValue.Err() != nil {
			return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
		}
		root := schemaValue.LookupPath(cue.ParsePath(options.definition))
		if root.Err() != nil {
			return nil, fmt.Errorf("internal error: schema definition %s not found: %w", options.definition, root.Err())
		}
		value = root.Unify(value)
	}

	if err := value.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var out map[string]any
	if err := value.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}
