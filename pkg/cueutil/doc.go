// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// liftoff reads CUE in two places: the CLI's own settings file, which is
// unified with an embedded schema, and user configuration files with a .cue
// extension, which are compiled without a schema. Both follow the same flow:
//
//  1. Compile the schema (when one is given)
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go map
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	m, err := cueutil.DecodeMap(data,
//	    cueutil.WithFilename(path),
//	    cueutil.WithSchema(schema, "#Config"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
