// SPDX-License-Identifier: MPL-2.0

// Package locate finds configuration files on disk.
//
// It covers two lookups:
//   - Find resolves a Location (a path, an optional file stem, a working
//     directory and a set of extensions) to one existing file and reports
//     which extension matched.
//   - Search walks a list of directories upward, looking for any of a set of
//     candidate file names built by ConfigNames.
//
// Neither lookup returns an error for a miss: a miss is an ordinary outcome
// that callers report as they see fit.
package locate
