// SPDX-License-Identifier: MPL-2.0

// Package preload imports the modules an invocation asks for before the
// hosted tool runs.
//
// A module identifier is either the name of an in-process module registered
// with Register (optionally followed by ":" and an argument, as in
// "dotenv:config/.env") or a data file relative to the base directory,
// decoded through a loaders.Registry.
package preload
