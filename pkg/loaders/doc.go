// SPDX-License-Identifier: MPL-2.0

// Package loaders maps configuration file extensions to decoders.
//
// A Registry starts with a catalog of named loader modules ("json", "yaml",
// "toml", "toml-burntsushi", "cue", "hcl") and the natively supported ".json"
// extension. Registering an extension imports one of its declared loader
// modules and activates it; from then on Require can decode files with that
// extension. Registration is idempotent per extension: the first successful
// import wins and later registrations are no-ops regardless of arguments.
//
// Loader names that look like paths ("./tools/ini2json") are resolved
// relative to the registration's context directory and executed as external
// programs that print the decoded document as JSON on stdout.
package loaders
