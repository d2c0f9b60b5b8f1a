// SPDX-License-Identifier: MPL-2.0

// Package config holds the liftoff CLI settings: the description of the
// hosted tool (name, config file extensions, search paths, declared config
// files, required runtime flags, preloads) and output preferences.
//
// Settings are read with Viper from a CUE file in the platform config
// directory (~/.config/liftoff/config.cue on Linux) validated against the
// embedded config_schema.cue, and may be overridden by LIFTOFF_* environment
// variables such as LIFTOFF_UI_VERBOSE.
package config
