// SPDX-License-Identifier: MPL-2.0

package events

import "os"

// Event names, as reported by Event.Name.
const (
	NameBeforeRequire = "beforeRequire"
	NameRequire       = "require"
	NameRequireFail   = "requireFail"
	NameRespawn       = "respawn"
	NameLoaderSuccess = "loader:success"
	NameLoaderFailure = "loader:failure"
	NameConfigMiss    = "config:miss"
	NameConfigFailure = "config:failure"
	NameConfigCycle   = "config:cycle"
)

type (
	// Event is a notification emitted by liftoff.
	Event interface {
		// Name returns the stable event name (e.g., "requireFail").
		Name() string
	}

	// BeforeRequire is emitted before a module is required.
	BeforeRequire struct {
		ModuleID string
	}

	// Require is emitted after a module was required successfully.
	Require struct {
		ModuleID string
		Value    any
	}

	// RequireFail is emitted when requiring a module failed.
	RequireFail struct {
		ModuleID string
		Err      error
	}

	// Respawn is emitted once a child process has been started with the
	// corrected argument vector, before the parent waits for it.
	Respawn struct {
		Argv    []string
		Process *os.Process
	}

	// LoaderSuccess is emitted when a loader module became active for an extension.
	LoaderSuccess struct {
		Extension string
		ModuleID  string
	}

	// LoaderFailure is emitted when none of an extension's loader modules
	// could be imported.
	LoaderFailure struct {
		Extension string
		ModuleID  string
		Err       error
	}

	// ConfigMiss is emitted when a configuration location or an extends
	// reference does not resolve to an existing file.
	ConfigMiss struct {
		// Config is the logical configuration name being resolved.
		Config string
		// Ref describes the location that was searched.
		Ref string
		// Extends is true when the miss happened on an extends link.
		Extends bool
	}

	// ConfigFailure is emitted when a located configuration file could not
	// be imported.
	ConfigFailure struct {
		Config  string
		Path    string
		Extends bool
		Err     error
	}

	// ConfigCycle is emitted when an extends reference points at a file
	// that was already loaded in the same traversal.
	ConfigCycle struct {
		Config string
		Path   string
	}
)

// Name implements Event.
func (BeforeRequire) Name() string { return NameBeforeRequire }

// Name implements Event.
func (Require) Name() string { return NameRequire }

// Name implements Event.
func (RequireFail) Name() string { return NameRequireFail }

// Name implements Event.
func (Respawn) Name() string { return NameRespawn }

// Name implements Event.
func (LoaderSuccess) Name() string { return NameLoaderSuccess }

// Name implements Event.
func (LoaderFailure) Name() string { return NameLoaderFailure }

// Name implements Event.
func (ConfigMiss) Name() string { return NameConfigMiss }

// Name implements Event.
func (ConfigFailure) Name() string { return NameConfigFailure }

// Name implements Event.
func (ConfigCycle) Name() string { return NameConfigCycle }
