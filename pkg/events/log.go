// SPDX-License-Identifier: MPL-2.0

package events

import "github.com/charmbracelet/log"

// LogListener returns a Listener that writes every event to logger.
// Successful steps are logged at debug level; misses, failures and cycles
// at warn level, so degraded configuration loading is never silent.
func LogListener(logger *log.Logger) Listener {
	return ListenerFunc(func(e Event) {
		switch ev := e.(type) {
		case BeforeRequire:
			logger.Debug("requiring module", "module", ev.ModuleID)
		case Require:
			logger.Debug("required module", "module", ev.ModuleID)
		case RequireFail:
			logger.Warn("failed to require module", "module", ev.ModuleID, "err", ev.Err)
		case Respawn:
			pid := 0
			if ev.Process != nil {
				pid = ev.Process.Pid
			}
			logger.Info("respawned", "argv", ev.Argv, "pid", pid)
		case LoaderSuccess:
			logger.Debug("loader registered", "ext", ev.Extension, "module", ev.ModuleID)
		case LoaderFailure:
			logger.Warn("loader registration failed", "ext", ev.Extension, "module", ev.ModuleID, "err", ev.Err)
		case ConfigMiss:
			logger.Debug("config not found", "config", ev.Config, "ref", ev.Ref, "extends", ev.Extends)
		case ConfigFailure:
			logger.Warn("config could not be loaded", "config", ev.Config, "path", ev.Path, "extends", ev.Extends, "err", ev.Err)
		case ConfigCycle:
			logger.Warn("extends cycle skipped", "config", ev.Config, "path", ev.Path)
		default:
			logger.Debug("event", "name", e.Name())
		}
	})
}
