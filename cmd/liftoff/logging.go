// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/invowk/liftoff/internal/config"
)

// newLogger returns the CLI logger. verbose forces debug level; otherwise
// level applies, falling back to info when it cannot be parsed.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})

	lvl, err := log.ParseLevel(string(level))
	if err != nil || level == "" {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)

	return logger
}
