// SPDX-License-Identifier: MPL-2.0

package envpath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/invowk/liftoff/pkg/fspath"
	"github.com/invowk/liftoff/pkg/locate"
)

var (
	// ErrNoConfigName is returned by Resolve when Options.ConfigName is empty.
	ErrNoConfigName = locate.ErrNoConfigName
	// ErrNoExtensions is returned by Resolve when Options.Extensions is empty.
	ErrNoExtensions = locate.ErrNoExtensions
)

type (
	// Options are the inputs of Resolve.
	Options struct {
		// Cwd is an explicit working directory. It restricts the search for
		// the configuration file to that directory and its parents.
		Cwd string
		// ConfigPath is an explicit configuration file.
		ConfigPath string
		// ConfigName is the configuration file stem, e.g. "Appfile".
		ConfigName string
		// Extensions are appended to ConfigName to build candidate names.
		Extensions []string
		// SearchPaths are searched after the process directory when neither
		// Cwd nor ConfigPath is set.
		SearchPaths []string
		// Getwd returns the process directory. Defaults to os.Getwd.
		Getwd func() (string, error)
	}

	// Paths is the outcome of Resolve.
	Paths struct {
		Cwd        string
		ConfigPath string
		ConfigBase string
		// ConfigNameSearch are the candidate file names, in order.
		ConfigNameSearch []string
	}
)

// Resolve computes the working directory and configuration file for opts.
//
// An explicit ConfigPath sets the base directory, and the working directory
// too unless Cwd is given. Otherwise the configuration file is searched for,
// upward from Cwd if given, or upward from the process directory and then
// each search path; a hit moves the working directory to the file's
// directory when Cwd was not given. A configuration file that does not exist
// is reported as an empty ConfigPath while ConfigBase keeps its directory.
func Resolve(opts Options) (Paths, error) {
	names, err := locate.ConfigNames(opts.ConfigName, opts.Extensions)
	if err != nil {
		return Paths{}, err
	}

	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	wd, err := getwd()
	if err != nil {
		return Paths{}, fmt.Errorf("resolving working directory: %w", err)
	}

	p := Paths{ConfigNameSearch: names}

	switch {
	case opts.Cwd != "":
		if p.Cwd, err = fspath.Resolve(wd, opts.Cwd); err != nil {
			return Paths{}, err
		}
		if opts.ConfigPath != "" {
			if p.ConfigPath, err = fspath.Resolve(wd, opts.ConfigPath); err != nil {
				return Paths{}, err
			}
		} else {
			p.ConfigPath = locate.Search(names, []string{p.Cwd})
		}
		if p.ConfigPath != "" {
			p.ConfigBase = filepath.Dir(p.ConfigPath)
		}

	case opts.ConfigPath != "":
		if p.ConfigPath, err = fspath.Resolve(wd, opts.ConfigPath); err != nil {
			return Paths{}, err
		}
		p.ConfigBase = filepath.Dir(p.ConfigPath)
		p.Cwd = p.ConfigBase

	default:
		p.Cwd = wd
		dirs := make([]string, 0, len(opts.SearchPaths)+1)
		dirs = append(dirs, wd)
		for _, sp := range opts.SearchPaths {
			dir, err := fspath.Resolve(wd, sp)
			if err != nil {
				continue
			}
			dirs = append(dirs, dir)
		}
		if p.ConfigPath = locate.Search(names, dirs); p.ConfigPath != "" {
			p.ConfigBase = filepath.Dir(p.ConfigPath)
			p.Cwd = p.ConfigBase
		}
	}

	if p.ConfigPath != "" && !fspath.IsFile(p.ConfigPath) {
		p.ConfigPath = ""
	}
	return p, nil
}
