// SPDX-License-Identifier: MPL-2.0

package preload

import (
	"errors"
	"fmt"

	"github.com/invowk/liftoff/pkg/events"
	"github.com/invowk/liftoff/pkg/fspath"
	"github.com/invowk/liftoff/pkg/loaders"
)

// ErrModuleNotFound is returned when an identifier names neither a
// registered module nor an existing file.
var ErrModuleNotFound = errors.New("module not found")

type (
	// Requirer imports one module relative to baseDir.
	Requirer interface {
		Require(id, baseDir string) (any, error)
	}

	// RequirerFunc adapts a function to the Requirer interface.
	RequirerFunc func(id, baseDir string) (any, error)

	// Outcome is the result of preloading one module.
	Outcome struct {
		ID    string
		Value any
		Err   error
	}

	// Preloader imports a list of modules, reporting each attempt.
	Preloader struct {
		requirer Requirer
		emitter  *events.Emitter
	}

	// DefaultRequirer resolves registered modules first, then data files
	// decoded through Registry.
	DefaultRequirer struct {
		Registry *loaders.Registry
	}
)

// Require implements Requirer.
func (f RequirerFunc) Require(id, baseDir string) (any, error) { return f(id, baseDir) }

// New creates a Preloader. emitter may be nil.
func New(requirer Requirer, emitter *events.Emitter) *Preloader {
	return &Preloader{requirer: requirer, emitter: emitter}
}

// Preload requires every unique id, in first-occurrence order. A failure is
// reported and does not stop the remaining modules.
func (p *Preloader) Preload(ids []string, baseDir string) []Outcome {
	unique := Unique(ids)
	outcomes := make([]Outcome, 0, len(unique))

	for _, id := range unique {
		p.emitter.Emit(events.BeforeRequire{ModuleID: id})

		v, err := p.requirer.Require(id, baseDir)
		if err != nil {
			p.emitter.Emit(events.RequireFail{ModuleID: id, Err: err})
		} else {
			p.emitter.Emit(events.Require{ModuleID: id, Value: v})
		}
		outcomes = append(outcomes, Outcome{ID: id, Value: v, Err: err})
	}
	return outcomes
}

// Unique drops repeated and empty ids, keeping the first occurrence.
func Unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Require implements Requirer.
func (r DefaultRequirer) Require(id, baseDir string) (any, error) {
	if m, arg, ok := lookup(id); ok {
		return m(baseDir, arg)
	}

	path, err := fspath.Resolve(baseDir, id)
	if err != nil {
		return nil, err
	}
	if !fspath.IsFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
	}
	if r.Registry == nil {
		return nil, fmt.Errorf("%w for %s", loaders.ErrNoLoader, id)
	}
	return r.Registry.Require(path)
}
