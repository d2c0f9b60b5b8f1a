// SPDX-License-Identifier: MPL-2.0

package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/invowk/liftoff/pkg/events"
)

var (
	// ErrNoLoader is returned when no loader could be activated for an
	// extension, or when a file's extension has no active loader.
	ErrNoLoader = errors.New("no loader available")

	// ErrUnknownLoader is returned when a loader name is neither in the
	// catalog nor a path to a program.
	ErrUnknownLoader = errors.New("unknown loader module")
)

type (
	// Registry is the per-invocation table of active loaders.
	Registry struct {
		mu      sync.Mutex
		catalog map[string]Module
		native  map[string]Decoder
		active  map[string]activeLoader
		emitter *events.Emitter
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)

	activeLoader struct {
		moduleID string
		decoder  Decoder
	}
)

// WithModule adds (or replaces) a named loader module in the catalog.
func WithModule(name string, m Module) RegistryOption {
	return func(r *Registry) {
		r.catalog[name] = m
	}
}

// NewRegistry creates a Registry with the built-in catalog. Events are sent
// to emitter, which may be nil.
func NewRegistry(emitter *events.Emitter, opts ...RegistryOption) *Registry {
	r := &Registry{
		catalog: Builtins(),
		native:  map[string]Decoder{".json": DecoderFunc(decodeJSON)},
		active:  make(map[string]activeLoader),
		emitter: emitter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register activates a loader for ext by importing the first of loaders that
// succeeds, resolving path-like names relative to contextDir. Once an
// extension is active, Register is a no-op for it.
func (r *Registry) Register(ext string, loaders []string, contextDir string) error {
	key := strings.ToLower(normalizeExt(ext))

	r.mu.Lock()
	_, isActive := r.active[key]
	_, isNative := r.native[key]
	r.mu.Unlock()

	if isActive {
		return nil
	}
	if len(loaders) == 0 {
		if isNative {
			return nil
		}
		return fmt.Errorf("%w for extension %s", ErrNoLoader, ext)
	}

	// Listeners run outside the lock so they may query the registry.
	var errs []error
	for _, name := range loaders {
		r.emitter.Emit(events.BeforeRequire{ModuleID: name})

		dec, err := r.importModule(name, contextDir)
		if err != nil {
			r.emitter.Emit(events.RequireFail{ModuleID: name, Err: err})
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		r.emitter.Emit(events.Require{ModuleID: name, Value: dec})

		r.mu.Lock()
		if _, raced := r.active[key]; raced {
			r.mu.Unlock()
			return nil
		}
		r.active[key] = activeLoader{moduleID: name, decoder: dec}
		r.mu.Unlock()

		r.emitter.Emit(events.LoaderSuccess{Extension: key, ModuleID: name})
		return nil
	}

	err := fmt.Errorf("%w for extension %s: %w", ErrNoLoader, ext, errors.Join(errs...))
	r.emitter.Emit(events.LoaderFailure{Extension: key, ModuleID: loaders[len(loaders)-1], Err: err})
	return err
}

func (r *Registry) importModule(name, contextDir string) (Decoder, error) {
	if m, ok := r.catalog[name]; ok {
		return m(contextDir)
	}
	if isPathLike(name) {
		return newExternalModule(name)(contextDir)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownLoader, name)
}

// Active returns the module that serves ext, if any.
func (r *Registry) Active(ext string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.active[strings.ToLower(normalizeExt(ext))]
	return a.moduleID, ok
}

// ActiveExtensions returns the registered extensions in sorted order.
func (r *Registry) ActiveExtensions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	exts := make([]string, 0, len(r.active))
	for ext := range r.active {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether files with ext can currently be decoded.
func (r *Registry) Supports(ext string) bool {
	key := strings.ToLower(normalizeExt(ext))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[key]; ok {
		return true
	}
	_, ok := r.native[key]
	return ok
}

// Require reads and decodes the file at path using the decoder registered
// for the longest matching extension.
func (r *Registry) Require(path string) (any, error) {
	dec, err := r.decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return dec.Decode(path, data)
}

func (r *Registry) decoderFor(path string) (Decoder, error) {
	base := strings.ToLower(filepath.Base(path))

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		best    string
		decoder Decoder
	)
	for ext, a := range r.active {
		if strings.HasSuffix(base, ext) && len(ext) > len(best) {
			best, decoder = ext, a.decoder
		}
	}
	for ext, d := range r.native {
		if strings.HasSuffix(base, ext) && len(ext) > len(best) {
			best, decoder = ext, d
		}
	}
	if decoder == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoLoader, filepath.Base(path))
	}
	return decoder, nil
}
