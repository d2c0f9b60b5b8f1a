// SPDX-License-Identifier: MPL-2.0

package preload

import (
	"sort"
	"strings"
	"sync"
)

// Module is an in-process preload module. arg is the text after the first
// ":" of the identifier, or "".
type Module func(baseDir, arg string) (any, error)

var (
	modulesMu sync.RWMutex
	modules   = make(map[string]Module)
)

// Register makes a module available under name. It panics if name is empty,
// contains ":", or is registered twice.
func Register(name string, m Module) {
	modulesMu.Lock()
	defer modulesMu.Unlock()

	if name == "" || strings.Contains(name, ":") {
		panic("preload: invalid module name " + name)
	}
	if m == nil {
		panic("preload: Register module is nil")
	}
	if _, dup := modules[name]; dup {
		panic("preload: Register called twice for module " + name)
	}
	modules[name] = m
}

// Modules returns the sorted names of the registered modules.
func Modules() []string {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(id string) (Module, string, bool) {
	name, arg, _ := strings.Cut(id, ":")

	modulesMu.RLock()
	defer modulesMu.RUnlock()

	m, ok := modules[name]
	return m, arg, ok
}
