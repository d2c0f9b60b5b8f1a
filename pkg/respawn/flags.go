// SPDX-License-Identifier: MPL-2.0

package respawn

import (
	"context"
	"fmt"
	"os"

	"mvdan.cc/sh/v3/shell"
)

type (
	// FlagsFunc produces the runtime flags an invocation must carry.
	FlagsFunc func(ctx context.Context) ([]string, error)

	// FlagsError is returned when a FlagsFunc fails.
	FlagsError struct {
		Err error
	}
)

// Error implements the error interface.
func (e *FlagsError) Error() string {
	return fmt.Sprintf("resolving required flags: %v", e.Err)
}

// Unwrap returns the FlagsFunc error.
func (e *FlagsError) Unwrap() error { return e.Err }

// Static returns a FlagsFunc that always yields flags.
func Static(flags ...string) FlagsFunc {
	out := append([]string(nil), flags...)
	return func(context.Context) ([]string, error) {
		return append([]string(nil), out...), nil
	}
}

// FromShell returns a FlagsFunc that splits s into words with shell quoting
// rules, expanding environment variables when it runs.
func FromShell(s string) FlagsFunc {
	return func(context.Context) ([]string, error) {
		return SplitShell(s)
	}
}

// SplitShell splits s into words with shell quoting rules and expands
// environment variables.
func SplitShell(s string) ([]string, error) {
	fields, err := shell.Fields(s, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parsing flags %q: %w", s, err)
	}
	return fields, nil
}

// ResolveFlags runs fn. A nil fn yields no flags. Any error is returned as
// a *FlagsError.
func ResolveFlags(ctx context.Context, fn FlagsFunc) ([]string, error) {
	if fn == nil {
		return nil, nil
	}
	flags, err := fn(ctx)
	if err != nil {
		return nil, &FlagsError{Err: err}
	}
	return flags, nil
}
