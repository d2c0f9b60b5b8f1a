// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/invowk/liftoff/internal/issue"
	"github.com/invowk/liftoff/pkg/liftoff"
	"github.com/invowk/liftoff/pkg/preload"
	"github.com/invowk/liftoff/pkg/respawn"
)

// classifyError maps bootstrap failures to issue catalog IDs. Zero means
// the error has no catalogued explanation.
func classifyError(err error) issue.Id {
	var (
		ae       *issue.ActionableError
		flagsErr *respawn.FlagsError
		spawnErr *respawn.SpawnError
	)
	switch {
	case errors.As(err, &ae) && ae.IssueId != 0:
		return ae.IssueId
	case errors.Is(err, liftoff.ErrNoConfigName):
		return issue.NoConfigNameId
	case errors.Is(err, liftoff.ErrNoExtensions):
		return issue.NoExtensionsId
	case errors.Is(err, liftoff.ErrRespawnLoop):
		return issue.RespawnLoopId
	case errors.As(err, &flagsErr):
		return issue.FlagsResolutionFailedId
	case errors.As(err, &spawnErr):
		return issue.RespawnFailedId
	case errors.Is(err, preload.ErrModuleNotFound):
		return issue.ModuleNotFoundId
	}
	return 0
}

// actionable wraps err with the operation that failed and its catalogued
// issue. Exit errors and already actionable errors pass through.
func actionable(err error, operation string, suggestions ...string) error {
	if err == nil {
		return nil
	}
	var (
		exitErr *ExitError
		ae      *issue.ActionableError
	)
	if errors.As(err, &exitErr) || errors.As(err, &ae) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithSuggestions(suggestions...).
		WithIssue(classifyError(err)).
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method, which lists the cause chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes err and, in verbose mode, its catalogued issue.
func renderError(w io.Writer, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if !verbose {
		return
	}
	if entry := issue.Get(classifyError(err)); entry != nil {
		if rendered, rerr := entry.Render("dark"); rerr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}
