// SPDX-License-Identifier: MPL-2.0

package respawn

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/invowk/liftoff/pkg/types"
)

// EnvRespawned carries the Marker of a respawned child's arguments.
const EnvRespawned = "LIFTOFF_RESPAWNED"

// ErrEmptyArgv is returned when Respawn is called without a program.
var ErrEmptyArgv = errors.New("empty argument vector")

type (
	// SpawnError is returned when the child process could not be started.
	SpawnError struct {
		Argv []string
		Err  error
	}

	// Executor runs child processes with inherited standard streams. The
	// zero value is not usable; use NewExecutor.
	Executor struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Dir is the child's working directory; empty means the current one.
		Dir string
		// Env is the child environment before EnvRespawned is added.
		// Defaults to os.Environ().
		Env []string
		// Signals are forwarded to the child while it runs.
		Signals []os.Signal
	}
)

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", strings.Join(e.Argv, " "), e.Err)
}

// Unwrap returns the underlying start error.
func (e *SpawnError) Unwrap() error { return e.Err }

// NewExecutor returns an Executor wired to the process's standard streams
// that forwards interrupt and termination signals.
func NewExecutor() *Executor {
	return &Executor{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// IsRespawned reports whether the current process is a respawned child.
// The marker only matches the process it was set for, so a program that
// inherits the environment from the child is not taken for one.
func IsRespawned() bool {
	return isRespawned(os.Getenv(EnvRespawned), os.Args[1:])
}

func isRespawned(value string, args []string) bool {
	return value != "" && value == Marker(args)
}

// Marker fingerprints the arguments a child is respawned with, excluding
// the program name.
func Marker(args []string) string {
	sum := sha256.Sum256([]byte(strings.Join(args, "\x00")))
	return hex.EncodeToString(sum[:8])
}

// Respawn starts argv[0] with the remaining arguments and waits for it.
// onStart, if set, is called once the child is running and before waiting.
// The returned exit code is the child's, or 128 plus the signal number when
// the child was killed by a signal.
func (e *Executor) Respawn(argv []string, onStart func(*os.Process)) (types.ExitCode, error) {
	if len(argv) == 0 {
		return 1, &SpawnError{Err: ErrEmptyArgv}
	}
	return e.run(argv, onStart, EnvRespawned+"="+Marker(argv[1:]))
}

// Run starts argv like Respawn but without marking the child as respawned.
// It launches an invocation that already carries its flags.
func (e *Executor) Run(argv []string, onStart func(*os.Process)) (types.ExitCode, error) {
	return e.run(argv, onStart)
}

func (e *Executor) run(argv []string, onStart func(*os.Process), extraEnv ...string) (types.ExitCode, error) {
	if len(argv) == 0 {
		return 1, &SpawnError{Err: ErrEmptyArgv}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	env := e.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(append([]string(nil), env...), extraEnv...)

	var sigs chan os.Signal
	if len(e.Signals) > 0 {
		sigs = make(chan os.Signal, 1)
		signal.Notify(sigs, e.Signals...)
		defer signal.Stop(sigs)
	}

	if err := cmd.Start(); err != nil {
		return 1, &SpawnError{Argv: append([]string(nil), argv...), Err: err}
	}
	if onStart != nil {
		onStart(cmd.Process)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-sigs:
			// The child may already be gone; its status arrives on done.
			_ = cmd.Process.Signal(sig)
		case err := <-done:
			return exitCode(err)
		}
	}
}

func exitCode(err error) (types.ExitCode, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("waiting for child: %w", err)
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return types.ExitCodeFromSignal(int(ws.Signal())), nil
	}
	return types.ExitCode(exitErr.ExitCode()), nil
}
