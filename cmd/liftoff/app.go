// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/liftoff/internal/config"
	"github.com/invowk/liftoff/pkg/events"
	"github.com/invowk/liftoff/pkg/liftoff"
	"github.com/invowk/liftoff/pkg/respawn"
	"github.com/invowk/liftoff/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and reach settings, output streams and process launching
	// through it.
	App struct {
		Config     ConfigProvider
		Respawner  liftoff.Respawner
		Launcher   Launcher
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		getenv     func(string) string
		executable string

		settings     *config.Config
		settingsPath string
		verbose      bool
		logger       *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Respawner liftoff.Respawner
		Launcher  Launcher
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
		// Getenv reads the invocation defaults. Defaults to os.Getenv.
		Getenv func(string) string
		// Executable is the liftoff binary a missing-flags invocation is
		// respawned through. Defaults to os.Executable().
		Executable string
	}

	// ConfigProvider loads the CLI settings.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (config.Loaded, error)
	}

	// Launch describes a ready invocation.
	Launch struct {
		Argv []string
		// Dir is the working directory of the tool.
		Dir string
		// Env is the complete child environment.
		Env []string
	}

	// Launcher starts a ready invocation and waits for it.
	Launcher interface {
		Launch(ctx context.Context, l Launch) (types.ExitCode, error)
	}

	executorLauncher struct {
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Executable == "" {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}
		deps.Executable = exe
	}
	if deps.Respawner == nil {
		e := respawn.NewExecutor()
		e.Stdin, e.Stdout, e.Stderr = deps.Stdin, deps.Stdout, deps.Stderr
		deps.Respawner = e
	}
	if deps.Launcher == nil {
		deps.Launcher = &executorLauncher{stdin: deps.Stdin, stdout: deps.Stdout, stderr: deps.Stderr}
	}

	return &App{
		Config:     deps.Config,
		Respawner:  deps.Respawner,
		Launcher:   deps.Launcher,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		getenv:     deps.Getenv,
		executable: deps.Executable,
		logger:     newLogger(deps.Stderr, config.LogLevelInfo, false),
	}, nil
}

// loadSettings reads the CLI settings and configures the logger. A flag
// value of true for verbose wins over the settings file.
func (a *App) loadSettings(ctx context.Context, cfgFile string, verbose bool) error {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}
	a.settings = loaded.Config
	a.settingsPath = loaded.Path
	a.verbose = verbose || loaded.Config.UI.Verbose
	a.logger = newLogger(a.stderr, loaded.Config.UI.LogLevel, a.verbose)
	return nil
}

// Settings returns the loaded settings, or the defaults before loading.
func (a *App) Settings() *config.Config {
	if a.settings == nil {
		return config.DefaultConfig()
	}
	return a.settings
}

// newLiftoff builds a bootstrapper for the configured tool whose events are
// written to the CLI logger.
func (a *App) newLiftoff(opts ...liftoff.Option) (*liftoff.Liftoff, error) {
	opts = append([]liftoff.Option{liftoff.WithRespawner(a.Respawner)}, opts...)
	lo, err := liftoff.New(a.Settings().LiftoffOptions(), opts...)
	if err != nil {
		return nil, err
	}
	lo.Subscribe(events.LogListener(a.logger))
	return lo, nil
}

func (l *executorLauncher) Launch(ctx context.Context, launch Launch) (types.ExitCode, error) {
	if err := ctx.Err(); err != nil {
		return 1, fmt.Errorf("launch canceled: %w", err)
	}
	e := respawn.NewExecutor()
	e.Stdin, e.Stdout, e.Stderr = l.stdin, l.stdout, l.stderr
	e.Dir = launch.Dir
	e.Env = launch.Env
	return e.Run(launch.Argv, nil)
}
