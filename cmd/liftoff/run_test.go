// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/liftoff/internal/issue"
	"github.com/invowk/liftoff/pkg/respawn"
)

func TestRun_RespawnsWithMissingFlags(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	cfg.Flags = "--harmony"
	h := newHarness(t, cfg, nil)
	h.respawner.code = 3

	dir := t.TempDir()
	err := h.run("run", "--cwd", dir, "--", "node", "app.js", "build")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("run error = %v, want exit code 3", err)
	}
	want := [][]string{{testExecutable, "run", "--cwd", dir, "--", "node", "--harmony", "app.js", "build"}}
	if diff := cmp.Diff(want, h.respawner.argv); diff != "" {
		t.Errorf("respawned argv mismatch (-want +got):\n%s", diff)
	}
	if len(h.launcher.launches) != 0 {
		t.Errorf("launcher ran %d times after a respawn", len(h.launcher.launches))
	}
}

func TestRun_RespawnSuccessIsNotAnError(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	cfg.Flags = "--harmony"
	h := newHarness(t, cfg, nil)

	if err := h.run("run", "--cwd", t.TempDir(), "--", "node", "app.js"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if len(h.respawner.argv) != 1 {
		t.Fatalf("respawner called %d times, want 1", len(h.respawner.argv))
	}
}

func TestRun_ForcedFlagsFromEnvAndFlags(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testSettings(), map[string]string{
		EnvForcedFlags: "--max-old-space-size=4096",
	})

	dir := t.TempDir()
	err := h.run("run", "--cwd", dir, "--force-flag", "--trace", "--", "node", "app.js")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	want := [][]string{{
		testExecutable, "run", "--cwd", dir, "--force-flag=--trace",
		"--", "node", "--max-old-space-size=4096", "--trace", "app.js",
	}}
	if diff := cmp.Diff(want, h.respawner.argv); diff != "" {
		t.Errorf("respawned argv mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_RespawnedInvocationPreloadsOnceInChild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testSettings()
	cfg.Flags = "--harmony"

	parent := newHarness(t, cfg, nil)
	if err := parent.run("run", "--cwd", dir, "-r", "missing-module.json", "--", "node", "app.js"); err != nil {
		t.Fatalf("parent run error = %v", err)
	}
	if len(parent.respawner.argv) != 1 {
		t.Fatalf("respawner called %d times, want 1", len(parent.respawner.argv))
	}
	respawned := parent.respawner.argv[0]
	want := []string{
		testExecutable, "run", "--cwd", dir, "--require", "missing-module.json",
		"--", "node", "--harmony", "app.js",
	}
	if diff := cmp.Diff(want, respawned); diff != "" {
		t.Errorf("respawned argv mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(parent.stderr.String(), "preload failed") {
		t.Errorf("parent preloaded before respawning:\n%s", parent.stderr.String())
	}

	child := newHarness(t, cfg, nil)
	if err := child.run(respawned[1:]...); err != nil {
		t.Fatalf("child run error = %v", err)
	}
	if len(child.respawner.argv) != 0 {
		t.Fatalf("child respawned again: %v", child.respawner.argv)
	}
	if len(child.launcher.launches) != 1 {
		t.Fatalf("launcher called %d times, want 1", len(child.launcher.launches))
	}
	got := child.launcher.launches[0]
	if diff := cmp.Diff([]string{"node", "--harmony", "app.js"}, got.Argv); diff != "" {
		t.Errorf("launched argv mismatch (-want +got):\n%s", diff)
	}
	if got.Dir != dir {
		t.Errorf("launch dir = %q, want %q", got.Dir, dir)
	}
	if !slices.Contains(got.Env, "LIFTOFF_CWD="+dir) {
		t.Error("launch environment lacks LIFTOFF_CWD")
	}
	if n := strings.Count(child.stderr.String(), "preload failed"); n != 1 {
		t.Errorf("child reported %d preload failures, want 1:\n%s", n, child.stderr.String())
	}
}

func TestRun_SelfArgvRepeatsSettingsAndVerbosity(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	cfg.Flags = "--harmony"
	h := newHarness(t, cfg, nil)
	h.app.Config = &staticConfigProvider{cfg: cfg, path: "/etc/liftoff/config.cue"}

	dir := t.TempDir()
	tasks := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(tasks, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.run("run", "--verbose", "--cwd", dir, "--config", tasks, "--", "node", "app.js"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	want := [][]string{{
		testExecutable, "run", "--settings", "/etc/liftoff/config.cue", "--verbose",
		"--cwd", dir, "--config", tasks,
		"--", "node", "--harmony", "app.js",
	}}
	if diff := cmp.Diff(want, h.respawner.argv); diff != "" {
		t.Errorf("respawned argv mismatch (-want +got):\n%s", diff)
	}
}

func TestToolEnviron_DropsRespawnMarker(t *testing.T) {
	t.Setenv(respawn.EnvRespawned, "feedface")

	h := newHarness(t, testSettings(), nil)
	dir := t.TempDir()
	if err := h.run("run", "--cwd", dir, "--", "node", "app.js"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if len(h.launcher.launches) != 1 {
		t.Fatalf("launcher called %d times, want 1", len(h.launcher.launches))
	}
	for _, kv := range h.launcher.launches[0].Env {
		if strings.HasPrefix(kv, respawn.EnvRespawned+"=") {
			t.Errorf("launch environment carries %s", kv)
		}
	}
}

func TestRun_ReadyLaunchesInResolvedCwd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "hackerfile.json")
	if err := os.WriteFile(cfgPath, []byte(`{"tasks": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testSettings()
	cfg.Flags = "--harmony"
	h := newHarness(t, cfg, nil)

	err := h.run("run", "--cwd", dir, "--", "node", "--harmony", "app.js")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if len(h.respawner.argv) != 0 {
		t.Fatalf("ready invocation was respawned: %v", h.respawner.argv)
	}
	if len(h.launcher.launches) != 1 {
		t.Fatalf("launcher called %d times, want 1", len(h.launcher.launches))
	}

	got := h.launcher.launches[0]
	if diff := cmp.Diff([]string{"node", "--harmony", "app.js"}, got.Argv); diff != "" {
		t.Errorf("launched argv mismatch (-want +got):\n%s", diff)
	}
	if got.Dir != dir {
		t.Errorf("launch dir = %q, want %q", got.Dir, dir)
	}
	if !slices.Contains(got.Env, "LIFTOFF_CWD="+dir) {
		t.Error("launch environment lacks LIFTOFF_CWD")
	}
	if !slices.Contains(got.Env, "LIFTOFF_CONFIG="+cfgPath) {
		t.Error("launch environment lacks LIFTOFF_CONFIG")
	}
}

func TestRun_LauncherExitCode(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testSettings(), nil)
	h.launcher.code = 5

	err := h.run("run", "--cwd", t.TempDir(), "--", "node", "app.js")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 5 {
		t.Fatalf("run error = %v, want exit code 5", err)
	}
	if exitErr.Err != nil {
		t.Errorf("exit error carries a message: %v", exitErr.Err)
	}
}

func TestRun_LauncherFailureIsActionable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testSettings(), nil)
	h.launcher.err = &respawn.SpawnError{Argv: []string{"node"}, Err: os.ErrNotExist}

	err := h.run("run", "--cwd", t.TempDir(), "--", "node", "app.js")

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("run error = %T %v, want *issue.ActionableError", err, err)
	}
	if ae.IssueId != issue.RespawnFailedId {
		t.Errorf("IssueId = %v, want RespawnFailedId", ae.IssueId)
	}
}

func TestRun_InvalidFlagsSetting(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	cfg.Flags = `--unterminated "quote`
	h := newHarness(t, cfg, nil)

	err := h.run("run", "--cwd", t.TempDir(), "--", "node", "app.js")
	if classifyError(err) != issue.FlagsResolutionFailedId {
		t.Errorf("classifyError(%v) = %v, want FlagsResolutionFailedId", err, classifyError(err))
	}
}

func TestRun_CompletionRequest(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testSettings(), nil)

	if err := h.run("run", "--completion", "bash", "--", "node", "app.js"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if h.stdout.Len() == 0 {
		t.Error("no completion script was written")
	}
	if len(h.launcher.launches) != 0 || len(h.respawner.argv) != 0 {
		t.Error("a completion request must not start the tool")
	}
}
