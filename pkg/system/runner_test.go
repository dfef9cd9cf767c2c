package system_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(dryRun, quiet bool) (*system.Runner, *bytes.Buffer) {
	var out bytes.Buffer
	return system.NewRunner(system.RunnerOptions{
		DryRun: dryRun,
		Quiet:  quiet,
		Stdout: &out,
		Stderr: &out,
	}), &out
}

func TestRunStreamsOutput(t *testing.T) {
	r, out := newRunner(false, false)

	res, err := r.Run(context.Background(), "echo hello", system.RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "hello\n", res.Output)
	assert.Equal(t, "hello\n", out.String())
}

func TestRunQuietCaptures(t *testing.T) {
	tests := []struct {
		name        string
		runnerQuiet bool
		runQuiet    bool
	}{
		{name: "runner quiet", runnerQuiet: true},
		{name: "call quiet", runQuiet: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newRunner(false, tt.runnerQuiet)
			res, err := r.Run(context.Background(), "echo hidden; echo err >&2", system.RunOptions{Quiet: tt.runQuiet})
			require.NoError(t, err)
			assert.Contains(t, res.Output, "hidden")
			assert.Contains(t, res.Output, "err")
			assert.Empty(t, out.String())
		})
	}
}

func TestRunFailure(t *testing.T) {
	r, _ := newRunner(false, true)

	res, err := r.Run(context.Background(), "exit 3", system.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, 3, errors.GetErrorDetails(err)["exitCode"])
	assert.Contains(t, err.Error(), "Command failed (3): exit 3")
}

func TestRunAllowFailure(t *testing.T) {
	r, _ := newRunner(false, true)

	res, err := r.Run(context.Background(), "false", system.RunOptions{AllowFailure: true})
	require.NoError(t, err)
	assert.False(t, res.Success())
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	r, out := newRunner(true, false)

	res, err := r.Run(context.Background(), "touch "+system.Quote(marker), system.RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Contains(t, out.String(), "[DRY-RUN] touch")
	assert.NoFileExists(t, marker)
	assert.True(t, r.DryRun())
}

func TestRunEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	r, _ := newRunner(false, true)

	res, err := r.Run(context.Background(), `printf "%s %s" "$GREETING" "$(pwd)"`, system.RunOptions{
		Env: map[string]string{"GREETING": "hi"},
		Dir: dir,
	})
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, []string{"hi " + dir, "hi " + resolved}, res.Output)
}

func TestRunCancelled(t *testing.T) {
	r, _ := newRunner(false, true)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "sleep 5", system.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInterrupted))
}

func TestCheck(t *testing.T) {
	r, _ := newRunner(true, false)
	assert.True(t, r.Check(context.Background(), "true"), "probes run in dry-run mode")
	assert.False(t, r.Check(context.Background(), "false"))
}

func TestLookPath(t *testing.T) {
	r, _ := newRunner(false, true)
	assert.NotEmpty(t, r.LookPath("sh"))

	fallback := filepath.Join(t.TempDir(), "brew")
	require.NoError(t, os.WriteFile(fallback, []byte("#!/bin/sh\n"), 0755))
	assert.Equal(t, fallback, r.LookPath("definitely-not-installed-xyz", "/nonexistent/brew", fallback))
	assert.Equal(t, "", r.LookPath("definitely-not-installed-xyz"))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, system.Quote("plain"))
	assert.Equal(t, `'it'\''s'`, system.Quote("it's"))
}
