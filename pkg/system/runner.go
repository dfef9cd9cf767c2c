// Package system runs shell commands on behalf of the install and link phases.
package system

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/rs/zerolog"
)

// Shell interprets every command string
const Shell = "/bin/sh"

// waitDelay bounds how long a cancelled command may hold its output pipes
const waitDelay = time.Second

// RunnerOptions configures a Runner
type RunnerOptions struct {
	DryRun bool

	// Quiet captures all command output into the log. Set it while the live
	// progress view owns the terminal.
	Quiet bool

	// Stdout and Stderr receive streamed output, os.Stdout/os.Stderr by default
	Stdout io.Writer
	Stderr io.Writer
}

// RunOptions tunes a single command
type RunOptions struct {
	// AllowFailure turns a non-zero exit into a logged warning
	AllowFailure bool
	Env          map[string]string
	Dir          string
	Quiet        bool
}

// Result describes a finished command
type Result struct {
	Command  string
	ExitCode int
	Output   string
	DryRun   bool
}

// Success reports a zero exit status
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes commands through /bin/sh -c
type Runner struct {
	logger zerolog.Logger
	dryRun bool
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a runner
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		logger: logging.GetLogger("system.runner"),
		dryRun: opts.DryRun,
		quiet:  opts.Quiet,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	return r
}

// DryRun reports whether commands are only logged
func (r *Runner) DryRun() bool { return r.dryRun }

// Run executes command. In dry-run mode it only announces the command.
// A non-zero exit yields a COMMAND_FAILED error unless AllowFailure is set.
func (r *Runner) Run(ctx context.Context, command string, opts RunOptions) (Result, error) {
	result := Result{Command: command}
	quiet := r.quiet || opts.Quiet

	logging.LogCommand(r.logger, command, r.dryRun)
	if r.dryRun {
		result.DryRun = true
		if !quiet {
			fmt.Fprintf(r.stdout, "[DRY-RUN] %s\n", command)
		}
		return result, nil
	}

	cmd := exec.CommandContext(ctx, Shell, "-c", command)
	cmd.Dir = opts.Dir
	cmd.WaitDelay = waitDelay
	cmd.Env = mergeEnv(os.Environ(), opts.Env)

	var captured bytes.Buffer
	if quiet {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = io.MultiWriter(r.stdout, &captured)
		cmd.Stderr = io.MultiWriter(r.stderr, &captured)
	}

	err := cmd.Run()
	result.Output = captured.String()
	if captured.Len() > 0 {
		r.logger.Debug().Str("command", command).Str("output", result.Output).Msg("Command output")
	}
	if err == nil {
		r.logger.Debug().Str("command", command).Msg("Command succeeded")
		return result, nil
	}

	result.ExitCode = exitCode(err)
	if ctx.Err() != nil {
		return result, errors.Wrapf(ctx.Err(), errors.ErrInterrupted, "command cancelled: %s", command).
			WithDetail("command", command)
	}

	message := fmt.Sprintf("Command failed (%d): %s", result.ExitCode, command)
	if opts.AllowFailure {
		r.logger.Warn().Int("exitCode", result.ExitCode).Str("command", command).Msg(message)
		return result, nil
	}
	r.logger.Error().Err(err).Int("exitCode", result.ExitCode).Str("command", command).Msg(message)
	return result, errors.Wrap(err, errors.ErrCommandFailed, message).
		WithDetail("command", command).
		WithDetail("exitCode", result.ExitCode)
}

// Check runs a read-only probe and reports whether it exited zero. Probes
// run even in dry-run mode so skips are decided the same way.
func (r *Runner) Check(ctx context.Context, command string) bool {
	cmd := exec.CommandContext(ctx, Shell, "-c", command)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	err := cmd.Run()
	r.logger.Trace().Str("command", command).Bool("ok", err == nil).Msg("Probe")
	return err == nil
}

// LookPath finds name on PATH, then at the first existing fallback.
// It returns "" when nothing matches.
func (r *Runner) LookPath(name string, fallbacks ...string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	for _, candidate := range fallbacks {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := append([]string(nil), base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// Quote wraps s in single quotes for the shell
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Commander is the slice of Runner the phases depend on
type Commander interface {
	Run(ctx context.Context, command string, opts RunOptions) (Result, error)
	Check(ctx context.Context, command string) bool
	LookPath(name string, fallbacks ...string) string
	DryRun() bool
}

var _ Commander = (*Runner)(nil)
