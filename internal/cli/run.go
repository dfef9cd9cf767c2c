package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/arthur-debert/bootstrap/pkg/config"
	"github.com/arthur-debert/bootstrap/pkg/display"
	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/hooks"
	"github.com/arthur-debert/bootstrap/pkg/install"
	"github.com/arthur-debert/bootstrap/pkg/link"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/arthur-debert/bootstrap/pkg/tui"
	"github.com/oklog/run"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// session is one provisioning run
type session struct {
	cfg    *config.Config
	opts   Options
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

func newRun(cmd *cobra.Command, cfg *config.Config, opts Options) *session {
	return &session{
		cfg:    cfg,
		opts:   opts,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
}

// phases drives the selected work in order
type phases struct {
	opts      Options
	installer *install.Installer
	linker    *link.Linker
}

// execute runs the phases under a run group that also watches for
// interrupts, then prints the summary
func (s *session) execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tuiOn := tui.Enabled(s.stdout, s.cfg.TUI.Enabled)
	logPath := logging.SetupLogger(logging.Options{
		Verbosity: s.cfg.Log.Verbosity,
		Console:   !tuiOn,
		File:      s.cfg.Log.File,
	})
	s.logger = logging.GetLogger("cli")

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf(MsgErrHome, err)
	}

	disp := display.New(s.stdout, display.Options{
		Quiet: func() bool { return tui.Active() != nil },
	})
	if s.cfg.DryRun {
		disp.Warn(MsgDryRunNotice)
	}

	mgr, err := tui.Launch(s.stdout, s.cfg.TUI.Enabled, tui.Options{
		Title: MsgTitle,
		Renderer: tui.RendererOptions{
			Interval:      s.cfg.TUI.RefreshInterval,
			MaxWidth:      s.cfg.TUI.MaxWidth,
			CompactHeight: s.cfg.TUI.CompactHeight,
			LogPath:       logPath,
		},
		JoinTimeout:   s.cfg.TUI.JoinTimeout,
		HandleSignals: true,
	}, s.opts.Skeleton())
	if err != nil {
		return err
	}
	defer mgr.Stop()

	runner := system.NewRunner(system.RunnerOptions{
		DryRun: s.cfg.DryRun,
		Quiet:  mgr != nil,
		Stdout: s.stdout,
		Stderr: s.stderr,
	})
	hookRunner := hooks.NewRunner(runner, s.cfg.Paths.Hooks, s.cfg.Paths.Configs)
	p := &phases{
		opts: s.opts,
		installer: install.New(install.Options{
			Commander: runner,
			Reporter:  mgr,
			Display:   disp,
			Hooks:     hookRunner,
			Install:   s.cfg.Install,
			Paths:     s.cfg.Paths,
			Home:      home,
			User:      os.Getenv("USER"),
		}),
		linker: link.New(link.Options{
			Commander:  runner,
			Reporter:   mgr,
			Display:    disp,
			Hooks:      hookRunner,
			ConfigsDir: s.cfg.Paths.Configs,
			Home:       home,
		}),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	g.Add(func() error {
		return p.run(ctx)
	}, func(error) {
		cancel()
	})
	if mgr != nil {
		done := make(chan struct{})
		g.Add(func() error {
			select {
			case <-mgr.Interrupted():
				return errors.New(errors.ErrInterrupted, tui.InterruptNotice)
			case <-done:
				return nil
			}
		}, func(error) {
			close(done)
		})
	} else {
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}

	err = g.Run()
	mgr.Stop()

	if Interrupted(err) {
		s.logger.Warn().Err(err).Msg("Run interrupted")
		fmt.Fprintf(s.stderr, "\n%s\n", tui.InterruptNotice)
		return err
	}

	if mgr != nil {
		renderSummary(s.stdout, mgr.Snapshot())
		if logPath != "" {
			fmt.Fprintf(s.stdout, MsgLogFileFormat, logPath)
		}
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Run failed")
		return err
	}
	disp.Success(MsgAllDone)
	return nil
}

// run executes the selected phases. A prerequisite failure stops everything;
// later phase failures are collected and the remaining phases still run.
func (p *phases) run(ctx context.Context) error {
	if p.opts.Prerequisites() {
		if err := p.installer.Prerequisites(ctx); err != nil {
			return err
		}
	}

	steps := []struct {
		enabled bool
		fn      func(context.Context) error
	}{
		{p.opts.Formulae(), p.installer.Formulae},
		{p.opts.Casks(), p.installer.Casks},
		{p.opts.MasApps(), p.installer.MasApps},
		{p.opts.Unlinking(), p.linker.Unlink},
		{p.opts.Linking(), p.linker.Link},
	}

	var errs []error
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), errors.ErrInterrupted, "run cancelled")
		}
		if err := step.fn(ctx); err != nil {
			if errors.IsErrorCode(err, errors.ErrInterrupted) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Interrupted reports whether err ended the run because of a signal
func Interrupted(err error) bool {
	if err == nil {
		return false
	}
	var sigErr run.SignalError
	return errors.IsErrorCode(err, errors.ErrInterrupted) || stderrors.As(err, &sigErr)
}
