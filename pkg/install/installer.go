// Package install runs the prerequisite, Homebrew and Mac App Store phases,
// reporting each item as a task.
package install

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/bootstrap/pkg/config"
	"github.com/arthur-debert/bootstrap/pkg/display"
	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/hooks"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/arthur-debert/bootstrap/pkg/tui"
	"github.com/rs/zerolog"
)

// Well-known tool locations tried when a tool is not on PATH
var (
	brewFallbacks = []string{"/opt/homebrew/bin/brew", "/usr/local/bin/brew"}
	masFallbacks  = []string{"/opt/homebrew/bin/mas"}
)

// Options wires an Installer
type Options struct {
	Commander system.Commander
	Reporter  tui.Reporter
	Display   *display.Display
	Hooks     *hooks.Runner
	Install   config.Install
	Paths     config.Paths
	Home      string
	User      string
}

// Installer runs the install phases
type Installer struct {
	cmd      system.Commander
	reporter tui.Reporter
	display  *display.Display
	hooks    *hooks.Runner
	cfg      config.Install
	paths    config.Paths
	home     string
	user     string
	logger   zerolog.Logger
}

// New creates an Installer. A nil Reporter reports nowhere.
func New(opts Options) *Installer {
	in := &Installer{
		cmd:      opts.Commander,
		reporter: opts.Reporter,
		display:  opts.Display,
		hooks:    opts.Hooks,
		cfg:      opts.Install,
		paths:    opts.Paths,
		home:     opts.Home,
		user:     opts.User,
		logger:   logging.GetLogger("install"),
	}
	if in.reporter == nil {
		in.reporter = (*tui.Manager)(nil)
	}
	if in.hooks == nil {
		in.hooks = hooks.NewRunner(opts.Commander, opts.Paths.Hooks, opts.Paths.Configs)
	}
	return in
}

// item is one unit of a package phase
type item struct {
	name     string
	label    string
	disabled bool
	probe    string
	install  string
	hooks    bool
}

// runItems reports each item as a task under section and returns the number
// of failed items. Items whose probe succeeds are skipped.
func (in *Installer) runItems(ctx context.Context, section string, items []item) (int, error) {
	failed := 0
	in.reporter.StartSection(section)
	err := in.display.Spin(section+"...", "", func(s *display.Spinner) error {
		for _, it := range items {
			if ctx.Err() != nil {
				return errors.Wrap(ctx.Err(), errors.ErrInterrupted, "install cancelled")
			}
			if !in.runItem(ctx, it, s) {
				failed++
			}
		}
		return nil
	})
	in.reporter.CompleteSection(err == nil && failed == 0)
	return failed, err
}

func (in *Installer) runItem(ctx context.Context, it item, s *display.Spinner) bool {
	label := it.label
	if label == "" {
		label = it.name
	}
	in.reporter.StartTask(label)

	switch {
	case it.disabled:
		in.logger.Info().Str("item", it.name).Msg("Skipping (disabled)")
		in.reporter.SkipTask()
		return true
	case it.probe != "" && in.cmd.Check(ctx, it.probe):
		in.logger.Info().Str("item", it.name).Msg("Skipping (already installed)")
		in.reporter.SkipTask()
		return true
	}

	s.Update(fmt.Sprintf("Installing %s...", label))
	in.reporter.UpdateTask("installing")
	res, err := in.cmd.Run(ctx, it.install, system.RunOptions{AllowFailure: true, Quiet: true})
	if err != nil {
		in.reporter.Error(err.Error())
		return false
	}
	if !res.Success() {
		in.reporter.Error(fmt.Sprintf("exit %d", res.ExitCode))
		in.display.Warn(fmt.Sprintf("Failed to install %s", label))
		return false
	}

	if it.hooks {
		in.reporter.UpdateTask("running hooks")
		if err := in.hooks.RunBoth(ctx, it.name); err != nil {
			in.reporter.Error(err.Error())
			return false
		}
	}
	in.reporter.CompleteTask(true, "")
	return true
}

func (in *Installer) brew() (string, error) {
	brew := in.cmd.LookPath("brew", brewFallbacks...)
	if brew == "" {
		return "", errors.New(errors.ErrToolMissing, "Homebrew is not available").WithDetail("tool", "brew")
	}
	return brew, nil
}

// Formulae installs every configured formula missing from Homebrew
func (in *Installer) Formulae(ctx context.Context) error {
	done := logging.LogOperationStart(in.logger, "install formulae")
	defer done()

	in.display.Header("Installing formulae")
	brew, err := in.brew()
	if err != nil {
		in.failSection(tui.SectionFormulae, err)
		return err
	}

	items := make([]item, 0, len(in.cfg.Formulae))
	for _, f := range in.cfg.Formulae {
		short := filepath.Base(f)
		items = append(items, item{
			name:     f,
			disabled: in.cfg.FormulaDisabled(f),
			probe:    fmt.Sprintf("%s list --formula %s", system.Quote(brew), system.Quote(short)),
			install:  fmt.Sprintf("%s install --quiet --formula %s", system.Quote(brew), system.Quote(f)),
		})
	}
	failed, err := in.runItems(ctx, tui.SectionFormulae, items)
	return in.finish("formulae", failed, err)
}

// Casks installs every configured cask missing from Homebrew, then runs the
// cask's hooks
func (in *Installer) Casks(ctx context.Context) error {
	done := logging.LogOperationStart(in.logger, "install casks")
	defer done()

	in.display.Header("Installing casks")
	brew, err := in.brew()
	if err != nil {
		in.failSection(tui.SectionCasks, err)
		return err
	}

	items := make([]item, 0, len(in.cfg.Casks))
	for _, c := range in.cfg.Casks {
		items = append(items, item{
			name:    c,
			probe:   fmt.Sprintf("%s list --cask %s", system.Quote(brew), system.Quote(filepath.Base(c))),
			install: fmt.Sprintf("%s install --quiet --cask %s", system.Quote(brew), system.Quote(c)),
			hooks:   true,
		})
	}
	failed, err := in.runItems(ctx, tui.SectionCasks, items)
	return in.finish("casks", failed, err)
}

// MasApps installs the enabled Mac App Store apps. Failures are reported
// but never fail the phase.
func (in *Installer) MasApps(ctx context.Context) error {
	done := logging.LogOperationStart(in.logger, "install mas apps")
	defer done()

	mas := in.cmd.LookPath("mas", masFallbacks...)
	if mas == "" {
		err := errors.New(errors.ErrToolMissing, "mas CLI is not installed").WithDetail("tool", "mas")
		in.failSection(tui.SectionMasApps, err)
		return err
	}

	in.display.Header("Installing Mac App Store applications")
	in.display.Info("Please login to the App Store if prompted.")

	apps := in.cfg.EnabledMasApps()
	items := make([]item, 0, len(apps))
	for _, app := range apps {
		items = append(items, item{
			name:    app.Name,
			install: fmt.Sprintf("%s install %d", system.Quote(mas), app.ID),
		})
	}
	failed, err := in.runItems(ctx, tui.SectionMasApps, items)
	if err != nil {
		return err
	}
	if failed > 0 {
		in.display.Warn(fmt.Sprintf("%d app(s) failed to install", failed))
	}
	return nil
}

func (in *Installer) failSection(section string, err error) {
	in.reporter.StartSection(section)
	in.reporter.CompleteSection(false)
	in.display.Fail(err.Error())
}

func (in *Installer) finish(what string, failed int, err error) error {
	if err != nil {
		return err
	}
	if failed > 0 {
		in.display.Warn(fmt.Sprintf("%d of the %s failed to install", failed, what))
		return nil
	}
	in.display.Success(fmt.Sprintf("All %s installed", what))
	return nil
}
