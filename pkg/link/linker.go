// Package link symlinks configuration packages into the home directory with
// GNU stow, running each package's hooks around it.
package link

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/bootstrap/pkg/display"
	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/hooks"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/arthur-debert/bootstrap/pkg/tui"
	"github.com/rs/zerolog"
)

// ignoredEntries never count when checking whether a package is linked
var ignoredEntries = map[string]bool{".DS_Store": true}

// Options wires a Linker
type Options struct {
	Commander  system.Commander
	Reporter   tui.Reporter
	Display    *display.Display
	Hooks      *hooks.Runner
	ConfigsDir string
	Home       string
}

// Linker links and unlinks configuration packages
type Linker struct {
	cmd        system.Commander
	reporter   tui.Reporter
	display    *display.Display
	hooks      *hooks.Runner
	configsDir string
	home       string
	logger     zerolog.Logger
}

// New creates a Linker. A nil Reporter reports nowhere.
func New(opts Options) *Linker {
	l := &Linker{
		cmd:        opts.Commander,
		reporter:   opts.Reporter,
		display:    opts.Display,
		hooks:      opts.Hooks,
		configsDir: opts.ConfigsDir,
		home:       opts.Home,
		logger:     logging.GetLogger("link"),
	}
	if l.reporter == nil {
		l.reporter = (*tui.Manager)(nil)
	}
	return l
}

// Packages lists the package directories under the configs dir, sorted,
// without dot-prefixed entries
func (l *Linker) Packages() ([]string, error) {
	if err := requireDir(l.configsDir, "Configs"); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.configsDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirMissing, "failed to read %s", l.configsDir)
	}

	var packages []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.IsDir() {
			continue
		}
		packages = append(packages, e.Name())
	}
	sort.Strings(packages)
	return packages, nil
}

// Link stows every package that is not linked yet. A failing package is
// recorded and the rest still run; the phase then returns LINK_FAILED.
func (l *Linker) Link(ctx context.Context) error {
	done := logging.LogOperationStart(l.logger, "link configs")
	defer done()

	l.display.Header("Linking Configs")
	l.reporter.StartSection(tui.SectionLink)

	packages, err := l.Packages()
	if err == nil && l.hooks != nil {
		err = requireDir(l.hooks.Dir(), "Hooks")
	}
	if err != nil {
		l.reporter.CompleteSection(false)
		l.display.Fail(err.Error())
		return err
	}

	var failed []string
	err = l.display.Spin("Linking Configs...", "", func(s *display.Spinner) error {
		for _, pkg := range packages {
			if ctx.Err() != nil {
				return errors.Wrap(ctx.Err(), errors.ErrInterrupted, "linking cancelled")
			}
			l.reporter.StartTask(pkg)
			if l.Linked(pkg) {
				l.logger.Info().Str("package", pkg).Msg("Skipping (already linked)")
				l.reporter.SkipTask()
				continue
			}
			s.Update(fmt.Sprintf("Linking %s...", pkg))
			if err := l.linkPackage(ctx, pkg); err != nil {
				l.reporter.Error(err.Error())
				failed = append(failed, pkg)
				continue
			}
			l.reporter.CompleteTask(true, "")
		}
		return nil
	})
	l.reporter.CompleteSection(err == nil && len(failed) == 0)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		err := errors.Newf(errors.ErrLinkFailed, "failed to link %s", strings.Join(failed, ", ")).
			WithDetail("packages", failed)
		l.display.Fail(err.Error())
		return err
	}
	l.display.Success("All configs linked")
	return nil
}

func (l *Linker) linkPackage(ctx context.Context, pkg string) error {
	if l.hooks != nil {
		l.reporter.UpdateTask("pre hook")
		if _, err := l.hooks.Run(ctx, pkg, hooks.StagePre); err != nil {
			return err
		}
	}

	l.reporter.UpdateTask("stow")
	l.logger.Info().Str("package", pkg).Msg("Linking")
	command := fmt.Sprintf("stow --adopt --target=%s --dir=%s %s",
		system.Quote(l.home), system.Quote(l.configsDir), system.Quote(pkg))
	if _, err := l.cmd.Run(ctx, command, system.RunOptions{Quiet: true}); err != nil {
		return err
	}

	if l.hooks != nil {
		l.reporter.UpdateTask("post hook")
		if _, err := l.hooks.Run(ctx, pkg, hooks.StagePost); err != nil {
			return err
		}
	}
	return nil
}

// Unlink removes every package's links. Failures are tolerated per package.
func (l *Linker) Unlink(ctx context.Context) error {
	done := logging.LogOperationStart(l.logger, "unlink configs")
	defer done()

	l.display.Header("Unlinking Configs")
	l.reporter.StartSection(tui.SectionUnlink)

	packages, err := l.Packages()
	if err != nil {
		l.reporter.CompleteSection(false)
		l.display.Fail(err.Error())
		return err
	}

	failed := 0
	err = l.display.Spin("Unlinking Configs...", "", func(s *display.Spinner) error {
		for _, pkg := range packages {
			if ctx.Err() != nil {
				return errors.Wrap(ctx.Err(), errors.ErrInterrupted, "unlinking cancelled")
			}
			l.reporter.StartTask(pkg)
			s.Update(fmt.Sprintf("Unlinking %s...", pkg))
			l.logger.Info().Str("package", pkg).Msg("Unlinking")

			command := fmt.Sprintf("stow --target=%s --dir=%s --delete %s",
				system.Quote(l.home), system.Quote(l.configsDir), system.Quote(pkg))
			res, err := l.cmd.Run(ctx, command, system.RunOptions{AllowFailure: true, Quiet: true})
			switch {
			case err != nil:
				l.reporter.Error(err.Error())
				failed++
			case !res.Success():
				l.reporter.Error(fmt.Sprintf("exit %d", res.ExitCode))
				failed++
			default:
				l.reporter.CompleteTask(true, "")
			}
		}
		return nil
	})
	l.reporter.CompleteSection(err == nil && failed == 0)
	if err != nil {
		return err
	}
	l.display.Success("All configs unlinked")
	return nil
}

// Linked reports whether every top-level entry of pkg already resolves to
// the package's copy from the home directory
func (l *Linker) Linked(pkg string) bool {
	dir := filepath.Join(l.configsDir, pkg)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if ignoredEntries[e.Name()] {
			continue
		}
		target := filepath.Join(l.home, e.Name())
		info, err := os.Lstat(target)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			return false
		}
		if !sameFile(target, filepath.Join(dir, e.Name())) {
			return false
		}
	}
	return true
}

func sameFile(link, source string) bool {
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return false
	}
	want, err := filepath.EvalSymlinks(source)
	if err != nil {
		return false
	}
	return resolved == want
}

func requireDir(path, name string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrDirMissing, "%s directory not found", name).WithDetail("path", path)
	}
	return nil
}
