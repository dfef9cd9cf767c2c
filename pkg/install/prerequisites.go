package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/arthur-debert/bootstrap/pkg/tui"
)

// Installer commands for the toolchains the other phases need
const (
	rustupCommand   = "curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh -s -- --quiet -y --profile default"
	homebrewCommand = `printf '\r' | /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`
	brewShellenv    = `eval "$(/opt/homebrew/bin/brew shellenv)"`
)

// errSatisfied marks a step with nothing to do
var errSatisfied error = errors.New(errors.ErrUnknown, "already satisfied")

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Prerequisites makes sure sudo, cargo, Homebrew, stow, the env file link
// and the priority hooks are in place. A marker file short-circuits repeat
// runs. The first failing step aborts the phase.
func (in *Installer) Prerequisites(ctx context.Context) error {
	done := logging.LogOperationStart(in.logger, "prerequisites")
	defer done()

	in.display.Header("Installing prerequisites")
	in.reporter.StartSection(tui.SectionPrerequisites)

	if in.prerequisitesRan() {
		for _, name := range tui.PrerequisiteSteps {
			in.reporter.StartTask(name)
			in.reporter.SkipTask()
		}
		in.reporter.CompleteSection(true)
		in.display.Info("Pre-requisite check completed.")
		return nil
	}

	steps := []step{
		{tui.StepSudo, in.ensureSudo},
		{tui.StepCargo, in.ensureCargo},
		{tui.StepHomebrew, in.ensureHomebrew},
		{tui.StepStow, in.ensureStow},
		{tui.StepEnvFile, in.linkEnvFile},
		{tui.StepPriorityRun, in.runPriorityHooks},
	}
	for _, s := range steps {
		in.reporter.StartTask(s.name)
		err := s.run(ctx)
		switch {
		case err == errSatisfied:
			in.reporter.SkipTask()
		case err != nil:
			in.reporter.Error(err.Error())
			in.reporter.CompleteSection(false)
			in.display.Fail(err.Error())
			return err
		default:
			in.reporter.CompleteTask(true, "")
		}
	}

	in.reporter.CompleteSection(true)
	if err := in.markPrerequisitesDone(); err != nil {
		in.logger.Warn().Err(err).Msg("Failed to write prerequisite marker")
	}
	return nil
}

func (in *Installer) prerequisitesRan() bool {
	if in.paths.PrerequisiteMarker == "" {
		return false
	}
	data, err := os.ReadFile(in.paths.PrerequisiteMarker)
	return err == nil && strings.TrimSpace(string(data)) == "true"
}

func (in *Installer) markPrerequisitesDone() error {
	if in.cmd.DryRun() || in.paths.PrerequisiteMarker == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(in.paths.PrerequisiteMarker), 0755); err != nil {
		return err
	}
	return os.WriteFile(in.paths.PrerequisiteMarker, []byte("true\n"), 0644)
}

func (in *Installer) ensureSudo(ctx context.Context) error {
	if !in.cmd.Check(ctx, "sudo -n true") {
		in.display.Info("Password may be required for installation:")
		if _, err := in.cmd.Run(ctx, "sudo -v", system.RunOptions{}); err != nil {
			return errors.Wrap(err, errors.ErrCommandFailed, "failed to obtain sudo privileges")
		}
	}
	return in.ensureSudoers(ctx)
}

// ensureSudoers adds a passwordless sudoers entry for the current user
func (in *Installer) ensureSudoers(ctx context.Context) error {
	if in.user == "" {
		return nil
	}
	entry := in.user + "  ALL=(ALL) NOPASSWD:ALL"
	script := strings.Join([]string{
		"set -e",
		`sed -i '' -e 's/#includedir/@includedir/' /private/etc/sudoers`,
		`sudoers_path="/private/etc/sudoers.d/sudoers"`,
		`[ -f "$sudoers_path" ] || touch "$sudoers_path"`,
		"entry=" + system.Quote(entry),
		`grep -q "$entry" "$sudoers_path" || echo "$entry" >> "$sudoers_path"`,
	}, "\n")
	_, err := in.cmd.Run(ctx, "sudo sh -c "+system.Quote(script), system.RunOptions{Quiet: true})
	return err
}

func (in *Installer) ensureCargo(ctx context.Context) error {
	if fileExists(filepath.Join(in.home, ".cargo", "bin", "cargo")) {
		return errSatisfied
	}
	in.reporter.UpdateTask("running rustup")
	_, err := in.cmd.Run(ctx, rustupCommand, system.RunOptions{Quiet: true})
	return err
}

func (in *Installer) ensureHomebrew(ctx context.Context) error {
	if in.cmd.LookPath("brew", brewFallbacks...) != "" {
		return errSatisfied
	}
	in.reporter.UpdateTask("running the Homebrew installer")
	if _, err := in.cmd.Run(ctx, homebrewCommand, system.RunOptions{Quiet: true}); err != nil {
		return err
	}
	if in.cmd.DryRun() {
		return nil
	}
	return appendLine(filepath.Join(in.home, ".zprofile"), brewShellenv)
}

func (in *Installer) ensureStow(ctx context.Context) error {
	if in.cmd.LookPath("stow") != "" {
		return errSatisfied
	}
	brew, err := in.brew()
	if err != nil {
		return err
	}
	_, err = in.cmd.Run(ctx, system.Quote(brew)+" install --quiet --formula stow", system.RunOptions{Quiet: true})
	return err
}

// linkEnvFile points ~/.env at the repository's env file. An existing
// regular ~/.env is left alone.
func (in *Installer) linkEnvFile(ctx context.Context) error {
	source := in.paths.EnvFile
	if source == "" || !fileExists(source) {
		return errSatisfied
	}
	dest := filepath.Join(in.home, ".env")

	info, err := os.Lstat(dest)
	if err == nil && info.Mode()&os.ModeSymlink == 0 {
		in.display.Warn("~/.env exists and is not a symlink. Skipping link.")
		return errSatisfied
	}
	if err == nil {
		if target, err := os.Readlink(dest); err == nil && target == source {
			return errSatisfied
		}
	}

	_, err = in.cmd.Run(ctx, fmt.Sprintf("ln -sf %s %s", system.Quote(source), system.Quote(dest)), system.RunOptions{Quiet: true})
	return err
}

func (in *Installer) runPriorityHooks(ctx context.Context) error {
	ran := false
	for _, name := range in.cfg.PriorityHooks {
		if !in.hooks.Has(name) {
			continue
		}
		in.reporter.UpdateTask(name)
		if err := in.hooks.RunBoth(ctx, name); err != nil {
			return err
		}
		ran = true
	}
	if !ran {
		return errSatisfied
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// appendLine adds line to path unless an identical line is already there
func appendLine(path, line string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, existing := range strings.Split(string(data), "\n") {
		if existing == line {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		line = "\n" + line
	}
	_, err = fmt.Fprintln(f, line)
	return err
}
