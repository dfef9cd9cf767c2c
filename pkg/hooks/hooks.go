// Package hooks runs the per-package pre and post executables that live
// under the hooks directory as <hooks>/<name>/pre and <hooks>/<name>/post.
package hooks

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/rs/zerolog"
)

// Stage is when a hook runs relative to its package's main step
type Stage string

const (
	StagePre  Stage = "pre"
	StagePost Stage = "post"
)

// Environment passed to every hook
const (
	EnvHooksDir   = "HOOKS_DIR"
	EnvConfigsDir = "CONFIGS_DIR"
	EnvHookName   = "BOOTSTRAP_HOOK"
	EnvHookStage  = "BOOTSTRAP_HOOK_STAGE"
	EnvDryRun     = "BOOTSTRAP_DRY_RUN"
)

// Runner finds and runs hooks
type Runner struct {
	cmd        system.Commander
	dir        string
	configsDir string
	logger     zerolog.Logger
}

// NewRunner creates a hook runner rooted at dir
func NewRunner(cmd system.Commander, dir, configsDir string) *Runner {
	return &Runner{
		cmd:        cmd,
		dir:        dir,
		configsDir: configsDir,
		logger:     logging.GetLogger("hooks"),
	}
}

// Dir is the hooks root
func (r *Runner) Dir() string { return r.dir }

// Path is where the hook for name and stage would live
func (r *Runner) Path(name string, stage Stage) string {
	return filepath.Join(r.dir, name, string(stage))
}

// Has reports whether name has a hook directory
func (r *Runner) Has(name string) bool {
	info, err := os.Stat(filepath.Join(r.dir, name))
	return err == nil && info.IsDir()
}

// Run executes the hook if it exists. It reports whether a hook ran.
func (r *Runner) Run(ctx context.Context, name string, stage Stage) (bool, error) {
	path := r.Path(name, stage)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, nil
	}

	r.logger.Info().Str("hook", name).Str("stage", string(stage)).Msg("Running hook")
	env := map[string]string{
		EnvHooksDir:   r.dir,
		EnvConfigsDir: r.configsDir,
		EnvHookName:   name,
		EnvHookStage:  string(stage),
	}
	if r.cmd.DryRun() {
		env[EnvDryRun] = "true"
	}

	command := system.Quote(path)
	if info.Mode()&0111 == 0 {
		command = system.Shell + " " + command
	}
	if _, err := r.cmd.Run(ctx, command, system.RunOptions{
		Env:   env,
		Dir:   filepath.Dir(path),
		Quiet: true,
	}); err != nil {
		return true, errors.Wrapf(err, errors.ErrCommandFailed, "%s %s hook failed", name, stage).
			WithDetail("hook", name).
			WithDetail("stage", string(stage))
	}
	return true, nil
}

// RunBoth runs the pre then the post hook of name
func (r *Runner) RunBoth(ctx context.Context, name string) error {
	for _, stage := range []Stage{StagePre, StagePost} {
		if _, err := r.Run(ctx, name, stage); err != nil {
			return err
		}
	}
	return nil
}
