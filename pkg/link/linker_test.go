package link_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/hooks"
	"github.com/arthur-debert/bootstrap/pkg/link"
	"github.com/arthur-debert/bootstrap/pkg/system"
	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/arthur-debert/bootstrap/pkg/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommander struct {
	mu      sync.Mutex
	failing map[string]int
	ran     []string
}

func (f *fakeCommander) Run(_ context.Context, command string, opts system.RunOptions) (system.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = append(f.ran, command)
	for substr, code := range f.failing {
		if strings.Contains(command, substr) {
			if opts.AllowFailure {
				return system.Result{Command: command, ExitCode: code}, nil
			}
			return system.Result{Command: command, ExitCode: code},
				errors.Newf(errors.ErrCommandFailed, "Command failed (%d): %s", code, command)
		}
	}
	return system.Result{Command: command}, nil
}

func (f *fakeCommander) Check(context.Context, string) bool { return false }
func (f *fakeCommander) LookPath(string, ...string) string { return "" }
func (f *fakeCommander) DryRun() bool { return false }

type fixture struct {
	configs string
	hooks   string
	home    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	fx := fixture{
		configs: filepath.Join(root, "Configs"),
		hooks:   filepath.Join(root, "Hooks"),
		home:    t.TempDir(),
	}
	for _, f := range []string{"zsh/.zshrc", "git/.gitconfig", ".hidden/x"} {
		path := filepath.Join(fx.configs, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(fx.configs, "README"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(fx.hooks, "git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(fx.hooks, "git", "pre"), []byte("#!/bin/sh\n"), 0755))
	return fx
}

func (fx fixture) linker(cmd system.Commander, reporter tui.Reporter) *link.Linker {
	return link.New(link.Options{
		Commander:  cmd,
		Reporter:   reporter,
		Hooks:      hooks.NewRunner(cmd, fx.hooks, fx.configs),
		ConfigsDir: fx.configs,
		Home:       fx.home,
	})
}

func newManager() *tui.Manager {
	return tui.New(tui.Options{Renderer: tui.RendererOptions{Output: io.Discard}})
}

func TestPackages(t *testing.T) {
	fx := newFixture(t)
	pkgs, err := fx.linker(&fakeCommander{}, nil).Packages()
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "zsh"}, pkgs)
}

func TestLinked(t *testing.T) {
	fx := newFixture(t)
	l := fx.linker(&fakeCommander{}, nil)
	assert.False(t, l.Linked("zsh"))

	require.NoError(t, os.Symlink(filepath.Join(fx.configs, "zsh", ".zshrc"), filepath.Join(fx.home, ".zshrc")))
	assert.True(t, l.Linked("zsh"))

	// a regular file in the way is not a link
	require.NoError(t, os.WriteFile(filepath.Join(fx.home, ".gitconfig"), nil, 0644))
	assert.False(t, l.Linked("git"))
}

func TestLink(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, os.Symlink(filepath.Join(fx.configs, "zsh", ".zshrc"), filepath.Join(fx.home, ".zshrc")))

	cmd := &fakeCommander{}
	m := newManager()
	tui.BuildSkeleton(m.Tree(), tui.BuildOptions{Link: true})

	require.NoError(t, fx.linker(cmd, m).Link(context.Background()))

	assert.Equal(t, []string{
		system.Quote(filepath.Join(fx.hooks, "git", "pre")),
		"stow --adopt --target=" + system.Quote(fx.home) + " --dir=" + system.Quote(fx.configs) + " 'git'",
	}, cmd.ran)

	sections := m.Snapshot().Sections()
	require.Len(t, sections, 2, "the skeleton section is reused")
	section := sections[1]
	assert.Equal(t, tui.SectionLink, section.Name)
	assert.Equal(t, tasks.StateDone, section.State)
	require.Len(t, section.Children, 2)
	assert.Equal(t, tasks.StateDone, section.Children[0].State)
	assert.Equal(t, tasks.StateSkipped, section.Children[1].State)
}

func TestLinkFailureContinues(t *testing.T) {
	fx := newFixture(t)
	cmd := &fakeCommander{failing: map[string]int{"'git'": 1}}
	m := newManager()

	err := fx.linker(cmd, m).Link(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkFailed))
	assert.Equal(t, []string{"git"}, errors.GetErrorDetails(err)["packages"])

	section := m.Snapshot().Sections()[0]
	assert.Equal(t, tasks.StateError, section.State)
	assert.Equal(t, tasks.StateError, section.Children[0].State)
	assert.Equal(t, tasks.StateDone, section.Children[1].State)
}

func TestLinkMissingDirs(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, os.RemoveAll(fx.hooks))

	m := newManager()
	err := fx.linker(&fakeCommander{}, m).Link(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirMissing))
	assert.Equal(t, tasks.StateError, m.Snapshot().Sections()[0].State)

	require.NoError(t, os.RemoveAll(fx.configs))
	err = fx.linker(&fakeCommander{}, nil).Unlink(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirMissing))
}

func TestUnlink(t *testing.T) {
	fx := newFixture(t)
	cmd := &fakeCommander{failing: map[string]int{"'zsh'": 1}}
	m := newManager()

	require.NoError(t, fx.linker(cmd, m).Unlink(context.Background()), "unlink failures are tolerated")
	assert.Len(t, cmd.ran, 2)
	assert.Contains(t, cmd.ran[0], "--delete 'git'")

	section := m.Snapshot().Sections()[0]
	assert.Equal(t, tui.SectionUnlink, section.Name)
	assert.Equal(t, tasks.StateError, section.State)
	assert.Equal(t, tasks.StateDone, section.Children[0].State)
	assert.Equal(t, tasks.StateError, section.Children[1].State)
	assert.Equal(t, "exit 1", section.Children[1].ErrorMessage)
}
