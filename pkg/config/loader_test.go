package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/config"
	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{SkipUserFile: true})
	require.NoError(t, err)

	assert.True(t, cfg.TUI.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.TUI.RefreshInterval)
	assert.Equal(t, 80, cfg.TUI.MaxWidth)
	assert.Equal(t, 24, cfg.TUI.CompactHeight)
	assert.Equal(t, 2*time.Second, cfg.TUI.JoinTimeout)
	assert.False(t, cfg.DryRun)

	assert.Contains(t, cfg.Install.Formulae, "git")
	assert.True(t, cfg.Install.FormulaDisabled("rust"))
	assert.False(t, cfg.Install.FormulaDisabled("git"))
	assert.Equal(t, []string{"core", "cargo", "mos", "zsh", "starship", "lunarvim"}, cfg.Install.PriorityHooks)

	for _, app := range cfg.Install.EnabledMasApps() {
		assert.True(t, app.Enabled)
		assert.NotZero(t, app.ID)
	}
	assert.Less(t, len(cfg.Install.EnabledMasApps()), len(cfg.Install.MasApps))

	assert.True(t, filepath.IsAbs(cfg.Paths.Root))
	assert.Equal(t, filepath.Join(cfg.Paths.Root, "Configs"), cfg.Paths.Configs)
	assert.Equal(t, filepath.Join(cfg.Paths.Root, "Hooks"), cfg.Paths.Hooks)
	assert.Equal(t, config.PrerequisiteMarkerName, filepath.Base(cfg.Paths.PrerequisiteMarker))
}

func TestLoadUserFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "bootstrap.toml",
			content: `
[tui]
max_width = 60

[paths]
root = "/srv/dotfiles"

[install]
formulae = ["git", "jq"]
`,
		},
		{
			name: "yaml",
			file: "bootstrap.yaml",
			content: `
tui:
  max_width: 60
paths:
  root: /srv/dotfiles
install:
  formulae: [git, jq]
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg, err := config.Load(config.LoadOptions{File: path})
			require.NoError(t, err)

			assert.Equal(t, 60, cfg.TUI.MaxWidth)
			assert.Equal(t, 500*time.Millisecond, cfg.TUI.RefreshInterval, "defaults survive")
			assert.Equal(t, []string{"git", "jq"}, cfg.Install.Formulae)
			assert.Equal(t, "/srv/dotfiles/Configs", cfg.Paths.Configs)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(config.LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadBadFile(t *testing.T) {
	path := writeFile(t, "bootstrap.toml", "[tui\nenabled = ")
	_, err := config.Load(config.LoadOptions{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("BOOTSTRAP_TUI", "false")
	t.Setenv("BOOTSTRAP_DRY_RUN", "true")
	t.Setenv("BOOTSTRAP_TUI__REFRESH_INTERVAL", "250ms")
	t.Setenv("BOOTSTRAP_INSTALL__CASKS", "ghostty,zed")

	cfg, err := config.Load(config.LoadOptions{SkipUserFile: true})
	require.NoError(t, err)

	assert.False(t, cfg.TUI.Enabled)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 250*time.Millisecond, cfg.TUI.RefreshInterval)
	assert.Equal(t, []string{"ghostty", "zed"}, cfg.Install.Casks)
}

func TestLoadOverridesWin(t *testing.T) {
	t.Setenv("BOOTSTRAP_DRY_RUN", "false")
	path := writeFile(t, "bootstrap.toml", "[log]\nverbosity = 1\n")

	cfg, err := config.Load(config.LoadOptions{
		File: path,
		Overrides: map[string]interface{}{
			"dry_run":       true,
			"log.verbosity": 3,
			"tui.enabled":   false,
		},
	})
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 3, cfg.Log.Verbosity)
	assert.False(t, cfg.TUI.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{name: "zero interval", overrides: map[string]interface{}{"tui.refresh_interval": "0s"}},
		{name: "narrow", overrides: map[string]interface{}{"tui.max_width": 10}},
		{name: "zero join", overrides: map[string]interface{}{"tui.join_timeout": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(config.LoadOptions{SkipUserFile: true, Overrides: tt.overrides})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestValidateMasAppID(t *testing.T) {
	path := writeFile(t, "bootstrap.toml", "[[install.mas_apps]]\nname = \"Broken\"\nenabled = true\n")
	_, err := config.Load(config.LoadOptions{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
