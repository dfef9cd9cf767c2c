package config

import (
	"path/filepath"
	"time"
)

// Config is the effective configuration after all layers are merged
type Config struct {
	DryRun  bool    `koanf:"dry_run"`
	TUI     TUI     `koanf:"tui"`
	Log     Log     `koanf:"log"`
	Paths   Paths   `koanf:"paths"`
	Install Install `koanf:"install"`

	// effective holds the merged layers as loaded, for Dump
	effective map[string]interface{}
}

// TUI holds the live progress view settings
type TUI struct {
	Enabled         bool          `koanf:"enabled"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	MaxWidth        int           `koanf:"max_width"`
	CompactHeight   int           `koanf:"compact_height"`
	JoinTimeout     time.Duration `koanf:"join_timeout"`
}

// Log holds logging settings
type Log struct {
	File      string `koanf:"file"`
	Verbosity int    `koanf:"verbosity"`
}

// Paths locates the dotfiles repository. Relative entries are resolved
// against Root.
type Paths struct {
	Root               string `koanf:"root"`
	Configs            string `koanf:"configs"`
	Hooks              string `koanf:"hooks"`
	EnvFile            string `koanf:"env_file"`
	PrerequisiteMarker string `koanf:"prerequisite_marker"`
}

// Install lists what the install phases work through
type Install struct {
	Formulae         []string `koanf:"formulae"`
	DisabledFormulae []string `koanf:"disabled_formulae"`
	Casks            []string `koanf:"casks"`
	MasApps          []MasApp `koanf:"mas_apps"`
	PriorityHooks    []string `koanf:"priority_hooks"`
}

// MasApp is a Mac App Store application
type MasApp struct {
	Name    string `koanf:"name"`
	ID      int64  `koanf:"id"`
	Enabled bool   `koanf:"enabled"`
}

// EnabledMasApps returns the apps marked enabled, in order
func (i Install) EnabledMasApps() []MasApp {
	var out []MasApp
	for _, app := range i.MasApps {
		if app.Enabled {
			out = append(out, app)
		}
	}
	return out
}

// FormulaDisabled reports whether name is on the disabled list
func (i Install) FormulaDisabled(name string) bool {
	for _, d := range i.DisabledFormulae {
		if d == name {
			return true
		}
	}
	return false
}

func (p *Paths) resolve(markerDir string) error {
	root, err := filepath.Abs(p.Root)
	if err != nil {
		return err
	}
	p.Root = root
	for _, path := range []*string{&p.Configs, &p.Hooks, &p.EnvFile} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(root, *path)
		}
	}
	if p.PrerequisiteMarker == "" {
		p.PrerequisiteMarker = filepath.Join(markerDir, PrerequisiteMarkerName)
	}
	return nil
}
