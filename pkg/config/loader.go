package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppName names the config and state directories under XDG
const AppName = "bootstrap"

// EnvPrefix marks environment variables read as config. A double underscore
// separates sections: BOOTSTRAP_TUI__MAX_WIDTH sets tui.max_width.
const EnvPrefix = "BOOTSTRAP_"

// PrerequisiteMarkerName is the file recording a finished prerequisite phase
const PrerequisiteMarkerName = "prerequisites.done"

// userFileNames are tried in order inside the XDG config directory
var userFileNames = []string{"bootstrap.toml", "bootstrap.yaml", "bootstrap.yml"}

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions selects the user file and command-line overrides
type LoadOptions struct {
	// File is an explicit config path. It must exist when set.
	File string

	// Overrides are dotted keys applied last, e.g. "tui.enabled": false
	Overrides map[string]interface{}

	// SkipUserFile ignores the XDG config directory
	SkipUserFile bool
}

// Load merges every layer and decodes the result
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	path := opts.File
	if path == "" && !opts.SkipUserFile {
		path = FindUserFile()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path).
				WithDetail("path", path)
		}
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if err := cfg.Paths.resolve(StateDir()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to resolve paths")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.effective = k.Raw()
	return &cfg, nil
}

// Validate rejects settings the progress view cannot work with
func (c *Config) Validate() error {
	switch {
	case c.TUI.RefreshInterval <= 0:
		return errors.New(errors.ErrConfigValid, "tui.refresh_interval must be positive").
			WithDetail("value", c.TUI.RefreshInterval.String())
	case c.TUI.MaxWidth < 20:
		return errors.New(errors.ErrConfigValid, "tui.max_width must be at least 20").
			WithDetail("value", c.TUI.MaxWidth)
	case c.TUI.JoinTimeout <= 0:
		return errors.New(errors.ErrConfigValid, "tui.join_timeout must be positive").
			WithDetail("value", c.TUI.JoinTimeout.String())
	}
	for _, app := range c.Install.MasApps {
		if app.ID <= 0 {
			return errors.Newf(errors.ErrConfigValid, "mas app %q has no id", app.Name)
		}
	}
	return nil
}

// envKey maps BOOTSTRAP_TUI to tui.enabled and BOOTSTRAP_A__B_C to a.b_c
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "tui" {
		return "tui.enabled"
	}
	return strings.ReplaceAll(key, "__", ".")
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// ConfigDir is $XDG_CONFIG_HOME/bootstrap
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StateDir is $XDG_STATE_HOME/bootstrap
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// FindUserFile returns the first user config file present, or ""
func FindUserFile() string {
	for _, name := range userFileNames {
		path := filepath.Join(ConfigDir(), name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
