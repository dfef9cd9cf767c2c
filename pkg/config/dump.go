package config

import (
	"strings"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dump formats supported by Config.Dump
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Dump renders the merged configuration layers as TOML or YAML
func (c *Config) Dump(format string) ([]byte, error) {
	data := c.effective
	if data == nil {
		data = map[string]interface{}{}
	}

	switch strings.ToLower(format) {
	case "", FormatTOML:
		out, err := toml.Marshal(data)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
		return out, nil
	case FormatYAML, "yml":
		out, err := yaml.Marshal(data)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q", format).
			WithDetail("format", format)
	}
}
