package config_test

import (
	"testing"

	"github.com/arthur-debert/bootstrap/pkg/config"
	"github.com/arthur-debert/bootstrap/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDump(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{
		SkipUserFile: true,
		Overrides:    map[string]interface{}{"tui.max_width": 72},
	})
	require.NoError(t, err)

	t.Run("toml", func(t *testing.T) {
		out, err := cfg.Dump(config.FormatTOML)
		require.NoError(t, err)

		var back map[string]interface{}
		require.NoError(t, toml.Unmarshal(out, &back))
		tui := back["tui"].(map[string]interface{})
		assert.EqualValues(t, 72, tui["max_width"])
		assert.Equal(t, "500ms", tui["refresh_interval"])
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := cfg.Dump(config.FormatYAML)
		require.NoError(t, err)

		var back map[string]interface{}
		require.NoError(t, yaml.Unmarshal(out, &back))
		tui := back["tui"].(map[string]interface{})
		assert.EqualValues(t, 72, tui["max_width"])
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := cfg.Dump("json5")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
