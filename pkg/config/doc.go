// Package config loads the bootstrap configuration.
//
// Layers are applied in order, later ones winning: the embedded defaults,
// an optional user file (TOML or YAML), BOOTSTRAP_* environment variables,
// then command-line overrides.
package config
