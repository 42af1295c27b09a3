package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadFile reads a plugin configuration from a YAML (or
// JSON) file.
func LoadFile(path string) (PluginConfig, error) {
	const errCtx = "loading plugin configuration"

	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return PluginConfig{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	var pc PluginConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return PluginConfig{}, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	return pc, nil
}
