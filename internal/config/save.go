package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Encode serializes the config as TOML when toTOML is set, YAML otherwise.
func (c *Config) Encode(toTOML bool) ([]byte, error) {
	if toTOML {
		return toml.Marshal(c)
	}
	return yaml.Marshal(c)
}

// SaveTo writes the config to a specific path. The format follows the file
// extension.
func (c *Config) SaveTo(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Encode(isTOML(path))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
