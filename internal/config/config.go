// Package config loads the unifs CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "unifs.yaml"

// DefaultBufferSize is the buffer window given to files created through the
// CLI when the config does not say otherwise.
const DefaultBufferSize = 512

// Config holds the CLI settings.
type Config struct {
	// Source is the default directory or archive to open.
	Source string `yaml:"source,omitempty"`
	// MountPoint is the default mount target for the mount command.
	MountPoint string `yaml:"mount_point,omitempty"`
	// BufferSize is the buffer window length for file nodes.
	BufferSize int `yaml:"buffer_size,omitempty"`
	// LogLevel names the logging verbosity (error, warn, info, debug, trace).
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BufferSize: DefaultBufferSize,
		LogLevel:   "info",
	}
}

// Load reads the config file at the given path and merges it over the
// defaults. A missing file is reported as ErrConfigNotFound.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.BufferSize < 0 {
		return nil, fmt.Errorf("invalid buffer_size %d in %s", cfg.BufferSize, path)
	}
	return cfg, nil
}
