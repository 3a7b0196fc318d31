// Package config loads the application configuration from the user's
// config directory, falling back to defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig locates the SQLite database file
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls log output
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`
}

// Load loads config from the user's config directory.
// Returns default config if the file doesn't exist. The NEXTHUB_DB_PATH
// environment variable overrides the configured database path.
func Load() (*Config, error) {
	config := defaults()

	configPath, err := getConfigPath()
	if err == nil {
		if data, readErr := os.ReadFile(configPath); readErr == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
			}
		}
	}

	config.applyDefaults()

	if envPath := os.Getenv("NEXTHUB_DB_PATH"); envPath != "" {
		config.Database.Path = envPath
	}

	return config, nil
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// defaults returns a config with every field set to its default
func defaults() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// applyDefaults fills in any missing values
func (c *Config) applyDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(home, ".nexthub", "nexthub.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(home, ".nexthub", "logs", "nexthub.log")
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "nexthub", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "nexthub", "config.yaml"), nil
}
