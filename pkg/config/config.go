// Package config loads the essaypilot configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	OpenAIAPIKey string         `json:"openai_api_key"`
	Model        string         `json:"model,omitempty"`
	RedisURL     string         `json:"redis_url,omitempty"`
	StateDir     string         `json:"state_dir,omitempty"`
	Defaults     DefaultsConfig `json:"defaults"`
}

// DefaultsConfig holds default values for commands.
type DefaultsConfig struct {
	ExportDir string `json:"export_dir,omitempty"`
}

// GetModel returns the configured model or the provider default.
func (c *Config) GetModel() (model string) {
	model = c.Model
	return model
}

// GetStateDir returns the local state directory, defaulting to
// ~/.essaypilot.
func (c *Config) GetStateDir() (dir string, err error) {
	if c.StateDir != "" {
		dir = c.StateDir
		return dir, err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return dir, err
	}
	dir = filepath.Join(homeDir, ".essaypilot")
	return dir, err
}

// Load reads configuration from file.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return cfg, err
		}
		path = filepath.Join(homeDir, ".essaypilot", "config.json")
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks required configuration fields.
func (c *Config) Validate() (err error) {
	if c.OpenAIAPIKey == "" {
		err = errors.New("openai_api_key is required")
		return err
	}
	return err
}
