// Package config loads the application settings from a YAML file, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the directory name used under the XDG config and data homes.
	AppName = "myday"

	configFile = "config.yaml"

	// ThemeLight and ThemeDark are the supported UI themes.
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Environment variables that override the config file.
const (
	EnvDB       = "MYDAY_DB"
	EnvLog      = "MYDAY_LOG"
	EnvLogLevel = "MYDAY_LOG_LEVEL"
	EnvTheme    = "MYDAY_THEME"
)

// Config holds the settings for one run of the app.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Theme    string         `yaml:"theme"`
}

// DatabaseConfig locates the sqlite file that holds the saved state.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig says where debug logs go; the terminal belongs to the UI.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Default returns the settings used when there is no config file.
func Default() *Config {
	dataDir := DefaultDataDir()

	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dataDir, "myday.sqlite")},
		Log:      LogConfig{Path: filepath.Join(dataDir, "debug.log"), Level: zerolog.InfoLevel.String()},
		Theme:    ThemeDark,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/myday/config.yaml, or ~/.config/myday/config.yaml.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, configFile)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return configFile
	}

	return filepath.Join(home, ".config", AppName, configFile)
}

// DefaultDataDir returns $XDG_DATA_HOME/myday, or ~/.local/share/myday.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".local", "share", AppName)
}

// Load reads the config file at path (DefaultConfigPath if empty), fills in defaults for
// anything it doesn't set and applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(EnvLog); v != "" {
		c.Log.Path = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv(EnvTheme); v != "" {
		c.Theme = v
	}
}

// Validate checks the values that can't be used as given.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path must be set")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Theme != ThemeLight && c.Theme != ThemeDark {
		return fmt.Errorf("unknown theme '%s' (expected %s or %s)", c.Theme, ThemeLight, ThemeDark)
	}

	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("error parsing log level '%s': %w", c.Log.Level, err)
	}

	return level, nil
}

// EnsureDirs creates the directories holding the database and the log file.
func (c *Config) EnsureDirs() error {
	for _, path := range []string{c.Database.Path, c.Log.Path} {
		if path == "" {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("error creating directory for %s: %w", path, err)
		}
	}

	return nil
}
