package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kastheco/tabtray/log"
)

const (
	ConfigFileName   = "config.toml"
	DatabaseFileName = "tabtray.db"

	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "TABTRAY_CONFIG_DIR"

	defaultInactiveAfterDays = 14
	defaultRefreshSeconds    = 60
	defaultNewTabURL         = "about:home"
)

// GetConfigDir returns the path to the application's configuration directory.
// Uses XDG-compliant ~/.config/tabtray/ unless TABTRAY_CONFIG_DIR is set.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tabtray"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tabtray"), nil
}

// Config represents the application configuration
type Config struct {
	// InactiveAfterDays is how long a tab may go unvisited before it moves to
	// the inactive tabs section.
	InactiveAfterDays int `toml:"inactive_after_days" json:"inactive_after_days"`
	// RefreshIntervalSeconds is how often inactivity is re-evaluated while
	// the tray is open.
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds" json:"refresh_interval_seconds"`
	// NewTabURL is opened when the new tab form is submitted without a url.
	NewTabURL string `toml:"new_tab_url" json:"new_tab_url"`
	// DatabasePath overrides the location of the tab database.
	DatabasePath string `toml:"database_path,omitempty" json:"database_path,omitempty"`
	// Animate controls row highlight animations.
	Animate *bool `toml:"animate,omitempty" json:"animate,omitempty"`
	// TelemetryEnabled controls whether crash reporting via Sentry is active.
	// Defaults to true when not set; a DSN must also be provided.
	TelemetryEnabled *bool `toml:"telemetry_enabled,omitempty" json:"telemetry_enabled,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		InactiveAfterDays:      defaultInactiveAfterDays,
		RefreshIntervalSeconds: defaultRefreshSeconds,
		NewTabURL:              defaultNewTabURL,
	}
}

// InactiveAfter returns the inactivity threshold.
func (c *Config) InactiveAfter() time.Duration {
	days := c.InactiveAfterDays
	if days <= 0 {
		days = defaultInactiveAfterDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// RefreshInterval returns the inactivity re-evaluation interval.
func (c *Config) RefreshInterval() time.Duration {
	secs := c.RefreshIntervalSeconds
	if secs <= 0 {
		secs = defaultRefreshSeconds
	}
	return time.Duration(secs) * time.Second
}

// IsAnimationEnabled returns whether row animations are on. Defaults to true.
func (c *Config) IsAnimationEnabled() bool {
	if c.Animate == nil {
		return true
	}
	return *c.Animate
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

// ResolveDatabasePath returns the configured database path, or the default
// one inside the config directory.
func (c *Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFileName), nil
}

// LoadConfigFrom reads a TOML config file. Missing keys keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.WarningLog.Printf("unknown config keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

// LoadConfig loads the config file from the config directory, writing the
// defaults there on first run. Errors fall back to the defaults.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	cfg, err := LoadConfigFrom(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	return cfg
}

// saveConfig saves the configuration to disk
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(filepath.Join(configDir, ConfigFileName), buf.Bytes(), 0644)
}

// SaveConfig exports the saveConfig function for use by other packages
func SaveConfig(config *Config) error {
	return saveConfig(config)
}
