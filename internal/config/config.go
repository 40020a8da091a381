package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// AppDir is the directory name used under the config base and the home dir
const AppDir = "listctl"

// LegacyAppDir is the directory earlier releases stored schemas under
const LegacyAppDir = "slack-lists"

// User match policies
const (
	UserMatchFirst  = "first"
	UserMatchStrict = "strict"
)

// Config represents the application configuration
type Config struct {
	APIURL     string      `yaml:"api_url"`
	TokenEnv   string      `yaml:"token_env"`
	SampleSize int         `yaml:"sample_size"`
	UserMatch  string      `yaml:"user_match"`
	RatingMax  int         `yaml:"rating_max"`
	LogLevel   string      `yaml:"log_level"`
	Cache      CacheConfig `yaml:"cache"`
	Theme      Theme       `yaml:"theme"`
}

// CacheConfig controls where schemas are cached
type CacheConfig struct {
	// BaseDir overrides the config base; empty means XDG_CONFIG_HOME or ~/.config
	BaseDir      string `yaml:"base_dir"`
	AppDir       string `yaml:"app_dir"`
	LegacyAppDir string `yaml:"legacy_app_dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

var (
	loadOnce  sync.Once
	loadedCfg *Config
	loadedErr error
)

// Get returns the process-wide configuration, loading it on first use.
// The result is never reloaded within a process run.
func Get() (*Config, error) {
	loadOnce.Do(func() {
		loadedCfg, loadedErr = Load()
	})
	return loadedCfg, loadedErr
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		return Default(), nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Token returns the API token from the configured environment variable
func (c *Config) Token() string {
	return os.Getenv(c.TokenEnv)
}

// BaseDir returns the config base used for the schema cache
func (c *Config) BaseDir() (string, error) {
	if c.Cache.BaseDir != "" {
		return c.Cache.BaseDir, nil
	}
	return configBase()
}

// configBase returns XDG_CONFIG_HOME, falling back to ~/.config
func configBase() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return configHome, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	base, err := configBase()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDir, "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = "https://slack.com/api"
	}
	if c.TokenEnv == "" {
		c.TokenEnv = "LISTCTL_TOKEN"
	}
	if c.SampleSize <= 0 {
		c.SampleSize = 100
	}
	c.UserMatch = strings.ToLower(c.UserMatch)
	if c.UserMatch != UserMatchStrict {
		c.UserMatch = UserMatchFirst
	}
	if c.RatingMax <= 0 {
		c.RatingMax = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Cache.AppDir == "" {
		c.Cache.AppDir = AppDir
	}
	if c.Cache.LegacyAppDir == "" {
		c.Cache.LegacyAppDir = LegacyAppDir
	}
	c.Theme.ApplyDefaults()
}
