// ABOUTME: Scout configuration with layered loading and backend selection.
// ABOUTME: Defaults, then a YAML file, then SCOUT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/harperreed/scout/internal/charm"
	"github.com/harperreed/scout/internal/storage"
)

const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"

	// EnvPrefix prefixes every environment override, e.g. SCOUT_BACKEND.
	EnvPrefix = "SCOUT_"

	// EnvConfigPath points at an alternate config file.
	EnvConfigPath = "SCOUT_CONFIG"
)

var (
	// ErrInvalidConfig is returned when a loaded configuration fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig is returned when the config file or environment cannot be read.
	ErrLoadConfig = errors.New("load config failed")
)

// Config stores scout tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `koanf:"backend" yaml:"backend,omitempty"`

	// DataDir is the root directory for SQLite data. Supports ~ expansion.
	// Defaults to ~/.local/share/scout.
	DataDir string `koanf:"data_dir" yaml:"data_dir,omitempty"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level,omitempty"`

	// Addr is the HTTP listen address used by "scout serve".
	Addr string `koanf:"addr" yaml:"addr,omitempty"`

	path string
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		LogLevel: "info",
		Addr:     ":8080",
	}
}

// GetBackend is the configured backend, or sqlite when unset.
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir is the configured data directory with ~ expanded, or
// storage.DataDir when unset.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// Path returns the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks that every field holds a supported value.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite, BackendCharm:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}

	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	return nil
}

// OpenStorage opens the Repository for the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(c.GetDataDir(), "scout.db"))
	case BackendCharm:
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, backend)
	}
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "scout", "config.yaml")
}

// Load builds a Config by layering defaults, the YAML file and env vars.
// Order of precedence (low -> high):
//  1. defaults
//  2. file: path if set, else $SCOUT_CONFIG, else the default path
//  3. env (prefix SCOUT_)
//
// A missing file is only an error when it was named explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvConfigPath); p != "" {
			path, explicit = p, true
		} else {
			path = GetConfigPath()
		}
	}

	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil || explicit {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// SCOUT_DATA_DIR -> data_dir, matching the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk as YAML.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
