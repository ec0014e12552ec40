// Package config handles the global bibfix configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/bibfix/config.yml.
type Config struct {
	MaxAuthors    int      `yaml:"max_authors,omitempty"`    // Default author truncation threshold (0 = unlimited)
	AbbrevList    string   `yaml:"abbrev_list,omitempty"`    // Path to a user journal abbreviation list (YAML)
	MinimalFields []string `yaml:"minimal_fields,omitempty"` // Extra fields dropped by --minimal
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "bibfix"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheDBFile is the abbreviation cache file name.
	CacheDBFile = "abbrev.db"
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file. The BIBFIX_CONFIG
// environment variable takes precedence; otherwise XDG_CONFIG_HOME is
// respected, defaulting to ~/.config/bibfix/config.yml.
func Path() string {
	if override := os.Getenv("BIBFIX_CONFIG"); override != "" {
		return override
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration file. Returns an empty config
// (not an error) if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.AbbrevList != "" {
		cfg.AbbrevList = ExpandTilde(cfg.AbbrevList)
	}

	configCache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	configCache = nil
}

// CachePath returns the path to the abbreviation cache database,
// creating its parent directory if needed. Respects XDG_CACHE_HOME,
// defaulting to ~/.cache/bibfix/abbrev.db.
func CachePath() (string, error) {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving cache directory: %w", err)
		}
		cacheHome = filepath.Join(home, ".cache")
	}

	dir := filepath.Join(cacheHome, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	return filepath.Join(dir, CacheDBFile), nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
