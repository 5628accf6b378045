// Package config loads and persists the application configuration from a
// TOML file. Every field has a sensible default, so the application runs
// without a config file at all.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Config holds every tunable of the application.
type Config struct {
	// DatabasePath points at the SQLite corpus database.
	DatabasePath string `toml:"database_path"`

	// PreviewRadius is the number of runes of context kept on each side
	// of a matched term in a result preview.
	PreviewRadius int `toml:"preview_radius"`

	// ResultsPerPage is the page size of the search results listing.
	ResultsPerPage int `toml:"results_per_page"`

	// AcceptedSpecialCharacters are the non-alphanumeric characters that
	// survive search-term sanitization (everything else is stripped).
	AcceptedSpecialCharacters string `toml:"accepted_special_characters"`

	// SearchPlaceholder is the hint text shown in the web search bar.
	SearchPlaceholder string `toml:"search_placeholder"`

	// CountCacheTTL bounds how long per-term result counts and magazine
	// facets are served from memory before hitting SQLite again.
	CountCacheTTL Duration `toml:"count_cache_ttl"`

	Web WebConfig `toml:"web"`
}

// WebConfig configures the HTTP server.
type WebConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// Duration wraps time.Duration for TOML round-tripping.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// GetDefaultConfig returns a Config with every field set to its default.
func GetDefaultConfig() (*Config, error) {
	dbPath, err := GetDefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("getting default database path: %w", err)
	}
	cfg := &Config{DatabasePath: dbPath}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PreviewRadius <= 0 {
		c.PreviewRadius = 200
	}
	if c.ResultsPerPage <= 0 {
		c.ResultsPerPage = 10
	}
	if c.SearchPlaceholder == "" {
		c.SearchPlaceholder = "Caută în colecţia de reviste..."
	}
	if c.CountCacheTTL.Duration == 0 {
		c.CountCacheTTL = Duration{15 * time.Minute}
	}
	if c.Web.Host == "" {
		c.Web.Host = "localhost"
	}
	if c.Web.Port == "" {
		c.Web.Port = "8080"
	}
}

// LoadConfig reads the file at configPath. A missing file yields the
// defaults; a malformed file is an error.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DatabasePath == "" {
		dbPath, err := GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("getting default database path: %w", err)
		}
		config.DatabasePath = dbPath
	}
	config.applyDefaults()

	return &config, nil
}

// SaveConfig writes the config as TOML, creating parent directories.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the annotated sample config with the database
// path substituted in, for `hemeroteca init`.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	dbPath := c.DatabasePath
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDBPath()
		if err != nil {
			return fmt.Errorf("getting default database path: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/hemeroteca/hemeroteca.db", dbPath, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultStorageDir returns (and creates) the data directory.
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "hemeroteca")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", appDir, err)
	}

	return appDir, nil
}

// GetDefaultDBPath returns the default database location inside the data
// directory.
func GetDefaultDBPath() (string, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(storageDir, "hemeroteca.db"), nil
}

// GetConfigDir returns (and creates) the configuration directory.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	appConfigDir := filepath.Join(configDir, "hemeroteca")
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", appConfigDir, err)
	}

	return appConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
