package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	Records struct {
		DSN string `yaml:"dsn"`
	} `yaml:"records"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
}

// HTTPConfig controls how pages are fetched.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// LogConfig selects the logger level and output format ("json" or
// "console").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ScrapingConfigPaths point at scraping config files that replace the
// built-in ones. Empty means built-in.
type ScrapingConfigPaths struct {
	Archive string `yaml:"archive"`
	Teaser  string `yaml:"teaser"`
	Article string `yaml:"article"`
}

// FileConfig represents the structure of ~/.tagesfed/config.yaml.
type FileConfig struct {
	Storage  StorageConfig `yaml:"storage"`
	HTTP     HTTPConfig    `yaml:"http"`
	Log      LogConfig     `yaml:"log"`
	Scraping struct {
		Configs ScrapingConfigPaths `yaml:"configs"`
	} `yaml:"scraping"`
}

// Defaults returns the settings used when neither the config file nor the
// environment says otherwise.
func Defaults() *FileConfig {
	cfg := &FileConfig{}
	cfg.Storage.Records.DSN = "records.db"
	cfg.Storage.Export.Dir = ".records"
	cfg.HTTP.Timeout = 10 * time.Second
	cfg.HTTP.UserAgent = "tagesfed/1.0 (news archive scraper)"
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// Merge overlays every non-empty value of other onto c.
func (c *FileConfig) Merge(other *FileConfig) {
	if other == nil {
		return
	}
	if other.Storage.Records.DSN != "" {
		c.Storage.Records.DSN = other.Storage.Records.DSN
	}
	if other.Storage.Export.Dir != "" {
		c.Storage.Export.Dir = other.Storage.Export.Dir
	}
	if other.HTTP.Timeout != 0 {
		c.HTTP.Timeout = other.HTTP.Timeout
	}
	if other.HTTP.UserAgent != "" {
		c.HTTP.UserAgent = other.HTTP.UserAgent
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	paths := other.Scraping.Configs
	if paths.Archive != "" {
		c.Scraping.Configs.Archive = paths.Archive
	}
	if paths.Teaser != "" {
		c.Scraping.Configs.Teaser = paths.Teaser
	}
	if paths.Article != "" {
		c.Scraping.Configs.Article = paths.Article
	}
}

// DefaultPath returns ~/.tagesfed/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tagesfed", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.tagesfed/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileAt(configPath)
}

// LoadConfigFileAt is LoadConfigFile for an explicit path.
func LoadConfigFileAt(configPath string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
