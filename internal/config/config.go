// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the registry configuration. It can be loaded from a JSON
// file; missing values fall back to environment variables and defaults.
type Config struct {
	// DatabaseURL is the PostgreSQL connection URL.
	DatabaseURL string `json:"database_url,omitempty"`
	// RepositoryRoot is the staging area for uploaded ontology documents.
	RepositoryRoot string `json:"repository_root,omitempty"`
	// ParseLogDir holds one log file per parse run. Empty means
	// <repository_root>/parse-logs.
	ParseLogDir string `json:"parse_log_dir,omitempty"`
	// ParseWorkers is the size of the parse worker pool.
	ParseWorkers int `json:"parse_workers,omitempty"`
	// ParseQueueSize bounds the number of queued parse jobs.
	ParseQueueSize int `json:"parse_queue_size,omitempty"`
	// ParserCommand is the external parser executable invoked per run.
	ParserCommand string `json:"parser_command,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a configuration from environment variables.
func FromEnv() *Config {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RepositoryRoot: os.Getenv("REPOSITORY_ROOT"),
		ParseLogDir:    os.Getenv("PARSE_LOG_DIR"),
		ParserCommand:  os.Getenv("PARSER_CMD"),
	}
	if v := os.Getenv("PARSE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ParseWorkers = n
		}
	}
	if v := os.Getenv("PARSE_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ParseQueueSize = n
		}
	}
	return cfg
}

// Merge fills empty fields of c from other.
func (c *Config) Merge(other *Config) {
	if c.DatabaseURL == "" {
		c.DatabaseURL = other.DatabaseURL
	}
	if c.RepositoryRoot == "" {
		c.RepositoryRoot = other.RepositoryRoot
	}
	if c.ParseLogDir == "" {
		c.ParseLogDir = other.ParseLogDir
	}
	if c.ParseWorkers == 0 {
		c.ParseWorkers = other.ParseWorkers
	}
	if c.ParseQueueSize == 0 {
		c.ParseQueueSize = other.ParseQueueSize
	}
	if c.ParserCommand == "" {
		c.ParserCommand = other.ParserCommand
	}
}

// Validate checks that the configuration has valid values and applies
// derived defaults.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required (or set DATABASE_URL)")
	}
	if c.RepositoryRoot == "" {
		return fmt.Errorf("config error: 'repository_root' is required (or set REPOSITORY_ROOT)")
	}
	if c.ParseLogDir == "" {
		c.ParseLogDir = filepath.Join(c.RepositoryRoot, "parse-logs")
	}
	if c.ParseWorkers < 0 {
		return fmt.Errorf("config error: 'parse_workers' must be non-negative")
	}
	if c.ParseQueueSize < 0 {
		return fmt.Errorf("config error: 'parse_queue_size' must be non-negative")
	}
	return nil
}
