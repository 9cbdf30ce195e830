// Package config provides configuration management for netsim.
//
// Config file locations (priority order):
//  1. $NETSIM_CONFIG
//  2. ./netsim.yaml
//  3. $XDG_CONFIG_HOME/netsim/config.yaml
//  4. ~/.config/netsim/config.yaml
//  5. /etc/netsim/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "./netsim.db"
	}
	if c.Blob.Backend == "" {
		c.Blob.Backend = BackendFS
	}
	if c.Blob.Dir == "" {
		c.Blob.Dir = "./blobs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(500 * time.Millisecond)
	}
}

// Validate reports settings no backend can serve
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	switch c.Blob.Backend {
	case BackendFS, BackendMemory:
	case BackendS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob backend s3 requires blob.s3.bucket"))
		}
		if (c.Blob.S3.AccessKeyID == "") != (c.Blob.S3.SecretAccessKey == "") {
			errs = append(errs, errors.New("blob.s3 needs both access_key_id and secret_access_key or neither"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob backend %q", c.Blob.Backend))
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Database: %s (%s)\n", c.Database.Driver, c.Database.Path)
	switch c.Blob.Backend {
	case BackendS3:
		summary += fmt.Sprintf("Blobs: s3://%s/%s\n", c.Blob.S3.Bucket, c.Blob.S3.Prefix)
	case BackendFS:
		summary += fmt.Sprintf("Blobs: %s\n", c.Blob.Dir)
	default:
		summary += fmt.Sprintf("Blobs: %s\n", c.Blob.Backend)
	}
	summary += fmt.Sprintf("Log: %s/%s, Server: %s", c.Log.Level, c.Log.Format, c.Server.Addr)
	return summary
}
