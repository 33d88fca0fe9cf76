// Package config loads eventview configuration from ~/.eventview/config.yaml and the
// environment. Precedence, lowest to highest: built-in defaults, config file,
// EVENTVIEW_* environment variables, command-line flags (applied by the cli package).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:5000"
	DefaultTimeout    = 30 * time.Second
	DefaultEventsPath = "/events"
	DefaultSortBy     = "timestamp"
	DefaultSortOrder  = "desc"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Validation errors.
var (
	ErrInvalidBaseURL   = errors.New("server.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout   = errors.New("server.timeout must be positive")
	ErrInvalidSortOrder = errors.New("table.sort_order must be 'asc' or 'desc'")
	ErrInvalidLogFormat = errors.New("logging.format must be 'console' or 'json'")
)

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Table   TableConfig   `yaml:"table"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the monitoring backend.
type ServerConfig struct {
	// BaseURL is the scheme://host[:port] of the backend serving /api/*.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds every request; a request that exceeds it fails as timed out.
	Timeout time.Duration `yaml:"timeout"`

	// EventsPath is the path component of locations shown to and accepted from the user.
	EventsPath string `yaml:"events_path"`
}

// TableConfig holds the table's initial sort when the location does not name one.
type TableConfig struct {
	SortBy    string `yaml:"sort_by"`
	SortOrder string `yaml:"sort_order"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:    DefaultBaseURL,
			Timeout:    DefaultTimeout,
			EventsPath: DefaultEventsPath,
		},
		Table: TableConfig{
			SortBy:    DefaultSortBy,
			SortOrder: DefaultSortOrder,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads the config file at path on top of the defaults and then applies environment
// overrides. An empty path means the default location; a missing default file is not an
// error, a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	// A missing default file just means the user never wrote one.
	if err := cfg.mergeFile(path); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

// mergeFile unmarshals the YAML file onto cfg. Keys absent from the file keep their values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// normalize fills zero values left behind by partial files or overrides.
func (c *Config) normalize() {
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.EventsPath == "" {
		c.Server.EventsPath = DefaultEventsPath
	}
	if !strings.HasPrefix(c.Server.EventsPath, "/") {
		c.Server.EventsPath = "/" + c.Server.EventsPath
	}
	if c.Table.SortBy == "" {
		c.Table.SortBy = DefaultSortBy
	}
	c.Table.SortOrder = strings.ToLower(c.Table.SortOrder)
	if c.Table.SortOrder == "" {
		c.Table.SortOrder = DefaultSortOrder
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Server.BaseURL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Server.Timeout)
	}
	if c.Table.SortOrder != "asc" && c.Table.SortOrder != "desc" {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, c.Table.SortOrder)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

// Save writes cfg to path as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = ensureParentDir(path); err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
