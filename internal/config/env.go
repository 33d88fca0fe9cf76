package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "EVENTVIEW"

// envOverrides mirrors the overridable settings. Pointer fields stay nil when the variable
// is unset so an empty environment never clobbers file values.
type envOverrides struct {
	BaseURL    *string        `envconfig:"BASE_URL"`
	Timeout    *time.Duration `envconfig:"TIMEOUT"`
	EventsPath *string        `envconfig:"EVENTS_PATH"`
	LogLevel   *string        `envconfig:"LOG_LEVEL"`
	LogFormat  *string        `envconfig:"LOG_FORMAT"`
	LogFile    *string        `envconfig:"LOG_FILE"`
}

// ApplyEnv applies EVENTVIEW_* variables to cfg.
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}

	if env.BaseURL != nil {
		cfg.Server.BaseURL = *env.BaseURL
	}
	if env.Timeout != nil {
		cfg.Server.Timeout = *env.Timeout
	}
	if env.EventsPath != nil {
		cfg.Server.EventsPath = *env.EventsPath
	}
	if env.LogLevel != nil {
		cfg.Logging.Level = *env.LogLevel
	}
	if env.LogFormat != nil {
		cfg.Logging.Format = *env.LogFormat
	}
	if env.LogFile != nil {
		cfg.Logging.File = *env.LogFile
	}
	return nil
}
