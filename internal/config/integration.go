package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configFileName is the name of the config file inside the config directory.
const configFileName = "config.yaml"

// GetConfigDir returns the eventview configuration directory: $EVENTVIEW_HOME when set,
// otherwise ~/.eventview.
func GetConfigDir() (string, error) {
	if home := os.Getenv("EVENTVIEW_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".eventview"), nil
}

// DefaultConfigPath returns the path of config.yaml inside the config directory.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureLogDir creates the parent directory of the configured log file. It does nothing
// when logging to a file is not configured.
func EnsureLogDir(cfg *Config) error {
	if cfg == nil || cfg.Logging.File == "" {
		return nil
	}
	return ensureParentDir(cfg.Logging.File)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	return nil
}
