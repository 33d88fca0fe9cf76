package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-monitor/eventview/internal/logging"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, DefaultBaseURL, cfg.Server.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Server.Timeout)
	assert.Equal(t, "/events", cfg.Server.EventsPath)
	assert.Equal(t, "timestamp", cfg.Table.SortBy)
	assert.Equal(t, "desc", cfg.Table.SortOrder)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  base_url: https://monitor.example.com/
  timeout: 5s
table:
  sort_by: value
  sort_order: ASC
logging:
  level: debug
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "https://monitor.example.com", cfg.Server.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "/events", cfg.Server.EventsPath, "absent keys keep defaults")
		assert.Equal(t, "value", cfg.Table.SortBy)
		assert.Equal(t, "asc", cfg.Table.SortOrder)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing default file is fine", func(t *testing.T) {
		t.Setenv("EVENTVIEW_HOME", t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, cfg.Server.BaseURL)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [unclosed")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config file")
	})

	t.Run("environment beats file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  base_url: http://file:1\n")
		t.Setenv("EVENTVIEW_BASE_URL", "http://env:2")
		t.Setenv("EVENTVIEW_TIMEOUT", "750ms")
		t.Setenv("EVENTVIEW_LOG_FILE", "/tmp/ev.log")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://env:2", cfg.Server.BaseURL)
		assert.Equal(t, 750*time.Millisecond, cfg.Server.Timeout)
		assert.Equal(t, "/tmp/ev.log", cfg.Logging.File)
	})

	t.Run("bad environment duration", func(t *testing.T) {
		t.Setenv("EVENTVIEW_HOME", t.TempDir())
		t.Setenv("EVENTVIEW_TIMEOUT", "soon")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.Server.BaseURL = "localhost:5000" }, wantErr: ErrInvalidBaseURL},
		{name: "ftp url", mutate: func(c *Config) { c.Server.BaseURL = "ftp://host" }, wantErr: ErrInvalidBaseURL},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "bad order", mutate: func(c *Config) { c.Table.SortOrder = "up" }, wantErr: ErrInvalidSortOrder},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := New()
	cfg.Server.BaseURL = "http://saved:9000"
	cfg.Server.Timeout = 12 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, loaded.Server)
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	tests := []struct {
		name        string
		lc          LoggingConfig
		interactive bool
		wantOutput  string
	}{
		{name: "stderr", lc: LoggingConfig{Level: "info"}, wantOutput: logging.OutputStderr},
		{name: "interactive discards", lc: LoggingConfig{Level: "info"}, interactive: true, wantOutput: logging.OutputDiscard},
		{name: "file wins", lc: LoggingConfig{File: "/tmp/x.log"}, interactive: true, wantOutput: logging.OutputFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.lc.ToLoggingConfig(tt.interactive)
			assert.Equal(t, tt.wantOutput, got.Output)
			assert.Equal(t, tt.lc.File, got.File)
		})
	}
}

func TestEnsureLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	cfg := New()
	cfg.Logging.File = filepath.Join(dir, "eventview.log")
	require.NoError(t, EnsureLogDir(cfg))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, EnsureLogDir(New()))
}
