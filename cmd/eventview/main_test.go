package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-monitor/eventview/internal/cli"
)

func TestRun(t *testing.T) {
	t.Setenv("EVENTVIEW_HOME", t.TempDir())

	t.Run("version", func(t *testing.T) {
		assert.Equal(t, 0, run([]string{"--version"}))
	})

	t.Run("unknown command fails", func(t *testing.T) {
		assert.Equal(t, 1, run([]string{"no-such-command"}))
	})

	t.Run("config init writes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.Equal(t, 0, run([]string{"config", "init", "--config", path}))
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{
			name:     "exit error",
			err:      &cli.ExitError{Code: 1, Err: errors.New("HTTP error! status: 500")},
			wantCode: 1,
			wantOK:   true,
		},
		{
			name:     "wrapped exit error",
			err:      fmt.Errorf("events: %w", &cli.ExitError{Code: 2, Err: errors.New("boom")}),
			wantCode: 2,
			wantOK:   true,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := cli.ExitCode(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
