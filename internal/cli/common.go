package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/astra-monitor/eventview/internal/api"
	"github.com/astra-monitor/eventview/internal/table"
)

// ExitError is returned when the command already reported the failure on stdout and
// only the exit code is left for main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err and whether err was an ExitError.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// baseLogger returns the root logger of this invocation, without the cli component tag.
func (a *app) baseLogger() zerolog.Logger {
	if a.logResult == nil {
		return zerolog.Nop()
	}
	return a.logResult.Logger
}

// newClient validates the configuration and creates the backend client.
func (a *app) newClient() (*api.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return api.NewClient(a.cfg.Server.BaseURL,
		api.WithTimeout(a.cfg.Server.Timeout),
		api.WithLogger(a.baseLogger()),
	)
}

// defaults returns the table defaults from the configuration.
func (a *app) defaults() table.ViewState {
	return table.ViewState{
		Page:      1,
		SortBy:    a.cfg.Table.SortBy,
		SortOrder: a.cfg.Table.SortOrder,
	}
}

// controllerOptions returns the options shared by every table controller.
func (a *app) controllerOptions() []table.Option {
	return []table.Option{
		table.WithPath(a.cfg.Server.EventsPath),
		table.WithDefaults(a.defaults()),
		table.WithLogger(a.baseLogger()),
	}
}
