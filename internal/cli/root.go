package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/astra-monitor/eventview/internal/config"
	"github.com/astra-monitor/eventview/internal/logging"
)

// Command annotations.
const (
	// annotationInteractive marks commands that take over the terminal when stdout is one.
	annotationInteractive = "eventview/interactive"

	// annotationDefaultConfig marks commands that run on built-in defaults, so a broken
	// config file can still be replaced.
	annotationDefaultConfig = "eventview/default-config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfg       *config.Config
	logResult *logging.LogPathResult

	// terminal reports whether stdout is a terminal; replaced in tests.
	terminal func() bool
}

// GlobalFlags are the persistent flags of the root command.
type GlobalFlags struct {
	ConfigPath string
	Server     string
	Timeout    time.Duration
	Debug      bool
}

// NewRootCmd creates the root Cobra command for the eventview CLI.
func NewRootCmd(ver string) *cobra.Command {
	return newRootCmd(ver, &app{terminal: func() bool { return isTerminal(os.Stdout) }})
}

func newRootCmd(ver string, a *app) *cobra.Command {
	var flags GlobalFlags

	cmd := &cobra.Command{
		Use:   "eventview",
		Short: "Browse monitoring events from the terminal",
		Long: `eventview: a terminal client for the monitoring backend's event log.

Events are shown as a sortable, filterable, paginated table. The current view is
always described by a location such as /events?status=BREACH&page=2, which can be
passed back to "eventview events" to reopen it.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			a.cfg = cfg

			result := setupLogging(cmd, cfg, flags.Debug, a.interactive(cmd))
			a.logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.logResult.Close()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "",
		"config file (default $EVENTVIEW_HOME/config.yaml or ~/.eventview/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.Server, "server", "",
		"backend base URL, e.g. http://localhost:5000 (overrides config and EVENTVIEW_BASE_URL)")
	cmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 0,
		"request timeout, e.g. 10s (overrides config and EVENTVIEW_TIMEOUT)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newEventsCmd(a), newMonitorCmd(a), newHistoryCmd(a), newConfigCmd(a))
	return cmd
}

const rootCmdExample = `  # Browse events interactively
  eventview events

  # Reopen a view from its location
  eventview events "/events?status=BREACH&sort_by=value&sort_order=desc"

  # Print one page as text
  eventview events --plain --filter metric_type=temperature --sort value:desc --page 2

  # Run the monitor and show the refreshed events
  eventview monitor

  # Breach history of one payload metric
  eventview history --scid 101 --metric-type temperature --output json

  # Write the default configuration file
  eventview config init`

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command, flags GlobalFlags) (*config.Config, error) {
	if cmd.Annotations[annotationDefaultConfig] == "true" {
		return config.New(), nil
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("server") {
		cfg.Server.BaseURL = flags.Server
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Server.Timeout = flags.Timeout
	}
	return cfg, nil
}

// interactive reports whether cmd will run the full-screen table.
func (a *app) interactive(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationInteractive] != "true" {
		return false
	}
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return false
	}
	return a.terminal()
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd(a))
	return cmd
}
