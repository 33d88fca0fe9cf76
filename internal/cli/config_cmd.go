package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astra-monitor/eventview/internal/config"
)

// newConfigInitCmd creates the config init command for initializing configuration.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values at the --config path, or
at ~/.eventview/config.yaml ($EVENTVIEW_HOME/config.yaml when set).`,
		Example: `  # Create the default configuration
  eventview config init

  # Create configuration, overwriting existing
  eventview config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationDefaultConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			return initConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

func initConfig(cmd *cobra.Command, path string, force bool) error {
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	// Check if config already exists and force isn't set
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.New().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Info().Ctx(cmd.Context()).Str("operation", "config_init").Str("path", path).Msg("configuration written")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)
	return nil
}

// newConfigValidateCmd creates the config validate command for validating configuration.
func newConfigValidateCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Loads the configuration file and EVENTVIEW_* environment overrides and checks
that the backend URL, timeout, sort order and log format are usable.`,
		Example: `  # Validate current configuration
  eventview config validate

  # Validate and show the effective settings
  eventview config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Configuration is valid")
			if verbose {
				printVerboseDetails(cmd, a.cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective settings")
	return cmd
}

// printVerboseDetails prints the effective configuration.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Configuration details:")
	_, _ = fmt.Fprintf(out, "  Server: %s\n", cfg.Server.BaseURL)
	_, _ = fmt.Fprintf(out, "  Timeout: %s\n", cfg.Server.Timeout)
	_, _ = fmt.Fprintf(out, "  Events path: %s\n", cfg.Server.EventsPath)
	_, _ = fmt.Fprintf(out, "  Default sort: %s %s\n", cfg.Table.SortBy, cfg.Table.SortOrder)
	_, _ = fmt.Fprintf(out, "  Logging level: %s\n", cfg.Logging.Level)
	_, _ = fmt.Fprintf(out, "  Log file: %s\n", cfg.Logging.File)
}
