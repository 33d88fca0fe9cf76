package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astra-monitor/eventview/internal/config"
	"github.com/astra-monitor/eventview/internal/logging"
)

// setupLogging configures logging from the config and the --debug flag, and stores the
// logger and a trace ID in the command context.
//
// While the interactive table owns the terminal nothing is written to stderr: logs go to
// the configured file or are discarded.
func setupLogging(cmd *cobra.Command, cfg *config.Config, debug, interactive bool) logging.LogPathResult {
	loggingCfg := cfg.Logging
	if debug {
		loggingCfg.Level = "debug"
		if !interactive {
			loggingCfg.Format = logging.FormatConsole
			loggingCfg.File = ""
		}
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(&config.Config{Logging: loggingCfg}); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig(interactive))
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && !interactive {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).
		Str("command", cmd.CommandPath()).
		Str("trace_id", traceID).
		Bool("interactive", interactive).
		Msg("command started")

	return result
}
