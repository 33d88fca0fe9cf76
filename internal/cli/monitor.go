package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astra-monitor/eventview/internal/table"
	"github.com/astra-monitor/eventview/internal/tui"
)

func newMonitorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run the monitor and show the refreshed events",
		Long: `Asks the backend to run a monitoring pass (POST /api/monitor). On success the
first page of events is printed with the default sort; on failure the backend's
error is printed and the exit status is 1.`,
		Example: `  eventview monitor
  eventview monitor --server http://monitor.internal:5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMonitor(cmd)
		},
	}
}

func (a *app) runMonitor(cmd *cobra.Command) error {
	ctx := cmd.Context()

	client, err := a.newClient()
	if err != nil {
		return err
	}

	view := tui.NewPlainView()
	form := table.NewStaticForm(table.FilterFieldNames()...)
	opts := append(a.controllerOptions(), table.WithMonitor(client))
	ctrl := table.NewController(client, view.ViewPort(form), opts...)

	load, err := ctrl.RunMonitor()
	if err != nil {
		return err
	}
	runErr := ctrl.Do(ctx, load)

	logger.Debug().Ctx(ctx).
		Str("operation", "monitor").
		Bool("succeeded", runErr == nil).
		Msg("monitor command finished")

	if err = view.Render(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if runErr != nil {
		return &ExitError{Code: 1, Err: runErr}
	}
	return nil
}
