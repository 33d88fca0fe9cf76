package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astra-monitor/eventview/internal/api"
	"github.com/astra-monitor/eventview/internal/config"
	"github.com/astra-monitor/eventview/internal/pagination"
	"github.com/astra-monitor/eventview/internal/table"
	"github.com/astra-monitor/eventview/internal/tui"
)

// ErrInvalidPageFlag is returned for a --page value below 1.
var ErrInvalidPageFlag = errors.New("--page must be >= 1")

// EventsFlags holds the flags of the events command.
type EventsFlags struct {
	Plain   bool
	Page    int
	Sort    string
	Filters []string
}

func newEventsCmd(a *app) *cobra.Command {
	var flags EventsFlags

	cmd := &cobra.Command{
		Use:   "events [location]",
		Short: "Browse the event table",
		Long: `Shows one page of monitoring events.

When stdout is a terminal the table is interactive: filter with '/', page with the
arrow keys, sort with 1-6 and open a payload's breach history with enter. Otherwise,
or with --plain, the page is printed as text together with its location.

The optional location argument (e.g. "/events?status=BREACH&page=2") sets the initial
view; --page, --sort and --filter override it.`,
		Example: `  # Interactive table
  eventview events

  # Breaches only, highest value first, as text
  eventview events --plain --filter status=BREACH --sort value:desc

  # Reopen a printed location
  eventview events "/events?scid=101&page=3&sort_by=timestamp&sort_order=desc"`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			return a.runEvents(cmd, raw, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Plain, "plain", false, "print the page as text even on a terminal")
	cmd.Flags().IntVar(&flags.Page, "page", 0, "page to show (overrides the location)")
	cmd.Flags().StringVar(&flags.Sort, "sort", "",
		"sort as field[:order], e.g. value:desc; fields: timestamp, scid, metric_type, value, threshold, status")
	cmd.Flags().StringArrayVar(&flags.Filters, "filter", nil,
		"filter as key=value (repeatable); keys: scid, metric_type, status, date_from, date_to")

	return cmd
}

func (a *app) runEvents(cmd *cobra.Command, raw string, flags EventsFlags) error {
	ctx := cmd.Context()

	location, err := ResolveLocation(ctx, a.cfg, raw, flags)
	if err != nil {
		return err
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "events").
		Str("location", location).
		Bool("interactive", a.interactive(cmd)).
		Msg("opening event table")

	if a.interactive(cmd) {
		return a.runInteractive(cmd, client, location)
	}
	return a.runPlain(cmd, client, location)
}

func (a *app) runPlain(cmd *cobra.Command, client *api.Client, location string) error {
	view := tui.NewPlainView()
	form := table.NewStaticForm(table.FilterFieldNames()...)
	ctrl := table.NewController(client, view.ViewPort(form), a.controllerOptions()...)

	load, err := ctrl.Start(location)
	if err != nil {
		return err
	}
	loadErr := ctrl.Do(cmd.Context(), load)

	if err = view.Render(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if loadErr != nil {
		return &ExitError{Code: 1, Err: loadErr}
	}
	return nil
}

func (a *app) runInteractive(cmd *cobra.Command, client *api.Client, location string) error {
	ctx := cmd.Context()
	m := tui.NewEventsModel(ctx, client, tui.EventsOptions{
		Location: location,
		Path:     a.cfg.Server.EventsPath,
		Defaults: a.defaults(),
		Monitor:  client,
		History: func(ctx context.Context, q api.BreachHistoryQuery) ([]api.BreachPoint, error) {
			return client.BreachHistory(ctx, q, nil)
		},
		Logger: a.baseLogger(),
	})

	final, err := tui.Run(ctx, m)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", final.Location())
	return nil
}

// ResolveLocation combines the location argument with the --page, --sort and --filter
// flags into the location the table starts from. Sorting by a new key or passing any
// filter starts at page 1 unless --page is given.
func ResolveLocation(ctx context.Context, cfg *config.Config, raw string, flags EventsFlags) (string, error) {
	defaults := table.ViewState{
		Page:      pagination.DefaultPage,
		SortBy:    cfg.Table.SortBy,
		SortOrder: cfg.Table.SortOrder,
	}
	state, criteria := table.ParseLocationWithDefaults(raw, defaults)

	if flags.Sort != "" {
		field, order, err := pagination.ParseSort(flags.Sort)
		if err != nil {
			return "", err
		}
		if err = pagination.EventFields().Validate(field); err != nil {
			return "", err
		}
		state = state.RecordChange(table.Patch{SortBy: field, SortOrder: order})
	}

	extra, err := ParseFilters(ctx, flags.Filters)
	if err != nil {
		return "", err
	}
	if len(extra) > 0 {
		state = state.RecordChange(table.Patch{FilterSubmitted: true})
	}

	if flags.Page != 0 {
		if flags.Page < pagination.MinPage {
			return "", fmt.Errorf("%w: got %d", ErrInvalidPageFlag, flags.Page)
		}
		state = state.RecordChange(table.Patch{Page: flags.Page})
	}

	form := table.NewStaticForm(table.FilterFieldNames()...)
	for _, p := range append(criteria, extra...) {
		form.Set(p.Name, p.Value)
	}
	q, err := table.Build(form, state)
	if err != nil {
		return "", err
	}
	return table.Location(cfg.Server.EventsPath, q), nil
}
