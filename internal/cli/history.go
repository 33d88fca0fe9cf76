package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/astra-monitor/eventview/internal/api"
	"github.com/astra-monitor/eventview/internal/table"
	"github.com/astra-monitor/eventview/internal/tui/detail"
)

// Output formats of the history command.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// ErrInvalidOutput is returned for an unknown --output value.
var ErrInvalidOutput = errors.New("--output must be 'table' or 'json'")

// HistoryFlags holds the flags of the history command.
type HistoryFlags struct {
	SCID       int64
	MetricType string
	From       string
	To         string
	Output     string
}

func newHistoryCmd(a *app) *cobra.Command {
	var flags HistoryFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the breach history of one payload metric",
		Long: `Lists the breaches recorded for a payload metric (GET /api/breach_history).
Without --from and --to the last 60 days are shown. Dates are YYYY-MM-DD in UTC.`,
		Example: `  # Last 60 days
  eventview history --scid 101 --metric-type temperature

  # A fixed range as JSON
  eventview history --scid 101 --metric-type temperature --from 2024-05-01 --to 2024-05-31 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runHistory(cmd, flags, time.Now())
		},
	}

	cmd.Flags().Int64Var(&flags.SCID, "scid", 0, "payload code (required)")
	cmd.Flags().StringVar(&flags.MetricType, "metric-type", "", "metric type (required)")
	cmd.Flags().StringVar(&flags.From, "from", "", "start date YYYY-MM-DD (default 60 days ago)")
	cmd.Flags().StringVar(&flags.To, "to", "", "end date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&flags.Output, "output", outputTable, "output format: table, json")
	_ = cmd.MarkFlagRequired("scid")
	_ = cmd.MarkFlagRequired("metric-type")

	return cmd
}

// HistoryQuery builds the breach history query for flags relative to now.
func HistoryQuery(flags HistoryFlags, now time.Time) (api.BreachHistoryQuery, error) {
	q := api.BreachHistoryQuery{
		SCID:       flags.SCID,
		MetricType: flags.MetricType,
		From:       now.Add(-detail.HistoryWindow),
		To:         now,
	}
	if flags.From != "" {
		from, err := time.Parse(time.DateOnly, flags.From)
		if err != nil {
			return q, fmt.Errorf("parsing --from: %w", err)
		}
		q.From = from
	}
	if flags.To != "" {
		to, err := time.Parse(time.DateOnly, flags.To)
		if err != nil {
			return q, fmt.Errorf("parsing --to: %w", err)
		}
		q.To = to
	}
	if q.To.Before(q.From) {
		return q, fmt.Errorf("--to %s is before --from %s", q.To.Format(time.DateOnly), q.From.Format(time.DateOnly))
	}
	return q, nil
}

func (a *app) runHistory(cmd *cobra.Command, flags HistoryFlags, now time.Time) error {
	ctx := cmd.Context()

	if flags.Output != outputTable && flags.Output != outputJSON {
		return fmt.Errorf("%w: got %q", ErrInvalidOutput, flags.Output)
	}
	q, err := HistoryQuery(flags, now)
	if err != nil {
		return err
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}
	points, err := client.BreachHistory(ctx, q, nil)
	if err != nil {
		return fmt.Errorf("loading breach history: %w", err)
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "history").
		Int64("scid", q.SCID).
		Str("metric_type", q.MetricType).
		Int("points", len(points)).
		Msg("breach history retrieved")

	if flags.Output == outputJSON {
		return renderHistoryJSON(cmd, points)
	}
	return renderHistoryTable(cmd, points)
}

func renderHistoryJSON(cmd *cobra.Command, points []api.BreachPoint) error {
	if points == nil {
		points = []api.BreachPoint{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(points)
}

func renderHistoryTable(cmd *cobra.Command, points []api.BreachPoint) error {
	out := cmd.OutOrStdout()
	if len(points) == 0 {
		_, err := fmt.Fprintln(out, "No breaches recorded in this period")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd // Column padding.
	fmt.Fprintln(w, "TIMESTAMP\tVALUE\tTHRESHOLD\tSTATUS")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n",
			p.Timestamp.Local().Format(table.TimestampLayout), p.Value, p.Threshold, p.Status)
	}
	return w.Flush()
}
