package table

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/astra-monitor/eventview/internal/api"
	"github.com/astra-monitor/eventview/internal/pagination"
)

// ErrNonNumeric is returned when an event's value or threshold is NaN or infinite.
var ErrNonNumeric = errors.New("non-numeric value")

// EmptyMessage is the text of the single row shown for an empty result page.
const EmptyMessage = "No events found matching your criteria"

// TimestampLayout is the local display format of event timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Filter form field names, in form order.
const (
	FilterSCID       = "scid"
	FilterMetricType = "metric_type"
	FilterStatus     = "status"
	FilterDateFrom   = "date_from"
	FilterDateTo     = "date_to"
)

// FilterFieldNames returns the filter form's field names in form order.
func FilterFieldNames() []string {
	return []string{FilterSCID, FilterMetricType, FilterStatus, FilterDateFrom, FilterDateTo}
}

// Column is one table column. Key is the sort_by value selecting it.
type Column struct {
	Key   string
	Title string
}

// Columns returns the six event table columns in display order.
func Columns() []Column {
	return []Column{
		{Key: pagination.FieldTimestamp, Title: "Timestamp"},
		{Key: pagination.FieldSCID, Title: "Payload"},
		{Key: pagination.FieldMetricType, Title: "Metric"},
		{Key: pagination.FieldValue, Title: "Value"},
		{Key: pagination.FieldThreshold, Title: "Threshold"},
		{Key: pagination.FieldStatus, Title: "Status"},
	}
}

// ColumnCount is the number of event table columns.
const ColumnCount = 6

// RowKind distinguishes event rows from the empty-result row.
type RowKind int

const (
	// RowEvent is one event.
	RowEvent RowKind = iota
	// RowEmpty is the single placeholder row of an empty page.
	RowEmpty
)

// Badge is the style of the status cell.
type Badge int

const (
	// BadgeOK marks any status other than BREACH.
	BadgeOK Badge = iota
	// BadgeBreach marks a threshold breach.
	BadgeBreach
)

// Row is a rendered table row.
type Row struct {
	Kind RowKind

	// Cells holds ColumnCount cells for event rows, or the message for the empty row.
	Cells []string

	// Span is the number of columns the row covers.
	Span int

	// Badge styles the status cell of an event row.
	Badge Badge

	// Event is the source record of an event row.
	Event api.EventRecord
}

// RenderRows renders events with timestamps in the local time zone.
func RenderRows(events []api.EventRecord) ([]Row, error) {
	return RenderRowsIn(events, time.Local)
}

// RenderRowsIn renders events with timestamps in loc. An empty slice yields one RowEmpty
// row. If any value or threshold is not a finite number nothing is rendered.
func RenderRowsIn(events []api.EventRecord, loc *time.Location) ([]Row, error) {
	if len(events) == 0 {
		return []Row{{Kind: RowEmpty, Cells: []string{EmptyMessage}, Span: ColumnCount}}, nil
	}
	if loc == nil {
		loc = time.Local
	}

	rows := make([]Row, 0, len(events))
	for _, ev := range events {
		if !finite(ev.Value) || !finite(ev.Threshold) {
			return nil, fmt.Errorf("%w: event %d (%s %s) has value %v, threshold %v",
				ErrNonNumeric, ev.ID, ev.Identifier(), ev.MetricType, ev.Value, ev.Threshold)
		}

		badge := BadgeOK
		if ev.IsBreach() {
			badge = BadgeBreach
		}
		rows = append(rows, Row{
			Kind: RowEvent,
			Cells: []string{
				ev.Timestamp.In(loc).Format(TimestampLayout),
				ev.Identifier(),
				ev.MetricType,
				fmt.Sprintf("%.2f", ev.Value),
				fmt.Sprintf("%.2f", ev.Threshold),
				ev.Status,
			},
			Span:  1,
			Badge: badge,
			Event: ev,
		})
	}
	return rows, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Pager is the rendered pagination region.
type Pager struct {
	// Items are the controls in display order; empty when there is at most one page.
	Items []pagination.Item

	// Meta describes the page the controls were computed for.
	Meta pagination.Meta
}

// RenderPager computes the pagination controls for a result page.
func RenderPager(page *api.ResultPage) Pager {
	if page == nil {
		return Pager{}
	}
	return Pager{
		Items: pagination.Window(page.Page, page.TotalPages),
		Meta:  pagination.NewMeta(page.Page, page.TotalPages, page.PageSize, page.TotalCount),
	}
}
