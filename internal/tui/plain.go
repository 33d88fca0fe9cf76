package tui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/astra-monitor/eventview/internal/pagination"
	"github.com/astra-monitor/eventview/internal/table"
)

// tabPadding is the minimum gap between plain-text columns.
const tabPadding = 2

// PlainView renders the table regions as plain text, for pipes and scripts.
type PlainView struct {
	rows     []table.Row
	pager    table.Pager
	errText  string
	notices  []string
	location string
}

// NewPlainView creates an empty plain-text view.
func NewPlainView() *PlainView {
	return &PlainView{}
}

// ViewPort returns the regions of v bound to form.
func (v *PlainView) ViewPort(form table.FilterForm) table.ViewPort {
	return table.ViewPort{
		Form:     form,
		Rows:     v,
		Pager:    v,
		Errors:   v,
		Notices:  v,
		Location: v,
	}
}

func (v *PlainView) ReplaceRows(rows []table.Row)    { v.rows = rows }
func (v *PlainView) ReplacePager(p table.Pager)      { v.pager = p }
func (v *PlainView) ShowError(message string)        { v.errText = message }
func (v *PlainView) ClearError()                     { v.errText = "" }
func (v *PlainView) Notify(message string)           { v.notices = append(v.notices, message) }
func (v *PlainView) ReplaceLocation(location string) { v.location = location }

// ErrorText returns the error notice, or "" when none is shown.
func (v *PlainView) ErrorText() string { return v.errText }

// Render writes notices, the error notice, the table, the pagination bar and the
// location to w.
func (v *PlainView) Render(w io.Writer) error {
	var sb strings.Builder

	for _, n := range v.notices {
		sb.WriteString(n + "\n")
	}
	if v.errText != "" {
		sb.WriteString(v.errText + "\n")
	}

	if len(v.rows) > 0 {
		if err := renderPlainRows(&sb, v.rows); err != nil {
			return err
		}
		if line := plainSummary(v.pager.Meta, v.rows); line != "" {
			sb.WriteString("\n" + line + "\n")
		}
		if bar := plainPagerBar(v.pager); bar != "" {
			sb.WriteString(bar + "\n")
		}
	}

	if v.location != "" {
		sb.WriteString("Location: " + v.location + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func renderPlainRows(w io.Writer, rows []table.Row) error {
	if len(rows) == 1 && rows[0].Kind == table.RowEmpty {
		_, err := fmt.Fprintln(w, rows[0].Cells[0])
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	cols := table.Columns()
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = strings.ToUpper(c.Title)
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r.Cells, "\t"))
	}
	return tw.Flush()
}

func plainSummary(meta pagination.Meta, rows []table.Row) string {
	if len(rows) == 1 && rows[0].Kind == table.RowEmpty {
		return ""
	}
	if meta.TotalPages == 0 {
		return formatCount(len(rows)) + " events"
	}
	return summaryLine(meta, len(rows))
}

// plainPagerBar renders the pagination bar with the active page in brackets.
func plainPagerBar(p table.Pager) string {
	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		if it.Active {
			parts = append(parts, "["+it.Label()+"]")
			continue
		}
		parts = append(parts, it.Label())
	}
	return strings.Join(parts, " ")
}
