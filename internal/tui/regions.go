package tui

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/astra-monitor/eventview/internal/table"
)

// Filter input sizing.
const (
	filterInputCharLimit = 64
	filterInputWidth     = 24
)

// screen holds the regions the controller renders into. All fields except busy are
// written on the Bubble Tea goroutine only.
type screen struct {
	rows     []table.Row
	pager    table.Pager
	errText  string
	notice   string
	location string

	busy atomic.Bool
}

func (s *screen) ReplaceRows(rows []table.Row)    { s.rows = rows }
func (s *screen) ReplacePager(p table.Pager)      { s.pager = p }
func (s *screen) ShowError(message string)        { s.errText = message }
func (s *screen) ClearError()                     { s.errText = "" }
func (s *screen) Notify(message string)           { s.notice = message }
func (s *screen) ReplaceLocation(location string) { s.location = location }

// SetBusy is called from the request goroutine.
func (s *screen) SetBusy(busy bool) { s.busy.Store(busy) }

// filterField is one labelled input of the filter form.
type filterField struct {
	name  string
	label string
	input textinput.Model
}

// filterForm is the modal filter form. Edits are only visible to the controller after
// they are submitted, so paging never picks up half-typed criteria.
type filterForm struct {
	fields    []filterField
	committed []string
	focus     int
}

func newFilterForm() *filterForm {
	labels := map[string]struct{ label, placeholder string }{
		table.FilterSCID:       {"Payload", "SCID, e.g. 101"},
		table.FilterMetricType: {"Metric", "e.g. temperature"},
		table.FilterStatus:     {"Status", "BREACH or NORMAL"},
		table.FilterDateFrom:   {"From", "YYYY-MM-DD"},
		table.FilterDateTo:     {"To", "YYYY-MM-DD"},
	}

	names := table.FilterFieldNames()
	f := &filterForm{
		fields:    make([]filterField, 0, len(names)),
		committed: make([]string, len(names)),
	}
	for _, name := range names {
		ti := textinput.New()
		ti.Placeholder = labels[name].placeholder
		ti.CharLimit = filterInputCharLimit
		ti.Width = filterInputWidth
		f.fields = append(f.fields, filterField{name: name, label: labels[name].label, input: ti})
	}
	return f
}

// Fields implements table.FilterForm with the last submitted values.
func (f *filterForm) Fields() []table.Param {
	out := make([]table.Param, len(f.fields))
	for i, field := range f.fields {
		out[i] = table.Param{Name: field.name, Value: f.committed[i]}
	}
	return out
}

// Set implements table.FilterForm. The value is both shown and committed.
func (f *filterForm) Set(name, value string) bool {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(value)
			f.committed[i] = value
			return true
		}
	}
	return false
}

// open focuses the first field.
func (f *filterForm) open() {
	f.focus = 0
	f.applyFocus()
}

// commit makes the edited values visible to the controller.
func (f *filterForm) commit() {
	for i := range f.fields {
		f.committed[i] = f.fields[i].input.Value()
		f.fields[i].input.Blur()
	}
}

// revert discards unsubmitted edits.
func (f *filterForm) revert() {
	for i := range f.fields {
		f.fields[i].input.SetValue(f.committed[i])
		f.fields[i].input.Blur()
	}
}

// clear empties every field without committing.
func (f *filterForm) clear() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
}

func (f *filterForm) next() {
	f.focus = (f.focus + 1) % len(f.fields)
	f.applyFocus()
}

func (f *filterForm) prev() {
	f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	f.applyFocus()
}

func (f *filterForm) applyFocus() {
	for i := range f.fields {
		if i == f.focus {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
}

// active reports the submitted criteria as "label=value" pairs for the status line.
func (f *filterForm) active() []string {
	var out []string
	for i, field := range f.fields {
		if v := f.committed[i]; v != "" {
			out = append(out, field.label+"="+v)
		}
	}
	return out
}
