package table

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ErrMissingForm is returned by Build when no filter form is attached. It is a wiring
// error, not a runtime condition.
var ErrMissingForm = errors.New("filter form not found")

// Param is one name/value query parameter.
type Param struct {
	Name  string
	Value string
}

// FilterCriteria is an ordered list of non-empty filter values.
type FilterCriteria []Param

// Get returns the value for name, or "".
func (c FilterCriteria) Get(name string) string {
	for _, p := range c {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// FilterForm is the filter input region.
type FilterForm interface {
	// Fields returns every named field in form order, including empty ones.
	Fields() []Param

	// Set writes value into the named field and reports whether the field exists.
	Set(name, value string) bool
}

// QueryParameters is the ordered parameter set sent to the backend and shown as the
// location. Its encoding is identical in both places.
type QueryParameters struct {
	params []Param
}

// Params returns a copy of the parameters in order.
func (q QueryParameters) Params() []Param {
	return append([]Param(nil), q.params...)
}

// Get returns the first value for name, or "".
func (q QueryParameters) Get(name string) string {
	for _, p := range q.params {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// Has reports whether name is present.
func (q QueryParameters) Has(name string) bool {
	for _, p := range q.params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Encode returns the parameters as a URL query string, preserving order.
func (q QueryParameters) Encode() string {
	var sb strings.Builder
	for i, p := range q.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// Criteria returns the filter part of q.
func (q QueryParameters) Criteria() FilterCriteria {
	var out FilterCriteria
	for _, p := range q.params {
		if !reserved(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

// Build composes the query for state from the form's fields. Blank fields are left out,
// and page, sort_by and sort_order are appended last, replacing any form field of the
// same name.
func Build(form FilterForm, state ViewState) (QueryParameters, error) {
	if form == nil {
		return QueryParameters{}, ErrMissingForm
	}

	fields := form.Fields()
	params := make([]Param, 0, len(fields)+3) //nolint:mnd // page, sort_by, sort_order.
	for _, f := range fields {
		if f.Name == "" || reserved(f.Name) {
			continue
		}
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		params = append(params, Param{Name: f.Name, Value: value})
	}

	params = append(params,
		Param{Name: ParamPage, Value: strconv.Itoa(state.Page)},
		Param{Name: ParamSortBy, Value: state.SortBy},
		Param{Name: ParamSortOrder, Value: state.SortOrder},
	)
	return QueryParameters{params: params}, nil
}

func reserved(name string) bool {
	return name == ParamPage || name == ParamSortBy || name == ParamSortOrder
}

// StaticForm is a FilterForm backed by a fixed list of fields. Set only updates fields
// that already exist.
type StaticForm struct {
	fields []Param
}

// NewStaticForm creates a form with the given field names, all empty.
func NewStaticForm(names ...string) *StaticForm {
	f := &StaticForm{fields: make([]Param, 0, len(names))}
	for _, n := range names {
		f.fields = append(f.fields, Param{Name: n})
	}
	return f
}

// Fields implements FilterForm.
func (f *StaticForm) Fields() []Param {
	return append([]Param(nil), f.fields...)
}

// Set implements FilterForm.
func (f *StaticForm) Set(name, value string) bool {
	for i := range f.fields {
		if f.fields[i].Name == name {
			f.fields[i].Value = value
			return true
		}
	}
	return false
}
