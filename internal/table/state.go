package table

import (
	"net/url"
	"strings"

	"github.com/astra-monitor/eventview/internal/pagination"
)

// Reserved location parameters owned by the view state.
const (
	ParamPage      = "page"
	ParamSortBy    = "sort_by"
	ParamSortOrder = "sort_order"
)

// ViewState is the table's navigation state. Page is always >= 1 and SortOrder is
// always asc or desc.
type ViewState struct {
	Page      int
	SortBy    string
	SortOrder string
}

// DefaultViewState returns page 1 sorted by timestamp, newest first.
func DefaultViewState() ViewState {
	return ViewState{
		Page:      pagination.DefaultPage,
		SortBy:    pagination.DefaultSortField,
		SortOrder: pagination.DefaultSortOrder,
	}
}

// Patch is a partial update to a ViewState. Zero values leave fields unchanged.
type Patch struct {
	// Page sets the page. Zero leaves it unchanged; negative values clamp to 1.
	Page int

	// SortBy sets the sort key. A different key resets the page to 1.
	SortBy string

	// SortOrder sets the order. Values other than asc/desc are ignored.
	SortOrder string

	// FilterSubmitted marks a filter form submission, which resets the page to 1.
	FilterSubmitted bool
}

// RecordChange returns s with p applied.
func (s ViewState) RecordChange(p Patch) ViewState {
	next := s
	if p.Page != 0 {
		next.Page = pagination.ClampPage(p.Page)
	}
	if p.SortBy != "" && p.SortBy != s.SortBy {
		next.SortBy = p.SortBy
		next.Page = pagination.DefaultPage
	}
	if order, ok := pagination.NormalizeOrder(p.SortOrder); ok {
		next.SortOrder = order
	}
	if p.FilterSubmitted {
		next.Page = pagination.DefaultPage
	}
	next.Page = pagination.ClampPage(next.Page)
	return next
}

// ParseLocation reads the view state and initial filter criteria from a location such as
// "/events?scid=101&page=2&sort_by=value&sort_order=asc". A bare query string, with or
// without the leading "?", is accepted too.
func ParseLocation(raw string) (ViewState, FilterCriteria) {
	return ParseLocationWithDefaults(raw, DefaultViewState())
}

// ParseLocationWithDefaults is ParseLocation with caller-supplied defaults for the sort
// key and order. A missing, non-numeric or non-positive page always becomes 1.
func ParseLocationWithDefaults(raw string, defaults ViewState) (ViewState, FilterCriteria) {
	state := ViewState{
		Page:      pagination.DefaultPage,
		SortBy:    defaults.SortBy,
		SortOrder: defaults.SortOrder,
	}
	if state.SortBy == "" {
		state.SortBy = pagination.DefaultSortField
	}
	if order, ok := pagination.NormalizeOrder(state.SortOrder); ok {
		state.SortOrder = order
	} else {
		state.SortOrder = pagination.DefaultSortOrder
	}

	var criteria FilterCriteria
	seen := map[string]bool{}
	for _, p := range splitQuery(locationQuery(raw)) {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		switch p.Name {
		case ParamPage:
			state.Page, _ = pagination.ParsePage(p.Value)
		case ParamSortBy:
			if v := strings.TrimSpace(p.Value); v != "" {
				state.SortBy = v
			}
		case ParamSortOrder:
			if order, ok := pagination.NormalizeOrder(p.Value); ok {
				state.SortOrder = order
			}
		default:
			if strings.TrimSpace(p.Value) != "" {
				criteria = append(criteria, p)
			}
		}
	}
	return state, criteria
}

// locationQuery extracts the query part of a location.
func locationQuery(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[i+1:]
	}
	if strings.Contains(raw, "=") {
		return raw
	}
	return ""
}

// splitQuery decodes a query string into ordered parameters. Undecodable pairs are skipped.
func splitQuery(query string) []Param {
	var params []Param
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(name)
		if err != nil || name == "" {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		params = append(params, Param{Name: name, Value: value})
	}
	return params
}

// Location joins path and the encoded query parameters.
func Location(path string, q QueryParameters) string {
	encoded := q.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
