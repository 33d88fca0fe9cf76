package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-monitor/eventview/internal/pagination"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name         string
		location     string
		wantState    ViewState
		wantCriteria FilterCriteria
	}{
		{
			name:      "empty",
			location:  "",
			wantState: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"},
		},
		{
			name:      "path only",
			location:  "/events",
			wantState: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"},
		},
		{
			name:      "full state",
			location:  "/events?page=3&sort_by=value&sort_order=asc",
			wantState: ViewState{Page: 3, SortBy: "value", SortOrder: "asc"},
		},
		{
			name:      "non-numeric page",
			location:  "?page=abc",
			wantState: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"},
		},
		{
			name:      "zero and negative pages",
			location:  "page=0&page=-4",
			wantState: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"},
		},
		{
			name:      "upper-case order",
			location:  "?sort_order=ASC",
			wantState: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "asc"},
		},
		{
			name:      "invalid order",
			location:  "?sort_order=sideways",
			wantState: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"},
		},
		{
			name:      "filters kept in order, blanks dropped",
			location:  "/events?status=BREACH&scid=&metric_type=temp+c&page=2",
			wantState: ViewState{Page: 2, SortBy: "timestamp", SortOrder: "desc"},
			wantCriteria: FilterCriteria{
				{Name: "status", Value: "BREACH"},
				{Name: "metric_type", Value: "temp c"},
			},
		},
		{
			name:      "absolute URL with fragment",
			location:  "http://localhost:5000/events?scid=101&page=4#top",
			wantState: ViewState{Page: 4, SortBy: "timestamp", SortOrder: "desc"},
			wantCriteria: FilterCriteria{
				{Name: "scid", Value: "101"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, criteria := ParseLocation(tt.location)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantCriteria, criteria)
		})
	}
}

func TestParseLocationWithDefaults(t *testing.T) {
	defaults := ViewState{SortBy: "value", SortOrder: "asc"}

	state, _ := ParseLocationWithDefaults("?page=2", defaults)
	assert.Equal(t, ViewState{Page: 2, SortBy: "value", SortOrder: "asc"}, state)

	state, _ = ParseLocationWithDefaults("?sort_by=scid", ViewState{SortOrder: "bogus"})
	assert.Equal(t, ViewState{Page: 1, SortBy: "scid", SortOrder: "desc"}, state)
}

func TestLocationRoundTrip(t *testing.T) {
	form := NewStaticForm(FilterFieldNames()...)
	require.True(t, form.Set(FilterSCID, "101"))
	require.True(t, form.Set(FilterMetricType, "battery voltage"))

	for _, field := range pagination.EventFields().GetValidFields() {
		for _, order := range []string{pagination.SortOrderAsc, pagination.SortOrderDesc} {
			for _, page := range []int{1, 2, 7, 150} {
				want := ViewState{Page: page, SortBy: field, SortOrder: order}
				q, err := Build(form, want)
				require.NoError(t, err)

				got, criteria := ParseLocation(Location("/events", q))
				assert.Equal(t, want, got)
				assert.Equal(t, FilterCriteria{
					{Name: FilterSCID, Value: "101"},
					{Name: FilterMetricType, Value: "battery voltage"},
				}, criteria)
			}
		}
	}
}

func TestRecordChange(t *testing.T) {
	base := ViewState{Page: 5, SortBy: "timestamp", SortOrder: "desc"}

	tests := []struct {
		name  string
		patch Patch
		want  ViewState
	}{
		{name: "empty patch", patch: Patch{}, want: base},
		{name: "page", patch: Patch{Page: 9}, want: ViewState{Page: 9, SortBy: "timestamp", SortOrder: "desc"}},
		{name: "negative page clamps", patch: Patch{Page: -3}, want: ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"}},
		{
			name:  "new sort key resets page",
			patch: Patch{SortBy: "value", SortOrder: "asc", Page: 4},
			want:  ViewState{Page: 1, SortBy: "value", SortOrder: "asc"},
		},
		{
			name:  "same sort key keeps page",
			patch: Patch{SortBy: "timestamp", SortOrder: "asc"},
			want:  ViewState{Page: 5, SortBy: "timestamp", SortOrder: "asc"},
		},
		{name: "invalid order ignored", patch: Patch{SortOrder: "up"}, want: base},
		{
			name:  "filter submission resets page",
			patch: Patch{FilterSubmitted: true, Page: 8},
			want:  ViewState{Page: 1, SortBy: "timestamp", SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.RecordChange(tt.patch))
		})
	}
}

func TestRecordChange_FilterSubmitAlwaysResetsPage(t *testing.T) {
	for page := 1; page <= 50; page++ {
		s := ViewState{Page: page, SortBy: "scid", SortOrder: "asc"}
		assert.Equal(t, 1, s.RecordChange(Patch{FilterSubmitted: true}).Page)
	}
}
