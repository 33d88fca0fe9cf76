package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listForm is a FilterForm with arbitrary, possibly duplicate or reserved, field names.
type listForm []Param

func (f listForm) Fields() []Param      { return f }
func (f listForm) Set(_, _ string) bool { return false }

func TestBuild(t *testing.T) {
	form := listForm{
		{Name: "scid", Value: "101"},
		{Name: "metric_type", Value: ""},
		{Name: "status", Value: "   "},
		{Name: "date_from", Value: " 2024-05-01 "},
		{Name: "page", Value: "99"},
		{Name: "date_to", Value: "2024-05-31"},
	}
	state := ViewState{Page: 3, SortBy: "value", SortOrder: "asc"}

	q, err := Build(form, state)
	require.NoError(t, err)

	assert.Equal(t, []Param{
		{Name: "scid", Value: "101"},
		{Name: "date_from", Value: "2024-05-01"},
		{Name: "date_to", Value: "2024-05-31"},
		{Name: "page", Value: "3"},
		{Name: "sort_by", Value: "value"},
		{Name: "sort_order", Value: "asc"},
	}, q.Params())
	assert.Equal(t,
		"scid=101&date_from=2024-05-01&date_to=2024-05-31&page=3&sort_by=value&sort_order=asc",
		q.Encode())
	assert.Equal(t, FilterCriteria{
		{Name: "scid", Value: "101"},
		{Name: "date_from", Value: "2024-05-01"},
		{Name: "date_to", Value: "2024-05-31"},
	}, q.Criteria())
}

func TestBuild_BlankFieldNeverSent(t *testing.T) {
	form := NewStaticForm(FilterFieldNames()...)
	q, err := Build(form, DefaultViewState())
	require.NoError(t, err)

	for _, name := range FilterFieldNames() {
		assert.False(t, q.Has(name), "blank field %q was sent", name)
	}
	assert.Equal(t, "page=1&sort_by=timestamp&sort_order=desc", q.Encode())
}

func TestBuild_EncodesSpecialCharacters(t *testing.T) {
	form := NewStaticForm(FilterMetricType)
	form.Set(FilterMetricType, "a&b=c d")

	q, err := Build(form, DefaultViewState())
	require.NoError(t, err)
	assert.Equal(t, "metric_type=a%26b%3Dc+d&page=1&sort_by=timestamp&sort_order=desc", q.Encode())
	assert.Equal(t, "a&b=c d", q.Get(FilterMetricType))
}

func TestBuild_MissingForm(t *testing.T) {
	_, err := Build(nil, DefaultViewState())
	require.ErrorIs(t, err, ErrMissingForm)
}

func TestStaticForm(t *testing.T) {
	form := NewStaticForm("scid", "status")
	assert.True(t, form.Set("status", "BREACH"))
	assert.False(t, form.Set("unknown", "x"))

	fields := form.Fields()
	assert.Equal(t, []Param{{Name: "scid"}, {Name: "status", Value: "BREACH"}}, fields)

	fields[0].Value = "mutated"
	assert.Empty(t, form.Fields()[0].Value, "Fields must return a copy")
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "/events", Location("/events", QueryParameters{}))

	q, err := Build(NewStaticForm(), DefaultViewState())
	require.NoError(t, err)
	assert.Equal(t, "/events?page=1&sort_by=timestamp&sort_order=desc", Location("/events", q))
}
