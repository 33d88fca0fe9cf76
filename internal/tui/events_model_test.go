package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-monitor/eventview/internal/api"
	"github.com/astra-monitor/eventview/internal/table"
)

// stubFetcher serves a fixed page and records every query.
type stubFetcher struct {
	mu      sync.Mutex
	queries []string
	total   int
	events  []api.EventRecord
	err     error
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		total: 3,
		events: []api.EventRecord{
			{
				ID: 1, SCID: 101, PayloadName: "Core Temp", MetricType: "temperature",
				Value: 75.5, Threshold: 70, Status: api.StatusBreach,
				Timestamp: api.Timestamp{Time: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
			},
			{
				ID: 2, SCID: 102, MetricType: "voltage",
				Value: 3.3, Threshold: 5, Status: "NORMAL",
				Timestamp: api.Timestamp{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
			},
		},
	}
}

func (f *stubFetcher) Events(_ context.Context, q api.Query, busy api.BusyTarget) (*api.ResultPage, error) {
	if busy != nil {
		busy.SetBusy(true)
		defer busy.SetBusy(false)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q.Encode())
	if f.err != nil {
		return nil, f.err
	}
	params := q.(table.QueryParameters)
	page := 1
	if p := params.Get(table.ParamPage); p != "1" && p != "" {
		page = int(p[0] - '0')
	}
	return &api.ResultPage{Events: f.events, Page: page, TotalPages: f.total}, nil
}

func (f *stubFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *stubFetcher) setEvents(events []api.EventRecord, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events, f.total = events, total
}

func (f *stubFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type stubMonitor struct{ err error }

func (s stubMonitor) RunMonitor(context.Context, api.BusyTarget) (*api.MonitorResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.MonitorResult{}, nil
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// runLoad executes cmd and returns the loadDoneMsg it produced, unwrapping batches.
func runLoad(t *testing.T, cmd tea.Cmd) loadDoneMsg {
	t.Helper()
	require.NotNil(t, cmd, "expected a load command")
	switch msg := cmd().(type) {
	case loadDoneMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if done, ok := c().(loadDoneMsg); ok {
				return done
			}
		}
	}
	t.Fatal("command did not produce a load")
	return loadDoneMsg{}
}

// press sends key to m and applies the load it starts, if any.
func press(t *testing.T, m *EventsModel, key tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(key)
	if cmd == nil {
		return
	}
	m.Update(runLoad(t, cmd))
}

func startedModel(t *testing.T, f *stubFetcher, opts EventsOptions) *EventsModel {
	t.Helper()
	m := NewEventsModel(context.Background(), f, opts)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m.Update(runLoad(t, m.Init()))
	return m
}

func TestEventsModel_InitialLoad(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{Location: "/events?page=2&status=BREACH"})

	require.NoError(t, m.Err())
	assert.Equal(t, "/events?status=BREACH&page=2&sort_by=timestamp&sort_order=desc", m.Location())

	view := m.View()
	assert.Contains(t, view, "Core Temp")
	assert.Contains(t, view, "102")
	assert.Contains(t, view, "75.50")
	assert.Contains(t, view, "filter: Status=BREACH")
	assert.Contains(t, view, "Timestamp ▼")
	assert.Len(t, m.table.Rows(), 2)
}

func TestEventsModel_Paging(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{})
	assert.Equal(t, "/events?page=1&sort_by=timestamp&sort_order=desc", m.Location())

	// No previous page on page 1.
	_, cmd := m.Update(keyRunes("p"))
	assert.Nil(t, cmd)

	press(t, m, keyRunes("n"))
	assert.Equal(t, "/events?page=2&sort_by=timestamp&sort_order=desc", m.Location())

	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "/events?page=1&sort_by=timestamp&sort_order=desc", m.Location())

	press(t, m, keyRunes(">"))
	assert.Equal(t, "/events?page=3&sort_by=timestamp&sort_order=desc", m.Location())

	// No next page on the last page.
	_, cmd = m.Update(keyRunes("n"))
	assert.Nil(t, cmd)

	press(t, m, keyRunes("<"))
	assert.Equal(t, "/events?page=1&sort_by=timestamp&sort_order=desc", m.Location())
}

func TestEventsModel_Sort(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{Location: "/events?page=2"})

	press(t, m, keyRunes("3"))
	assert.Equal(t, "/events?page=1&sort_by=metric_type&sort_order=asc", m.Location())
	assert.Contains(t, m.View(), "Metric ▲")

	press(t, m, keyRunes("3"))
	assert.Equal(t, "/events?page=1&sort_by=metric_type&sort_order=desc", m.Location())

	press(t, m, keyRunes("s"))
	assert.Equal(t, "/events?page=1&sort_by=value&sort_order=asc", m.Location())

	press(t, m, keyRunes("o"))
	assert.Equal(t, "/events?page=1&sort_by=value&sort_order=desc", m.Location())
}

func TestEventsModel_FilterForm(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{Location: "/events?page=3"})

	m.Update(keyRunes("/"))
	require.Equal(t, ViewStateFilter, m.state)
	m.Update(keyRunes("101"))
	assert.Contains(t, m.View(), "[enter] Apply")

	// Esc discards the edit and paging does not pick it up.
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewStateList, m.state)
	assert.Empty(t, m.form.Fields()[0].Value)
	press(t, m, keyRunes("p"))
	assert.Equal(t, "/events?page=2&sort_by=timestamp&sort_order=desc", m.Location())

	m.Update(keyRunes("/"))
	m.Update(keyRunes("101"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(keyRunes("temperature"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewStateList, m.state)
	assert.Equal(t, "/events?scid=101&metric_type=temperature&page=1&sort_by=timestamp&sort_order=desc", m.Location())
	assert.Contains(t, m.View(), "Payload=101")
}

func TestEventsModel_FilterSubmitWhileBusy(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{})

	_, refresh := m.Update(keyRunes("r"))
	require.NotNil(t, refresh)

	m.Update(keyRunes("/"))
	m.Update(keyRunes("101"))
	assert.Contains(t, m.View(), "[enter] Apply (loading)")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateFilter, m.state)
	assert.Contains(t, m.View(), FilterBusyHint)

	m.Update(runLoad(t, refresh))
	m.Update(keyRunes("2"))
	assert.NotContains(t, m.View(), FilterBusyHint)
	assert.NotContains(t, m.View(), "(loading)")

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, m.state)
	assert.Equal(t, "/events?scid=1012&page=1&sort_by=timestamp&sort_order=desc", m.Location())
}

func TestEventsModel_LoadErrorKeepsTable(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{})
	before := m.Location()

	f.setErr(errors.New("boom"))
	press(t, m, keyRunes("n"))

	require.Error(t, m.Err())
	assert.Equal(t, before, m.Location())
	assert.Contains(t, m.View(), "Error loading events: boom")
	assert.Contains(t, m.View(), "Core Temp")

	m.Update(keyRunes("x"))
	assert.NotContains(t, m.View(), "Error loading events")

	f.setErr(nil)
	press(t, m, keyRunes("n"))
	assert.NoError(t, m.Err())
	assert.Equal(t, "/events?page=2&sort_by=timestamp&sort_order=desc", m.Location())
}

func TestEventsModel_EmptyPage(t *testing.T) {
	f := newStubFetcher()
	f.setEvents(nil, 0)
	m := startedModel(t, f, EventsOptions{})

	assert.Empty(t, m.table.Rows())
	assert.Contains(t, m.View(), table.EmptyMessage)
	assert.Empty(t, renderPagerBar(m.screen.pager))
}

func TestEventsModel_IgnoresTriggersWhileBusy(t *testing.T) {
	f := newStubFetcher()
	m := startedModel(t, f, EventsOptions{})

	_, first := m.Update(keyRunes("r"))
	require.NotNil(t, first)

	_, second := m.Update(keyRunes("n"))
	assert.Nil(t, second)
	_, third := m.Update(keyRunes("3"))
	assert.Nil(t, third)

	m.Update(runLoad(t, first))
	assert.Equal(t, 2, f.count())
	assert.Equal(t, "/events?page=1&sort_by=timestamp&sort_order=desc", m.Location())
}

func TestEventsModel_Monitor(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		m := startedModel(t, newStubFetcher(), EventsOptions{})
		_, cmd := m.Update(keyRunes("m"))
		assert.Nil(t, cmd)
		assert.Error(t, m.Err())
		assert.NotContains(t, m.View(), "[m] Run monitor")
	})

	t.Run("success reloads", func(t *testing.T) {
		f := newStubFetcher()
		m := startedModel(t, f, EventsOptions{Monitor: stubMonitor{}})
		press(t, m, keyRunes("m"))
		assert.NoError(t, m.Err())
		assert.Equal(t, 2, f.count())
		assert.Contains(t, m.View(), table.MonitorSucceeded)
	})

	t.Run("failure", func(t *testing.T) {
		f := newStubFetcher()
		m := startedModel(t, f, EventsOptions{Monitor: stubMonitor{err: errors.New("scheduler offline")}})
		press(t, m, keyRunes("m"))
		assert.Error(t, m.Err())
		assert.Equal(t, 1, f.count())
		assert.Contains(t, m.View(), "Error: scheduler offline")
	})
}

func TestEventsModel_HistoryDetail(t *testing.T) {
	history := func(context.Context, api.BreachHistoryQuery) ([]api.BreachPoint, error) {
		return nil, nil
	}
	m := startedModel(t, newStubFetcher(), EventsOptions{History: history})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, ViewStateDetail, m.state)
	assert.Contains(t, m.View(), "Breach history: Core Temp / temperature")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewStateList, m.state)
	assert.Nil(t, m.detail)
}

func TestEventsModel_Quit(t *testing.T) {
	m := startedModel(t, newStubFetcher(), EventsOptions{})
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.state)
	assert.Empty(t, m.View())
}

func TestFilterForm_CommitAndRevert(t *testing.T) {
	f := newFilterForm()
	require.True(t, f.Set(table.FilterStatus, "BREACH"))
	assert.False(t, f.Set("page", "2"))

	f.open()
	f.fields[0].input.SetValue("101")
	assert.Empty(t, f.Fields()[0].Value)

	f.revert()
	assert.Empty(t, f.fields[0].input.Value())

	f.fields[0].input.SetValue("101")
	f.commit()
	assert.Equal(t, "101", f.Fields()[0].Value)
	assert.Equal(t, []string{"Payload=101", "Status=BREACH"}, f.active())

	f.clear()
	assert.Equal(t, "101", f.Fields()[0].Value)

	f.prev()
	assert.Equal(t, len(f.fields)-1, f.focus)
	f.next()
	assert.Equal(t, 0, f.focus)
}
