package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astra-monitor/eventview/internal/api"
	listview "github.com/astra-monitor/eventview/internal/tui/list"
)

// HistoryWindow is how far back the history view looks.
const HistoryWindow = 60 * 24 * time.Hour

// headerLines is the number of lines above the list.
const headerLines = 4

// State is the loading state of a detail view.
type State int

const (
	// StateLoading means a fetch is in flight.
	StateLoading State = iota
	// StateLoaded means the data is shown.
	StateLoaded
	// StateError means the last fetch failed; 'r' retries.
	StateError
)

// HistoryFetcher loads the breach history for one payload metric.
type HistoryFetcher func(ctx context.Context, q api.BreachHistoryQuery) ([]api.BreachPoint, error)

type historyLoadedMsg struct {
	attempt int
	points  []api.BreachPoint
	err     error
}

//nolint:gochecknoglobals // Package-level styles, mirroring the table view.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	breachStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// HistoryModel shows the breach history of the payload metric behind one event.
type HistoryModel struct {
	ctx   context.Context
	fetch HistoryFetcher
	query api.BreachHistoryQuery
	title string
	loc   *time.Location

	state   State
	attempt int
	points  []api.BreachPoint
	err     error

	spinner spinner.Model
	list    *listview.VirtualListModel[api.BreachPoint]

	width  int
	height int
}

// NewHistoryModel creates a history view for ev covering HistoryWindow up to now.
func NewHistoryModel(ctx context.Context, ev api.EventRecord, now time.Time, fetch HistoryFetcher) *HistoryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &HistoryModel{
		ctx:   ctx,
		fetch: fetch,
		query: api.BreachHistoryQuery{
			SCID:       ev.SCID,
			MetricType: ev.MetricType,
			From:       now.Add(-HistoryWindow),
			To:         now,
		},
		title:   fmt.Sprintf("Breach history: %s / %s", ev.Identifier(), ev.MetricType),
		loc:     time.Local,
		state:   StateLoading,
		spinner: sp,
		width:   80, //nolint:mnd // Default terminal width.
		height:  24, //nolint:mnd // Default terminal height.
	}
	m.list = listview.NewVirtualListModel[api.BreachPoint](nil, m.listHeight(), m.width, m.renderPoint)
	return m
}

// SetLocation sets the zone timestamps are shown in.
func (m *HistoryModel) SetLocation(loc *time.Location) {
	if loc != nil {
		m.loc = loc
	}
}

// Query returns the history query the view issues.
func (m *HistoryModel) Query() api.BreachHistoryQuery { return m.query }

// State returns the loading state.
func (m *HistoryModel) State() State { return m.state }

// Points returns the loaded history.
func (m *HistoryModel) Points() []api.BreachPoint { return m.points }

// Err returns the last load error.
func (m *HistoryModel) Err() error { return m.err }

// Init starts the first load.
func (m *HistoryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *HistoryModel) load() tea.Cmd {
	m.attempt++
	m.state = StateLoading
	attempt, ctx, q, fetch := m.attempt, m.ctx, m.query, m.fetch
	return func() tea.Msg {
		points, err := fetch(ctx, q)
		return historyLoadedMsg{attempt: attempt, points: points, err: err}
	}
}

// Update handles load results, retries, resizes and list navigation.
func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.attempt != m.attempt {
			return m, nil
		}
		if msg.err != nil {
			m.state, m.err = StateError, msg.err
			return m, nil
		}
		m.state, m.err, m.points = StateLoaded, nil, msg.points
		m.list.SetItems(msg.points)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.width, m.listHeight())
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "r" && m.state == StateError {
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
		if m.state == StateLoaded {
			m.list.Update(msg)
		}
	}
	return m, nil
}

func (m *HistoryModel) listHeight() int {
	return m.height - headerLines - 2 //nolint:mnd // Help line and spacing.
}

func (m *HistoryModel) renderPoint(p api.BreachPoint, selected bool) string {
	line := fmt.Sprintf("%-19s  %10.2f  %10.2f  %s",
		p.Timestamp.In(m.loc).Format("2006-01-02 15:04:05"), p.Value, p.Threshold, p.Status)
	switch {
	case selected:
		return selectedStyle.Render(line)
	case p.Status == api.StatusBreach:
		return breachStyle.Render(line)
	default:
		return line
	}
}

// View renders the history.
func (m *HistoryModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%s to %s",
		m.query.From.Format(time.DateOnly), m.query.To.Format(time.DateOnly))))
	sb.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		sb.WriteString(m.spinner.View() + " Loading breach history...")
	case StateError:
		sb.WriteString(errorStyle.Render("Error loading breach history: " + m.err.Error()))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("[r] Retry  [esc] Back"))
		return sb.String()
	case StateLoaded:
		if len(m.points) == 0 {
			sb.WriteString("No breaches recorded in this period")
			break
		}
		sb.WriteString(fmt.Sprintf("%-19s  %10s  %10s  %s\n", "Timestamp", "Value", "Threshold", "Status"))
		sb.WriteString(m.list.View())
		sb.WriteString("\n\n")
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("%d breaches", len(m.points))))
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("[↑↓/jk] Navigate  [esc] Back  [q] Quit"))
	return sb.String()
}
