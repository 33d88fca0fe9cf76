package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	bubbletable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/astra-monitor/eventview/internal/pagination"
	"github.com/astra-monitor/eventview/internal/table"
	"github.com/astra-monitor/eventview/internal/tui/detail"
)

// ViewState is the screen the events model is showing.
type ViewState int

const (
	// ViewStateList shows the event table.
	ViewStateList ViewState = iota
	// ViewStateFilter shows the filter form over the table.
	ViewStateFilter
	// ViewStateDetail shows the breach history of the selected event.
	ViewStateDetail
	// ViewStateQuitting is set once the program is exiting.
	ViewStateQuitting
)

// Layout defaults.
const (
	defaultWidth  = 120
	defaultHeight = 30
	minHeight     = 3

	// chromeHeight is the number of lines around the table: title, summary, pager,
	// location, help, error notice and spacing.
	chromeHeight = 12
)

// Key bindings.
const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keySlash   = "/"
	keyTab     = "tab"
	keyBackTab = "shift+tab"
	keyCtrlU   = "ctrl+u"
	keyNext    = "n"
	keyRight   = "right"
	keyPrev    = "p"
	keyLeft    = "left"
	keyFirst   = "<"
	keyLast    = ">"
	keyS       = "s"
	keyO       = "o"
	keyR       = "r"
	keyM       = "m"
	keyX       = "x"
)

// FilterBusyHint is shown when the filter form is submitted while a load is running.
const FilterBusyHint = "Load in progress, press enter again when it finishes"

// loadDoneMsg carries a finished load back to the UI goroutine.
type loadDoneMsg struct {
	outcome table.Outcome
}

// EventsModel is the interactive event table.
type EventsModel struct {
	ctx    context.Context
	ctrl   *table.Controller
	screen *screen
	form   *filterForm

	hasMonitor bool
	history    detail.HistoryFetcher
	detail     *detail.HistoryModel
	now        func() time.Time

	state   ViewState
	table   bubbletable.Model
	loading *LoadingState

	// formHint is shown in the filter form after a submit was refused.
	formHint string

	location string
	width    int
	height   int

	// err is the error of the most recent trigger or load.
	err error
}

// EventsOptions configures NewEventsModel.
type EventsOptions struct {
	// Location is the initial location, e.g. "/events?page=2".
	Location string

	// Path is the location path; defaults to table.DefaultPath.
	Path string

	// Defaults supplies the sort key and order used when the location names none.
	Defaults table.ViewState

	// Monitor enables the monitor action ('m').
	Monitor table.Monitor

	// History enables the breach history view (enter).
	History detail.HistoryFetcher

	Logger zerolog.Logger
}

// NewEventsModel creates the interactive table and issues the initial load from
// opts.Location. The load starts when the program calls Init.
func NewEventsModel(ctx context.Context, fetcher table.Fetcher, opts EventsOptions) *EventsModel {
	s := &screen{}
	form := newFilterForm()

	ctrlOpts := []table.Option{
		table.WithPath(opts.Path),
		table.WithDefaults(opts.Defaults),
		table.WithLogger(opts.Logger),
	}
	if opts.Monitor != nil {
		ctrlOpts = append(ctrlOpts, table.WithMonitor(opts.Monitor))
	}

	ctrl := table.NewController(fetcher, table.ViewPort{
		Form:     form,
		Rows:     s,
		Pager:    s,
		Errors:   s,
		Notices:  s,
		Busy:     s,
		Location: s,
	}, ctrlOpts...)

	m := &EventsModel{
		ctx:        ctx,
		ctrl:       ctrl,
		screen:     s,
		form:       form,
		hasMonitor: opts.Monitor != nil,
		history:    opts.History,
		now:        time.Now,
		state:      ViewStateList,
		loading:    NewLoadingState(),
		location:   opts.Location,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.rebuildTable()
	return m
}

// Location returns the location of the last successful load, falling back to the
// initial location.
func (m *EventsModel) Location() string {
	if loc := m.ctrl.Location(); loc != "" {
		return loc
	}
	return m.location
}

// Err returns the error of the most recent load, or nil if it succeeded.
func (m *EventsModel) Err() error { return m.err }

// Init starts the initial load.
func (m *EventsModel) Init() tea.Cmd {
	load, _ := m.ctrl.Start(m.location)
	return tea.Batch(m.loading.Init(), m.run(load))
}

// run turns a load into a command executed off the UI goroutine.
func (m *EventsModel) run(load *table.Load) tea.Cmd {
	if load == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return loadDoneMsg{outcome: load.Run(ctx)}
	}
}

// trigger runs a controller trigger and schedules its load.
func (m *EventsModel) trigger(fn func() (*table.Load, error)) tea.Cmd {
	m.screen.notice = ""
	load, err := fn()
	if err != nil {
		m.err = err
	}
	return m.run(load)
}

// Update handles messages (Bubble Tea interface).
func (m *EventsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.rebuildTable()
		if m.detail != nil {
			m.detail.Update(msg)
		}
		return m, nil

	case loadDoneMsg:
		m.err = m.ctrl.Apply(msg.outcome)
		m.rebuildTable()
		return m, nil

	case spinner.TickMsg:
		cmds := []tea.Cmd{m.loading.Update(msg)}
		if m.detail != nil {
			_, cmd := m.detail.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	switch m.state {
	case ViewStateFilter:
		return m.handleFilterUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m.handleListUpdate(msg)
	}
}

func (m *EventsModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch key := keyMsg.String(); key {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keySlash:
		m.state = ViewStateFilter
		m.form.open()
		return m, nil
	case keyNext, keyRight:
		return m, m.goToPager(pagination.ItemNext)
	case keyPrev, keyLeft:
		return m, m.goToPager(pagination.ItemPrev)
	case keyFirst:
		return m, m.trigger(func() (*table.Load, error) { return m.ctrl.GoToPage(1) })
	case keyLast:
		if total := m.screen.pager.Meta.TotalPages; total > 1 {
			return m, m.trigger(func() (*table.Load, error) { return m.ctrl.GoToPage(total) })
		}
		return m, nil
	case keyS:
		return m, m.trigger(func() (*table.Load, error) { return m.ctrl.SortBy(m.nextSortColumn()) })
	case keyO:
		return m, m.trigger(func() (*table.Load, error) { return m.ctrl.SortBy(m.ctrl.State().SortBy) })
	case keyR:
		return m, m.trigger(m.ctrl.Refresh)
	case keyM:
		return m, m.trigger(m.ctrl.RunMonitor)
	case keyX:
		m.ctrl.Presenter().Dismiss()
		m.screen.notice = ""
		return m, nil
	case keyEnter:
		return m, m.openDetail()
	case "1", "2", "3", "4", "5", "6":
		col := table.Columns()[int(key[0]-'1')]
		return m, m.trigger(func() (*table.Load, error) { return m.ctrl.SortBy(col.Key) })
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

// goToPager follows the Prev or Next control of the pagination bar, if present.
func (m *EventsModel) goToPager(kind pagination.ItemKind) tea.Cmd {
	for _, it := range m.screen.pager.Items {
		if it.Kind == kind {
			page := it.Page
			return m.trigger(func() (*table.Load, error) { return m.ctrl.GoToPage(page) })
		}
	}
	return nil
}

// nextSortColumn returns the column after the active sort column.
func (m *EventsModel) nextSortColumn() string {
	cols := table.Columns()
	current := m.ctrl.State().SortBy
	for i, c := range cols {
		if c.Key == current {
			return cols[(i+1)%len(cols)].Key
		}
	}
	return cols[0].Key
}

func (m *EventsModel) handleFilterUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.formHint = ""
	switch keyMsg.String() {
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc:
		m.form.revert()
		m.state = ViewStateList
		return m, nil
	case keyTab, "down":
		m.form.next()
		return m, nil
	case keyBackTab, "up":
		m.form.prev()
		return m, nil
	case keyCtrlU:
		m.form.clear()
		return m, nil
	case keyEnter:
		if m.ctrl.Busy() {
			m.formHint = FilterBusyHint
			return m, nil
		}
		m.form.commit()
		m.state = ViewStateList
		return m, m.trigger(m.ctrl.SubmitFilter)
	}

	field := &m.form.fields[m.form.focus]
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(keyMsg)
	return m, cmd
}

func (m *EventsModel) openDetail() tea.Cmd {
	if m.history == nil {
		return nil
	}
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.screen.rows) || m.screen.rows[cursor].Kind != table.RowEvent {
		return nil
	}
	m.detail = detail.NewHistoryModel(m.ctx, m.screen.rows[cursor].Event, m.now(), m.history)
	m.detail.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.state = ViewStateDetail
	return m.detail.Init()
}

func (m *EventsModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			m.state = ViewStateList
			m.detail = nil
			return m, nil
		}
	}
	if m.detail == nil {
		m.state = ViewStateList
		return m, nil
	}
	_, cmd := m.detail.Update(msg)
	return m, cmd
}

func (m *EventsModel) busy() bool {
	return m.screen.busy.Load() || m.ctrl.Busy()
}

// rebuildTable rebuilds the bubbles table from the rendered rows, keeping the cursor.
func (m *EventsModel) rebuildTable() {
	cursor := m.table.Cursor()
	state := m.ctrl.State()

	widths := m.columnWidths()
	cols := table.Columns()
	columns := make([]bubbletable.Column, len(cols))
	for i, c := range cols {
		title := c.Title
		if c.Key == state.SortBy {
			title += sortIndicator(state.SortOrder)
		}
		columns[i] = bubbletable.Column{Title: fmt.Sprintf("%d %s", i+1, title), Width: widths[i]}
	}

	rows := make([]bubbletable.Row, 0, len(m.screen.rows))
	for _, r := range m.screen.rows {
		if r.Kind == table.RowEmpty {
			continue
		}
		cells := append(bubbletable.Row(nil), r.Cells...)
		cells[len(cells)-1] = badge(r)
		rows = append(rows, cells)
	}

	height := m.height - chromeHeight
	if height < minHeight {
		height = minHeight
	}

	t := bubbletable.New(
		bubbletable.WithColumns(columns),
		bubbletable.WithRows(rows),
		bubbletable.WithFocused(m.state == ViewStateList),
		bubbletable.WithHeight(height),
	)
	s := bubbletable.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	if cursor > 0 && cursor < len(rows) {
		t.SetCursor(cursor)
	}
	m.table = t
}

// columnWidths distributes the terminal width over the six columns.
func (m *EventsModel) columnWidths() []int {
	//nolint:mnd // Minimum column widths: timestamp, payload, metric, value, threshold, status.
	widths := []int{19, 18, 16, 10, 10, 8}
	used := 0
	for _, w := range widths {
		used += w + 2 //nolint:mnd // Cell padding.
	}
	if extra := m.width - used; extra > 0 {
		widths[1] += extra / 2 //nolint:mnd // Payload and metric share the slack.
		widths[2] += extra - extra/2
	}
	return widths
}

func sortIndicator(order string) string {
	if order == pagination.SortOrderAsc {
		return " ▲"
	}
	return " ▼"
}

// badge renders the status text. Styled cells break the bubbles table's width
// accounting, so the badge is marked with a symbol instead of color.
func badge(r table.Row) string {
	if r.Badge == table.BadgeBreach {
		return "● " + r.Cells[len(r.Cells)-1]
	}
	return "○ " + r.Cells[len(r.Cells)-1]
}

// View renders the current screen (Bubble Tea interface).
func (m *EventsModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		if m.detail != nil {
			return m.detail.View()
		}
	}

	sections := []string{HeaderStyle.Render("Monitoring events") + "  " + MutedStyle.Render(m.statusLine())}

	if m.screen.errText != "" {
		sections = append(sections, ErrorNoticeStyle.Render(m.screen.errText+"  [x]"))
	}
	if m.screen.notice != "" {
		sections = append(sections, NoticeStyle.Render(m.screen.notice))
	}

	sections = append(sections, m.table.View())
	if len(m.screen.rows) == 1 && m.screen.rows[0].Kind == table.RowEmpty {
		sections = append(sections, MutedStyle.Render(m.screen.rows[0].Cells[0]))
	}

	if bar := renderPagerBar(m.screen.pager); bar != "" {
		sections = append(sections, bar)
	}
	if m.state == ViewStateFilter {
		sections = append(sections, m.renderFilterForm())
	}
	if m.busy() {
		sections = append(sections, RenderLoading(m.loading))
	}
	sections = append(sections, MutedStyle.Render(m.Location()), MutedStyle.Render(m.helpText()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *EventsModel) statusLine() string {
	parts := []string{}
	if len(m.screen.rows) > 0 && m.screen.rows[0].Kind == table.RowEvent {
		parts = append(parts, summaryLine(m.screen.pager.Meta, len(m.screen.rows)))
	}
	if active := m.form.active(); len(active) > 0 {
		parts = append(parts, "filter: "+strings.Join(active, ", "))
	}
	return strings.Join(parts, " | ")
}

func (m *EventsModel) renderFilterForm() string {
	var sb strings.Builder
	for i, f := range m.form.fields {
		label := fmt.Sprintf("%-8s", f.label)
		if i == m.form.focus {
			label = FocusedLabelStyle.Render(label)
		}
		sb.WriteString(label + " " + f.input.View())
		if i < len(m.form.fields)-1 {
			sb.WriteString("\n")
		}
	}
	apply := "[enter] Apply"
	if m.ctrl.Busy() {
		apply = DisabledStyle.UnsetPadding().Render(apply + " (loading)")
	}
	help := MutedStyle.Render("[tab] Next field  [ctrl+u] Clear  ") + apply + MutedStyle.Render("  [esc] Cancel")
	if m.formHint != "" {
		help = FocusedLabelStyle.Render(m.formHint) + "\n" + help
	}
	return BoxStyle.Render(sb.String() + "\n" + help)
}

func (m *EventsModel) helpText() string {
	if m.state == ViewStateFilter {
		return ""
	}
	help := "[/] Filter  [←→/pn] Page  [1-6] Sort  [s] Next sort  [o] Order  [r] Refresh"
	if m.hasMonitor {
		help += "  [m] Run monitor"
	}
	if m.history != nil {
		help += "  [enter] History"
	}
	return help + "  [q] Quit"
}

// renderPagerBar renders the pagination controls on one line.
func renderPagerBar(p table.Pager) string {
	if len(p.Items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		switch {
		case it.Active:
			parts = append(parts, ActivePageStyle.Render(it.Label()))
		case it.Clickable():
			parts = append(parts, PageStyle.Render(it.Label()))
		default:
			parts = append(parts, DisabledStyle.Render(it.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Run starts the interactive program on the terminal and blocks until the user quits.
// It returns the final model so the caller can print the location.
func Run(ctx context.Context, m *EventsModel) (*EventsModel, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return m, fmt.Errorf("running event table: %w", err)
	}
	if fm, ok := final.(*EventsModel); ok {
		return fm, nil
	}
	return m, nil
}
