package tui

import "github.com/charmbracelet/lipgloss"

// Colors.
const (
	colorAccent  = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("245")
	colorBorder  = lipgloss.Color("240")
	colorDanger  = lipgloss.Color("196")
	colorSuccess = lipgloss.Color("42")
	colorSelFG   = lipgloss.Color("229")
	colorSelBG   = lipgloss.Color("57")
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	// HeaderStyle renders section titles.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// TableHeaderStyle renders the column header row.
	TableHeaderStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)

	// TableSelectedStyle renders the row under the cursor.
	TableSelectedStyle = lipgloss.NewStyle().Foreground(colorSelFG).Background(colorSelBG).Bold(false)

	// BreachBadgeStyle renders a BREACH status.
	BreachBadgeStyle = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)

	// OKBadgeStyle renders any other status.
	OKBadgeStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	// ErrorNoticeStyle renders the dismissible error notice.
	ErrorNoticeStyle = lipgloss.NewStyle().
		Foreground(colorDanger).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDanger).
		Padding(0, 1)

	// NoticeStyle renders informational notices.
	NoticeStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)

	// ActivePageStyle renders the current page in the pagination bar.
	ActivePageStyle = lipgloss.NewStyle().Foreground(colorSelFG).Background(colorSelBG).Bold(true).Padding(0, 1)

	// PageStyle renders the other pagination controls.
	PageStyle = lipgloss.NewStyle().Padding(0, 1)

	// DisabledStyle renders ellipses and inactive controls.
	DisabledStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	// MutedStyle renders secondary text such as the location and help.
	MutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// FocusedLabelStyle renders the label of the focused filter field.
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	// BoxStyle frames the filter form.
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
)
