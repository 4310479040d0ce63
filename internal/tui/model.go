package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/calendar"
	"github.com/theakshaypant/opscal/internal/core"
	"github.com/theakshaypant/opscal/internal/util"
)

// Model is the Bubble Tea model for the TUI. All controller transitions
// happen in Update; fetches run as commands and report back with
// fetchDoneMsg.
type Model struct {
	ctrl     *calendar.Controller
	provider core.Provider
	log      *logrus.Entry
	keys     KeyMap

	display     calendar.Display
	events      []core.Event
	selectedIdx int
	notice      string
	// resetView scrolls back to the top once the pending fetch lands.
	resetView bool

	width         int
	height        int
	calWidth      int
	detailWidth   int
	contentHeight int
	compactMode   bool
	calView       viewport.Model
	detailView    viewport.Model
	viewportReady bool
	showHelp      bool
}

// NewModel wires the TUI to a controller and its events source.
func NewModel(ctrl *calendar.Controller, provider core.Provider, log *logrus.Entry) (Model, error) {
	if ctrl == nil {
		return Model{}, fmt.Errorf("tui: no calendar controller: %w", core.ErrInvalidConfiguration)
	}
	if provider == nil {
		return Model{}, fmt.Errorf("tui: no events provider: %w", core.ErrInvalidConfiguration)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	m := Model{
		ctrl:     ctrl,
		provider: provider,
		log:      log,
		keys:     DefaultKeyMap,
	}
	m.display = ctrl.Display()
	return m, nil
}

// Messages
type fetchDoneMsg struct {
	res calendar.Result
}

type tickMsg time.Time

type openFailedMsg struct {
	err error
}

// fetch runs req off the update loop.
func (m Model) fetch(req calendar.Request) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		return fetchDoneMsg{res: calendar.Fetch(context.Background(), provider, req)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init issues the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.ctrl.Start()), tickCmd())
}

// Paint replaces the displayed calendar. It makes the model a calendar.Surface.
func (m *Model) Paint(d calendar.Display) error {
	m.display = d
	m.events = d.Events()
	if m.selectedIdx >= len(m.events) {
		m.selectedIdx = len(m.events) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.updateCalendarContent()
	m.updateDetailContent()
	return nil
}

// transition marks the surface as loading and fetches. The previous
// projection stays on screen until the response is applied.
func (m *Model) transition(req calendar.Request) tea.Cmd {
	m.notice = ""
	m.display.Loading = true
	m.resetView = true
	return m.fetch(req)
}

func (m *Model) calculateLayout() {
	height := m.height
	if height < 12 {
		height = 12
	}
	// Header, filter bar, help bar and padding.
	m.contentHeight = height - 8

	m.compactMode = m.width < 110
	if m.compactMode {
		m.calWidth = m.width - 4
		m.detailWidth = m.width - 4
		return
	}
	m.detailWidth = m.width * 32 / 100
	if m.detailWidth > 60 {
		m.detailWidth = 60
	}
	m.calWidth = m.width - m.detailWidth - 5
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculateLayout()

		calH := max(m.contentHeight-3, 1)
		detailH := max(m.contentHeight-4, 1)
		if !m.viewportReady {
			m.calView = viewport.New(max(m.calWidth-4, 20), calH)
			m.calView.Style = lipgloss.NewStyle()
			m.detailView = viewport.New(max(m.detailWidth-6, 10), detailH)
			m.detailView.Style = lipgloss.NewStyle()
			m.viewportReady = true
		} else {
			m.calView.Width, m.calView.Height = max(m.calWidth-4, 20), calH
			m.detailView.Width, m.detailView.Height = max(m.detailWidth-6, 10), detailH
		}
		m.updateCalendarContent()
		m.updateDetailContent()
		return m, nil

	case fetchDoneMsg:
		if !m.ctrl.Apply(msg.res) {
			return m, nil
		}
		if m.resetView {
			m.resetView = false
			m.selectedIdx = 0
			m.calView.GotoTop()
			m.detailView.GotoTop()
		}
		_ = m.Paint(m.ctrl.Display())
		return m, nil

	case tickMsg:
		if !m.ctrl.Loading() {
			_ = m.Paint(m.ctrl.Display())
		}
		return m, tickCmd()

	case openFailedMsg:
		m.log.WithError(msg.err).Warn("could not open link")
		m.notice = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Month):
		return m, m.transition(m.ctrl.SwitchView(core.ViewMonth))
	case key.Matches(msg, m.keys.Week):
		return m, m.transition(m.ctrl.SwitchView(core.ViewWeek))
	case key.Matches(msg, m.keys.Day):
		return m, m.transition(m.ctrl.SwitchView(core.ViewDay))
	case key.Matches(msg, m.keys.Agenda):
		return m, m.transition(m.ctrl.SwitchView(core.ViewAgenda))
	case key.Matches(msg, m.keys.Prev):
		return m, m.transition(m.ctrl.NavigatePeriod(-1))
	case key.Matches(msg, m.keys.Next):
		return m, m.transition(m.ctrl.NavigatePeriod(1))
	case key.Matches(msg, m.keys.Today):
		return m, m.transition(m.ctrl.JumpToToday())
	case key.Matches(msg, m.keys.Refresh):
		return m, m.transition(m.ctrl.Refresh())

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.updateCalendarContent()
			m.updateDetailContent()
			m.detailView.GotoTop()
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.events)-1 {
			m.selectedIdx++
			m.updateCalendarContent()
			m.updateDetailContent()
			m.detailView.GotoTop()
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.detailView.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.detailView.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if e, ok := m.selected(); ok && e.URL != "" {
			return m, openURL(e.URL)
		}
		return m, nil
	case key.Matches(msg, m.keys.Join):
		if e, ok := m.selected(); ok && e.MeetingLink != "" {
			return m, openURL(e.MeetingLink)
		}
		return m, nil
	}

	for i, b := range m.keys.Filters {
		if key.Matches(msg, b) {
			t := core.AllEventTypes()[i]
			enabled := !m.ctrl.State().Filters.Has(t)
			return m, m.transition(m.ctrl.ToggleFilter(t, enabled))
		}
	}
	return m, nil
}

func (m Model) selected() (core.Event, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.events) {
		return core.Event{}, false
	}
	return m.events[m.selectedIdx], true
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	calPanel := m.renderCalendarPanel()
	var content string
	switch {
	case m.showHelp:
		content = m.renderHelpPanel()
	case m.compactMode:
		content = calPanel
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top, calPanel, " ", m.renderDetailPanel())
	}

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderFilters(),
		content,
		m.renderHelp(),
	))
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("opscal")
	period := PeriodStyle.Render(m.display.Label)
	view := lipgloss.NewStyle().Foreground(mutedColor).Render("[" + m.display.View.String() + "]")

	status := ""
	switch {
	case m.display.Loading:
		status = lipgloss.NewStyle().Foreground(accentColor).Render("loading…")
	case m.notice != "":
		status = ErrorStyle.Render(m.notice)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", period, "  ", view, "  ", status)
}

func (m Model) renderFilters() string {
	active := m.ctrl.State().Filters
	var parts []string
	for i, t := range core.AllEventTypes() {
		label := fmt.Sprintf("%d %s", i+1, t)
		if active.Has(t) {
			parts = append(parts, swatch(core.DefaultColor(t))+" "+FilterOnStyle.Render(label))
		} else {
			parts = append(parts, "  "+FilterOffStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWith(parts, "   ")...)
}

func (m Model) renderCalendarPanel() string {
	scrollInfo := ""
	if n := len(m.events); n > 0 {
		scrollInfo = lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf(" (%d/%d)", m.selectedIdx+1, n))
	}
	header := lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Render("Calendar") + scrollInfo
	return CalendarPanelStyle.Width(m.calWidth).Height(m.contentHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, m.calView.View()),
	)
}

func (m Model) renderDetailPanel() string {
	header := lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Render("Event Details")
	return DetailPanelStyle.Width(m.detailWidth).Height(m.contentHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.detailView.View()),
	)
}

// updateCalendarContent re-renders the current projection into the viewport
// and keeps the selected row visible.
func (m *Model) updateCalendarContent() {
	if !m.viewportReady {
		return
	}
	content, selectedLine := renderDisplay(m.display, m.selectedIdx, m.calView.Width)
	m.calView.SetContent(content)
	if selectedLine < m.calView.YOffset {
		m.calView.SetYOffset(selectedLine)
	} else if selectedLine >= m.calView.YOffset+m.calView.Height {
		m.calView.SetYOffset(selectedLine - m.calView.Height + 1)
	}
}

func (m *Model) updateDetailContent() {
	if !m.viewportReady {
		return
	}
	e, ok := m.selected()
	if !ok || m.display.Err != "" {
		m.detailView.SetContent(PlaceholderStyle.Render("No event selected"))
		return
	}
	m.detailView.SetContent(renderDetail(e, m.detailView.Width, time.Now()))
}

func (m Model) renderHelp() string {
	keys := []string{
		HelpKeyStyle.Render("m/w/d/a") + " view",
		HelpKeyStyle.Render("←/→") + " period",
		HelpKeyStyle.Render("t") + " today",
		HelpKeyStyle.Render("1-5") + " filters",
		HelpKeyStyle.Render("↑/↓") + " select",
		HelpKeyStyle.Render("enter") + " open",
		HelpKeyStyle.Render("r") + " refresh",
		HelpKeyStyle.Render("q") + " quit",
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, joinWith(keys, "  •  ")...)
	if lipgloss.Width(line) > m.width-4 {
		return HelpStyle.Render(HelpKeyStyle.Render("?") + " help")
	}
	return HelpStyle.Render(line)
}

func (m Model) renderHelpPanel() string {
	rows := [][2]string{
		{"m / w / d / a", "Month, week, day, agenda view"},
		{"← / →", "Previous / next period"},
		{"t", "Jump to today"},
		{"1 … 5", "Toggle maintenance, release, sprint, request, meeting"},
		{"↑ / ↓", "Select event"},
		{"ctrl+u / ctrl+d", "Scroll event details"},
		{"enter", "Open event page in browser"},
		{"o", "Join meeting"},
		{"r", "Refresh"},
		{"q / ctrl+c", "Quit"},
	}
	lines := []string{lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Render("Keyboard Shortcuts"), ""}
	for _, r := range rows {
		lines = append(lines, HelpKeyStyle.Width(18).Render("  "+r[0])+" "+r[1])
	}
	lines = append(lines, "", PlaceholderStyle.Render("  Press any key to close"))
	return DetailPanelStyle.Width(m.calWidth).Height(m.contentHeight).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// openURL opens a URL in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		cmd, err := util.BrowserCommand(url)
		if err == nil {
			err = cmd.Start()
		}
		if err != nil {
			return openFailedMsg{err: err}
		}
		return nil
	}
}

func joinWith(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
