package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	fgColor        = lipgloss.Color("#F9FAFB") // Light
	dimColor       = lipgloss.Color("#52525B")

	// Layout
	AppStyle    = lipgloss.NewStyle().Padding(1, 2)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	PeriodStyle = lipgloss.NewStyle().Bold(true).Foreground(fgColor)

	CalendarPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	DetailPanelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primaryColor).Padding(1, 2)

	// Month grid
	WeekdayHeaderStyle = lipgloss.NewStyle().Foreground(mutedColor).Bold(true)
	DayNumberStyle     = lipgloss.NewStyle().Foreground(fgColor)
	OtherMonthStyle    = lipgloss.NewStyle().Foreground(dimColor).Faint(true)
	TodayStyle         = lipgloss.NewStyle().Background(primaryColor).Foreground(fgColor).Bold(true)
	OverflowStyle      = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	// Event rows
	SelectedItemStyle = lipgloss.NewStyle().Background(primaryColor).Foreground(fgColor).Bold(true)
	TimeStyle         = lipgloss.NewStyle().Foreground(secondaryColor)
	SectionStyle      = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	PlaceholderStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	ErrorStyle        = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	// Filters
	FilterOnStyle  = lipgloss.NewStyle().Bold(true)
	FilterOffStyle = lipgloss.NewStyle().Foreground(dimColor).Strikethrough(true)

	// Detail panel
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	LabelStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Width(14)
	ValueStyle = lipgloss.NewStyle().Foreground(fgColor)
	LinkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Underline(true)

	InProgressStyle = lipgloss.NewStyle().Background(secondaryColor).Foreground(fgColor).Bold(true).Padding(0, 1)

	// Help
	HelpStyle    = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
)

// swatch renders a colored bullet for an event's display color.
func swatch(color string) string {
	if color == "" {
		return "●"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
