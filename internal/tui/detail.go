package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/theakshaypant/opscal/internal/core"
	"github.com/theakshaypant/opscal/internal/util"
)

// renderDetail builds the detail panel for e, wrapped to width.
func renderDetail(e core.Event, width int, now time.Time) string {
	var lines []string
	lines = append(lines, TitleStyle.Render(ansi.Wordwrap(e.Title, width, "")))

	lines = append(lines, renderField("Type", swatch(e.Color)+" "+string(e.Type)))
	lines = append(lines, renderField("When", formatEventTime(e)))
	if d := e.Duration(); d > 0 && !e.AllDay {
		lines = append(lines, renderField("Duration", formatDuration(d)))
	}

	switch {
	case e.InProgress(now):
		lines = append(lines, "", InProgressStyle.Render("IN PROGRESS • "+formatDuration(e.End.Sub(now))+" remaining"))
	case e.Start.After(now):
		lines = append(lines, "", lipgloss.NewStyle().Foreground(accentColor).Render("Starts in "+formatDuration(e.Start.Sub(now))))
	}
	lines = append(lines, "")

	if e.Location != "" {
		lines = append(lines, renderWrappedField("Location", e.Location, width))
	}
	if e.MeetingLink != "" {
		lines = append(lines, renderLink("Join (o)", e.MeetingLink, width))
	}
	if e.URL != "" {
		lines = append(lines, renderLink("Details", e.URL, width))
	}

	if e.Description != "" {
		desc := util.PlainText(e.Description, width, util.LinksOSC8)
		lines = append(lines, "", LabelStyle.Render("Description"), ValueStyle.Render(ansi.Wordwrap(desc, width, "")))
	}
	return strings.Join(lines, "\n")
}

func renderField(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

// renderWrappedField word-wraps value to the space right of the label,
// indenting continuation lines to line up with the first.
func renderWrappedField(label, value string, maxWidth int) string {
	labelRendered := LabelStyle.Render(label)
	labelWidth := lipgloss.Width(labelRendered) + 1
	wrapped := strings.Split(ansi.Wordwrap(value, max(maxWidth-labelWidth, 10), ""), "\n")
	indent := strings.Repeat(" ", labelWidth)
	for i := 1; i < len(wrapped); i++ {
		wrapped[i] = indent + wrapped[i]
	}
	return labelRendered + " " + ValueStyle.Render(strings.Join(wrapped, "\n"))
}

func renderLink(label, url string, width int) string {
	labelWidth := lipgloss.Width(LabelStyle.Render(label)) + 1
	text := LinkStyle.Render(util.TruncateText(url, width-labelWidth))
	return renderField(label, util.MakeHyperlink(url, text))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// formatEventTime prints all-day spans as dates and timed spans on the
// viewer's clock.
func formatEventTime(e core.Event) string {
	if e.AllDay {
		if e.EndDate() != e.StartDate() {
			return fmt.Sprintf("%s – %s (all day)", e.StartDate().Format("Mon, Jan 2"), e.EndDate().Format("Mon, Jan 2"))
		}
		return e.StartDate().Format("Mon, Jan 2") + " (all day)"
	}
	start := e.LocalStart()
	if !e.HasEnd() {
		return start.Format("Mon, Jan 2, 3:04 PM")
	}
	end := e.LocalEnd()
	if core.DateOf(start) == core.DateOf(end) {
		return fmt.Sprintf("%s, %s – %s", start.Format("Mon, Jan 2"), start.Format("3:04 PM"), end.Format("3:04 PM"))
	}
	return fmt.Sprintf("%s – %s", start.Format("Mon, Jan 2 3:04 PM"), end.Format("Mon, Jan 2 3:04 PM"))
}
