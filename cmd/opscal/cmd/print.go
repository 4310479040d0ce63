package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/opscal/internal/calendar"
	"github.com/theakshaypant/opscal/internal/core"
	"github.com/theakshaypant/opscal/internal/util"
)

const rule = "─────────────────────────────────────────────────"

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current view",
	Long: `Print the calendar for the saved (or --view) view around today (or --date).

Exits non-zero when the events could not be loaded.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	surface := &textSurface{w: cmd.OutOrStdout()}
	session, err := calendar.NewSession(ctrl, provider, surface, log)
	if err != nil {
		return err
	}
	if err := session.Run(cmd.Context(), ctrl.Start()); err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	return nil
}

// textSurface paints a Display as plain text.
type textSurface struct {
	w io.Writer
}

func (s *textSurface) Paint(d calendar.Display) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s  [%s]\n", d.Label, d.View)
	fmt.Fprintf(&b, "Showing: %s\n", core.JoinEventTypes(d.Filters))
	b.WriteString(rule + "\n")

	switch {
	case d.Err != "":
		fmt.Fprintf(&b, "⚠️  %s\n", d.Err)
	case d.Month != nil:
		printMonth(&b, d.Month)
	case d.Week != nil:
		printWeek(&b, d.Week)
	case d.Day != nil:
		printDay(&b, d.Day)
	case d.Agenda != nil:
		printAgenda(&b, d.Agenda)
	}

	_, err := io.WriteString(s.w, b.String())
	return err
}

// printMonth draws the 6-week grid, marking days with events, then lists
// the focal month's days that have any.
func printMonth(b *strings.Builder, g *calendar.MonthGrid) {
	for _, name := range g.Weekdays {
		fmt.Fprintf(b, "%-5s", name)
	}
	b.WriteString("\n")
	for _, row := range g.Rows() {
		for _, c := range row {
			mark := " "
			switch {
			case c.Today:
				mark = "<"
			case len(c.Events) > 0 && c.InMonth:
				mark = "•"
			}
			day := fmt.Sprintf("%2d", c.Date.Day)
			if !c.InMonth {
				day = "  "
			}
			fmt.Fprintf(b, "%s%s  ", day, mark)
		}
		b.WriteString("\n")
	}

	for _, c := range g.Cells {
		if !c.InMonth || len(c.Events) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n%s\n", c.Date.Format("Mon, Jan 2"))
		for _, e := range c.Events {
			printItem(b, calendar.Item{Event: e})
		}
		if label := c.OverflowLabel(); label != "" {
			fmt.Fprintf(b, "    %s\n", label)
		}
	}
}

func printWeek(b *strings.Builder, w *calendar.WeekTable) {
	for _, col := range w.Columns {
		fmt.Fprintf(b, "%s %s", col.Weekday, col.Date.Format("Jan 2"))
		if col.Today {
			b.WriteString("  (today)")
		}
		b.WriteString("\n")
		if len(col.Items) == 0 {
			b.WriteString("    -\n")
		}
		for _, it := range col.Items {
			printItem(b, it)
		}
	}
}

func printDay(b *strings.Builder, d *calendar.DayList) {
	if d.Empty {
		b.WriteString(d.Placeholder + "\n")
		return
	}
	for _, it := range d.Items {
		printItem(b, it)
		if it.Event.Description != "" {
			desc := util.PlainText(it.Event.Description, 0, util.LinksInline)
			first, _, _ := strings.Cut(desc, "\n")
			fmt.Fprintf(b, "      %s\n", util.TruncateText(strings.TrimSpace(first), 72))
		}
		if it.Event.URL != "" {
			fmt.Fprintf(b, "      🔗 %s\n", util.MakeHyperlink(it.Event.URL, it.Event.URL))
		}
	}
}

func printAgenda(b *strings.Builder, a *calendar.AgendaList) {
	if a.Empty {
		b.WriteString(a.Placeholder + "\n")
		return
	}
	for i, s := range a.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Header + "\n")
		for _, it := range s.Items {
			printItem(b, it)
		}
	}
}

func printItem(b *strings.Builder, it calendar.Item) {
	label := it.TimeLabel
	if it.EndLabel != "" {
		label += " – " + it.EndLabel
	}
	if label == "" && it.Event.AllDay {
		label = "all day"
	}
	fmt.Fprintf(b, "  [%s] ", it.Event.Type)
	if label != "" {
		fmt.Fprintf(b, "%s  ", label)
	}
	b.WriteString(it.Event.Title + "\n")
}

// printEventDetail prints every field of one occurrence.
func printEventDetail(w io.Writer, e core.Event) {
	fmt.Fprintf(w, "  [%s] %s\n", e.Type, e.Title)
	fmt.Fprintf(w, "  🕐 When:        %s\n", formatEventTime(e))
	if d := e.Duration(); d > 0 && !e.AllDay {
		fmt.Fprintf(w, "  ⏱️  Duration:    %s\n", formatDurationCompact(d))
	}
	if e.Location != "" {
		fmt.Fprintf(w, "  📍 Location:    %s\n", e.Location)
	}
	if e.MeetingLink != "" {
		fmt.Fprintf(w, "  📹 Join:        %s\n", util.MakeHyperlink(e.MeetingLink, e.MeetingLink))
	}
	if e.URL != "" {
		fmt.Fprintf(w, "  🔗 Details:     %s\n", util.MakeHyperlink(e.URL, e.URL))
	}
	if e.Description != "" {
		fmt.Fprintf(w, "  📝 Description:\n")
		for _, line := range strings.Split(util.PlainText(e.Description, 60, util.LinksInline), "\n") {
			fmt.Fprintf(w, "     %s\n", line)
		}
	}
}

// formatDurationCompact formats a duration in a compact way
func formatDurationCompact(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatEventTime(e core.Event) string {
	if e.AllDay {
		if e.EndDate() != e.StartDate() {
			return fmt.Sprintf("%s - %s (all day)", e.StartDate().Format("Mon, Jan 2"), e.EndDate().Format("Mon, Jan 2"))
		}
		return e.StartDate().Format("Mon, Jan 2") + " (all day)"
	}
	start := e.LocalStart()
	if !e.HasEnd() {
		return start.Format("Mon, Jan 2, 3:04 PM")
	}
	end := e.LocalEnd()
	if core.DateOf(start) == core.DateOf(end) {
		return fmt.Sprintf("%s, %s - %s", start.Format("Mon, Jan 2"), start.Format("3:04 PM"), end.Format("3:04 PM"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Mon, Jan 2 3:04 PM"), end.Format("Mon, Jan 2 3:04 PM"))
}
