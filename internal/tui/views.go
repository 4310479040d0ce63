package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theakshaypant/opscal/internal/calendar"
	"github.com/theakshaypant/opscal/internal/core"
	"github.com/theakshaypant/opscal/internal/util"
)

// painter renders a projection line by line, counting events in the same
// order as Display.Events so the selection index lines up.
type painter struct {
	lines        []string
	next         int
	selected     int
	selectedLine int
	width        int
}

func (p *painter) add(line string) {
	p.lines = append(p.lines, line)
}

// item renders one event row and advances the selection counter.
func (p *painter) item(e core.Event, timeLabel string, width int) string {
	isSelected := p.next == p.selected
	p.next++

	label := e.Title
	if timeLabel != "" {
		label = TimeStyle.Render(timeLabel) + " " + label
	}
	line := util.TruncateText(swatch(e.Color)+" "+label, width)
	if isSelected {
		return SelectedItemStyle.Render(line)
	}
	return line
}

// markSelected records the last added line if it holds the selected event.
func (p *painter) markSelected() {
	if p.next-1 == p.selected {
		p.selectedLine = len(p.lines) - 1
	}
}

// renderDisplay returns the painted projection and the line holding the
// selected event.
func renderDisplay(d calendar.Display, selected, width int) (string, int) {
	p := &painter{selected: selected, width: width}
	switch {
	case d.Err != "":
		p.add(ErrorStyle.Render(d.Err))
		p.add(PlaceholderStyle.Render("press r to retry"))
	case d.Month != nil:
		p.month(d.Month)
	case d.Week != nil:
		p.week(d.Week)
	case d.Day != nil:
		p.day(d.Day)
	case d.Agenda != nil:
		p.agenda(d.Agenda)
	}
	return strings.Join(p.lines, "\n"), p.selectedLine
}

func (p *painter) month(g *calendar.MonthGrid) {
	cellW := max(p.width/7, 6)

	var header []string
	for _, name := range g.Weekdays {
		header = append(header, WeekdayHeaderStyle.Width(cellW).Render(name))
	}
	p.add(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, row := range g.Rows() {
		var cells []string
		rowStart := len(p.lines)
		selectedInRow := false
		for _, c := range row {
			var lines []string
			day := strings.TrimLeft(c.Date.Format("_2"), " ")
			switch {
			case c.Today:
				lines = append(lines, TodayStyle.Render(day))
			case !c.InMonth:
				lines = append(lines, OtherMonthStyle.Render(day))
			default:
				lines = append(lines, DayNumberStyle.Render(day))
			}
			for i := 0; i < calendar.MonthCellLimit; i++ {
				if i >= len(c.Events) {
					lines = append(lines, "")
					continue
				}
				if !c.InMonth {
					lines = append(lines, OtherMonthStyle.Render(util.TruncateText(c.Events[i].Title, cellW-1)))
					continue
				}
				if p.next == p.selected {
					selectedInRow = true
				}
				lines = append(lines, p.item(c.Events[i], "", cellW-1))
			}
			if c.Overflow > 0 {
				lines = append(lines, OverflowStyle.Render(c.OverflowLabel()))
			} else {
				lines = append(lines, "")
			}
			cells = append(cells, lipgloss.NewStyle().Width(cellW).Render(strings.Join(lines, "\n")))
		}
		p.add(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if selectedInRow {
			p.selectedLine = rowStart
		}
	}
}

func (p *painter) week(w *calendar.WeekTable) {
	for _, col := range w.Columns {
		heading := col.Weekday + " " + col.Date.Format("Jan 2")
		if col.Today {
			heading = TodayStyle.Render(heading)
		} else {
			heading = SectionStyle.Render(heading)
		}
		p.add(heading)
		if len(col.Items) == 0 {
			p.add(PlaceholderStyle.Render("  -"))
		}
		for _, it := range col.Items {
			p.add("  " + p.item(it.Event, it.TimeLabel, p.width-2))
			p.markSelected()
		}
	}
}

func (p *painter) day(d *calendar.DayList) {
	if d.Empty {
		p.add(PlaceholderStyle.Render(d.Placeholder))
		return
	}
	for _, it := range d.Items {
		label := it.TimeLabel
		if it.EndLabel != "" {
			label += " – " + it.EndLabel
		}
		p.add(p.item(it.Event, label, p.width))
		p.markSelected()
		if it.Event.Description != "" {
			desc := util.PlainText(it.Event.Description, 0, util.LinksInline)
			first, _, _ := strings.Cut(desc, "\n")
			p.add("    " + PlaceholderStyle.Render(util.TruncateText(first, p.width-4)))
		}
	}
}

func (p *painter) agenda(a *calendar.AgendaList) {
	if a.Empty {
		p.add(PlaceholderStyle.Render(a.Placeholder))
		return
	}
	for i, s := range a.Sections {
		if i > 0 {
			p.add("")
		}
		p.add(SectionStyle.Render(s.Header))
		for _, it := range s.Items {
			p.add("  " + p.item(it.Event, it.TimeLabel, p.width-2))
			p.markSelected()
		}
	}
}
