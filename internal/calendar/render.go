package calendar

import (
	"fmt"

	"github.com/theakshaypant/opscal/internal/core"
)

const (
	// TimeLayout formats start/end labels on event items.
	TimeLayout = "3:04 PM"
	// LongDateLayout is used for the day label and agenda section headers.
	LongDateLayout = "Monday, January 2, 2006"

	AgendaLabel       = "Upcoming Events"
	NoEventsForDay    = "No events scheduled for this day"
	NoUpcomingEvents  = "No upcoming events"
	FetchFailedNotice = "Failed to load calendar events"
)

// Item is one occurrence as it appears in a list-like projection.
type Item struct {
	Event core.Event
	// Start time label, empty when the projection hides it (all-day events).
	TimeLabel string
	// End time label, only set by projections that show it.
	EndLabel string
}

// Display is the full display model for one paint of the calendar surface.
// Exactly one of Month, Week, Day or Agenda is set unless Err is non-empty.
type Display struct {
	View    core.View
	Anchor  core.Date
	Label   string
	Filters []core.EventType
	Loading bool
	Err     string

	Month  *MonthGrid
	Week   *WeekTable
	Day    *DayList
	Agenda *AgendaList
}

// Events returns the occurrences visible in the display, in reading order.
// The TUI uses it for selection.
func (d Display) Events() []core.Event {
	var out []core.Event
	switch {
	case d.Month != nil:
		for _, c := range d.Month.Cells {
			if c.InMonth {
				out = append(out, c.Events...)
			}
		}
	case d.Week != nil:
		for _, col := range d.Week.Columns {
			for _, it := range col.Items {
				out = append(out, it.Event)
			}
		}
	case d.Day != nil:
		for _, it := range d.Day.Items {
			out = append(out, it.Event)
		}
	case d.Agenda != nil:
		for _, s := range d.Agenda.Sections {
			for _, it := range s.Items {
				out = append(out, it.Event)
			}
		}
	}
	return out
}

// Render projects the store onto the display model for state.
// today is the real current date, used only for "today" highlighting.
func Render(state State, store *Store, today core.Date) Display {
	d := Display{
		View:    state.View,
		Anchor:  state.Anchor,
		Label:   PeriodLabel(state.View, state.Anchor),
		Filters: state.Filters.Types(),
	}
	switch state.View {
	case core.ViewWeek:
		w := RenderWeek(state.Anchor, store, today)
		d.Week = &w
	case core.ViewDay:
		day := RenderDay(state.Anchor, store)
		d.Day = &day
	case core.ViewAgenda:
		a := RenderAgenda(store)
		d.Agenda = &a
	default:
		m := RenderMonth(state.Anchor, store, today)
		d.Month = &m
	}
	return d
}

// PeriodLabel is the heading shown above the calendar for view at anchor.
func PeriodLabel(view core.View, anchor core.Date) string {
	switch view {
	case core.ViewWeek:
		r := ComputeRange(core.ViewWeek, anchor)
		return fmt.Sprintf("%s – %s", r.Start.Format("Jan 2"), r.End.Format("Jan 2, 2006"))
	case core.ViewDay:
		return anchor.Format(LongDateLayout)
	case core.ViewAgenda:
		return AgendaLabel
	default:
		return anchor.Format("January 2006")
	}
}

// startLabel shows a timed start on the viewer's clock. All-day starts are
// wall-clock dates and keep their own offset.
func startLabel(e core.Event) string {
	if e.AllDay {
		return e.Start.Format(TimeLayout)
	}
	return e.LocalStart().Format(TimeLayout)
}

func endLabel(e core.Event) string {
	if e.AllDay {
		return e.End.Format(TimeLayout)
	}
	return e.LocalEnd().Format(TimeLayout)
}

// agendaDate is the day an occurrence is listed under in the agenda: the
// viewer's day for timed occurrences, the event's own date when all-day.
func agendaDate(e core.Event) core.Date {
	if e.AllDay {
		return e.StartDate()
	}
	return core.DateOf(e.LocalStart())
}

// timedItem hides the start label for all-day events.
func timedItem(e core.Event) Item {
	it := Item{Event: e}
	if !e.AllDay {
		it.TimeLabel = startLabel(e)
	}
	return it
}
