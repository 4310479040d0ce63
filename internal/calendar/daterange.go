// Package calendar holds the view state machine and the pure projections
// (date ranges, store queries, display models) behind every calendar view.
package calendar

import "github.com/theakshaypant/opscal/internal/core"

// MonthGridCells is the fixed size of the month grid (6 weeks × 7 days).
const MonthGridCells = 42

// AgendaMonths is the look-ahead span of the agenda view.
const AgendaMonths = 2

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	Start core.Date
	End   core.Date
}

// Days returns the number of days in the range, bounds included.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d core.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// ComputeRange returns the fetch window for view anchored at anchor.
func ComputeRange(view core.View, anchor core.Date) DateRange {
	switch view {
	case core.ViewWeek:
		start := anchor.StartOfWeek()
		return DateRange{Start: start, End: start.AddDays(6)}
	case core.ViewDay:
		return DateRange{Start: anchor, End: anchor}
	case core.ViewAgenda:
		return DateRange{Start: anchor, End: anchor.AddMonths(AgendaMonths)}
	default:
		return DateRange{Start: anchor.FirstOfMonth(), End: anchor.LastOfMonth()}
	}
}

// GridRange is the padded window drawn by the month grid: 42 days starting on
// the Sunday on or before the first of anchor's month. Fetching still uses
// ComputeRange, so padding days only show what the month fetch returned.
func GridRange(anchor core.Date) DateRange {
	start := anchor.FirstOfMonth().StartOfWeek()
	return DateRange{Start: start, End: start.AddDays(MonthGridCells - 1)}
}
