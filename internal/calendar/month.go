package calendar

import (
	"fmt"

	"github.com/theakshaypant/opscal/internal/core"
)

// MonthCellLimit is how many occurrences a month cell lists before "+N more".
const MonthCellLimit = 3

// WeekdayNames are the grid column headers, Sunday first.
var WeekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthCell is one day of the month grid.
type MonthCell struct {
	Date    core.Date
	InMonth bool
	Today   bool
	// At most MonthCellLimit occurrences, in fetch order.
	Events []core.Event
	// Occurrences that did not fit.
	Overflow int
}

// OverflowLabel returns "+N more", or "" when everything fits.
func (c MonthCell) OverflowLabel() string {
	if c.Overflow <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", c.Overflow)
}

// MonthGrid is the 6×7 month projection.
type MonthGrid struct {
	Month    core.Date // first day of the focal month
	Weekdays [7]string
	Cells    []MonthCell
}

// Rows splits the grid into weeks.
func (g MonthGrid) Rows() [][]MonthCell {
	rows := make([][]MonthCell, 0, len(g.Cells)/7)
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		rows = append(rows, g.Cells[i:i+7])
	}
	return rows
}

// RenderMonth builds the grid for anchor's month. The grid always has 42
// cells starting on a Sunday, padding into the neighbouring months.
func RenderMonth(anchor core.Date, store *Store, today core.Date) MonthGrid {
	grid := MonthGrid{
		Month:    anchor.FirstOfMonth(),
		Weekdays: WeekdayNames,
		Cells:    make([]MonthCell, MonthGridCells),
	}
	start := GridRange(anchor).Start
	for i := range grid.Cells {
		day := start.AddDays(i)
		events := store.OccurrencesOnDate(day)
		cell := MonthCell{
			Date:    day,
			InMonth: day.Month == anchor.Month && day.Year == anchor.Year,
			Today:   day == today,
		}
		if len(events) > MonthCellLimit {
			cell.Overflow = len(events) - MonthCellLimit
			events = events[:MonthCellLimit]
		}
		cell.Events = events
		grid.Cells[i] = cell
	}
	return grid
}
