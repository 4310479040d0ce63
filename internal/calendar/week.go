package calendar

import "github.com/theakshaypant/opscal/internal/core"

// WeekColumn is one day of the week table.
type WeekColumn struct {
	Date    core.Date
	Weekday string
	Today   bool
	Items   []Item
}

// WeekTable is the seven-column, Sunday-first week projection.
type WeekTable struct {
	Columns [7]WeekColumn
}

// RenderWeek lists every occurrence of each day in anchor's week, uncapped.
func RenderWeek(anchor core.Date, store *Store, today core.Date) WeekTable {
	var table WeekTable
	start := anchor.StartOfWeek()
	for i := range table.Columns {
		day := start.AddDays(i)
		col := WeekColumn{
			Date:    day,
			Weekday: WeekdayNames[day.Weekday()],
			Today:   day == today,
		}
		for _, e := range store.OccurrencesOnDate(day) {
			col.Items = append(col.Items, timedItem(e))
		}
		table.Columns[i] = col
	}
	return table
}
