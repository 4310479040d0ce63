package calendar

import "github.com/theakshaypant/opscal/internal/core"

// DayList is the single-day projection.
type DayList struct {
	Date        core.Date
	Items       []Item
	Empty       bool
	Placeholder string
}

// RenderDay lists the occurrences on anchor. Every item carries its start
// time, plus the end time when the occurrence has one.
func RenderDay(anchor core.Date, store *Store) DayList {
	list := DayList{Date: anchor}
	for _, e := range store.OccurrencesOnDate(anchor) {
		it := Item{Event: e, TimeLabel: startLabel(e)}
		if e.HasEnd() {
			it.EndLabel = endLabel(e)
		}
		list.Items = append(list.Items, it)
	}
	if len(list.Items) == 0 {
		list.Empty = true
		list.Placeholder = NoEventsForDay
	}
	return list
}
