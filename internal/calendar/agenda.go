package calendar

import "github.com/theakshaypant/opscal/internal/core"

// AgendaSection groups consecutive occurrences that start on the same day.
type AgendaSection struct {
	Header string
	Date   core.Date
	Items  []Item
}

// AgendaList is the rolling look-ahead projection.
type AgendaList struct {
	Sections    []AgendaSection
	Empty       bool
	Placeholder string
}

// RenderAgenda sorts the whole store by start and opens a new section each
// time the start day, as the viewer sees it, changes. The store is not range-limited here:
// the agenda fetch window already is the look-ahead.
func RenderAgenda(store *Store) AgendaList {
	var list AgendaList
	for _, e := range store.SortedByStart() {
		day := agendaDate(e)
		header := day.Format(LongDateLayout)
		if n := len(list.Sections); n == 0 || list.Sections[n-1].Header != header {
			list.Sections = append(list.Sections, AgendaSection{Header: header, Date: day})
		}
		last := &list.Sections[len(list.Sections)-1]
		last.Items = append(last.Items, timedItem(e))
	}
	if len(list.Sections) == 0 {
		list.Empty = true
		list.Placeholder = NoUpcomingEvents
	}
	return list
}
