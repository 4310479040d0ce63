package calendar

import (
	"sort"

	"github.com/theakshaypant/opscal/internal/core"
)

// Store holds the occurrences from the last successful fetch.
// The list is replaced wholesale and queried in fetch order.
type Store struct {
	events []core.Event
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetOccurrences replaces the stored list. The response is authoritative for
// the window it was requested for, so nothing is merged or deduplicated.
func (s *Store) SetOccurrences(events []core.Event) {
	s.events = append([]core.Event(nil), events...)
}

// Occurrences returns a copy of the stored list in fetch order.
func (s *Store) Occurrences() []core.Event {
	return append([]core.Event(nil), s.events...)
}

// Len returns the number of stored occurrences.
func (s *Store) Len() int {
	return len(s.events)
}

// OccurrencesOnDate returns every occurrence covering d, in fetch order.
// The month grid truncates this list, so the order must stay caller-controlled.
func (s *Store) OccurrencesOnDate(d core.Date) []core.Event {
	var out []core.Event
	for _, e := range s.events {
		if e.OccursOn(d) {
			out = append(out, e)
		}
	}
	return out
}

// SortedByStart returns all occurrences ordered by start; ties keep fetch order.
func (s *Store) SortedByStart() []core.Event {
	out := s.Occurrences()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
