package calendar

import (
	"testing"
	"time"

	"github.com/theakshaypant/opscal/internal/core"
)

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func titles(events []core.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStoreOccurrencesOnDate(t *testing.T) {
	s := NewStore()
	s.SetOccurrences([]core.Event{
		{Title: "sprint", Start: at(10, 0), End: at(12, 23)},
		{Title: "freeze", Start: at(10, 0), AllDay: true},
		{Title: "window", Start: at(11, 22), End: at(11, 23)},
	})

	tests := []struct {
		day  int
		want []string
	}{
		{9, nil},
		{10, []string{"sprint", "freeze"}},
		{11, []string{"sprint", "window"}},
		{12, []string{"sprint"}},
		{13, nil},
	}
	for _, tt := range tests {
		got := titles(s.OccurrencesOnDate(core.NewDate(2025, 3, tt.day)))
		if !equalStrings(got, tt.want) {
			t.Errorf("OccurrencesOnDate(2025-03-%02d) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestStoreKeepsFetchOrder(t *testing.T) {
	s := NewStore()
	s.SetOccurrences([]core.Event{
		{Title: "late", Start: at(10, 18)},
		{Title: "early", Start: at(10, 8)},
	})
	got := titles(s.OccurrencesOnDate(core.NewDate(2025, 3, 10)))
	if !equalStrings(got, []string{"late", "early"}) {
		t.Fatalf("OccurrencesOnDate reordered events: %v", got)
	}
}

func TestStoreSortedByStartIsStable(t *testing.T) {
	s := NewStore()
	s.SetOccurrences([]core.Event{
		{Title: "c", Start: at(12, 9)},
		{Title: "a1", Start: at(10, 9)},
		{Title: "b", Start: at(11, 9)},
		{Title: "a2", Start: at(10, 9)},
	})
	got := titles(s.SortedByStart())
	if !equalStrings(got, []string{"a1", "a2", "b", "c"}) {
		t.Fatalf("SortedByStart = %v", got)
	}
	if first := s.Occurrences()[0].Title; first != "c" {
		t.Fatalf("SortedByStart must not reorder the store, first is %q", first)
	}
}

func TestStoreSetOccurrencesReplaces(t *testing.T) {
	s := NewStore()
	in := []core.Event{{Title: "one", Start: at(10, 9)}}
	s.SetOccurrences(in)
	in[0].Title = "mutated"
	if s.Occurrences()[0].Title != "one" {
		t.Fatalf("store shares the caller's slice")
	}
	s.SetOccurrences(nil)
	if s.Len() != 0 {
		t.Fatalf("SetOccurrences(nil) should empty the store, has %d", s.Len())
	}
}
