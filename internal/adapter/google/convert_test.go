package google

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/theakshaypant/opscal/internal/core"
)

func TestParseEventTimed(t *testing.T) {
	item := &calendar.Event{
		Id:          "abc",
		Summary:     "Release review",
		HtmlLink:    "https://calendar.google.com/event?eid=abc",
		HangoutLink: "https://meet.google.com/legacy",
		ConferenceData: &calendar.ConferenceData{
			EntryPoints: []*calendar.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1"},
				{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
			},
		},
		Start: &calendar.EventDateTime{DateTime: "2025-03-11T15:00:00+01:00"},
		End:   &calendar.EventDateTime{DateTime: "2025-03-11T16:00:00+01:00"},
	}

	e, ok := parseEvent(item)
	if !ok {
		t.Fatalf("parseEvent dropped a valid event")
	}
	if e.Type != core.TypeMeeting || e.AllDay {
		t.Errorf("unexpected kind %+v", e)
	}
	if !e.Start.Equal(time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)) || e.Duration() != time.Hour {
		t.Errorf("unexpected timing %v..%v", e.Start, e.End)
	}
	if e.Start.Location() != time.Local {
		t.Errorf("start not converted to local time")
	}
	if e.MeetingLink != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("meeting link = %q", e.MeetingLink)
	}
}

func TestParseEventAllDay(t *testing.T) {
	item := &calendar.Event{
		Summary: "Offsite",
		Start:   &calendar.EventDateTime{Date: "2025-03-12"},
		End:     &calendar.EventDateTime{Date: "2025-03-14"},
	}
	e, ok := parseEvent(item)
	if !ok || !e.AllDay {
		t.Fatalf("parseEvent = %+v, %v", e, ok)
	}
	if e.StartDate() != core.NewDate(2025, 3, 12) || e.EndDate() != core.NewDate(2025, 3, 13) {
		t.Errorf("all-day spans %s..%s", e.StartDate(), e.EndDate())
	}
}

func TestParseEventMidnightEnd(t *testing.T) {
	item := &calendar.Event{
		Summary: "Late call",
		Start:   &calendar.EventDateTime{DateTime: "2025-03-10T23:00:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2025-03-11T00:00:00Z"},
	}
	e, ok := parseEvent(item)
	if !ok {
		t.Fatalf("parseEvent dropped a valid event")
	}
	if !e.End.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)) || e.Duration() != time.Hour {
		t.Errorf("end should be kept as sent, got %v (duration %v)", e.End, e.Duration())
	}
	if !e.ExclusiveEnd {
		t.Errorf("google events should be flagged exclusive-end")
	}
}

func TestParseEventDropped(t *testing.T) {
	tests := []struct {
		name string
		item *calendar.Event
	}{
		{"nil", nil},
		{"cancelled", &calendar.Event{Status: "cancelled", Start: &calendar.EventDateTime{Date: "2025-03-12"}}},
		{"no start", &calendar.Event{Summary: "x"}},
		{"bad date", &calendar.Event{Start: &calendar.EventDateTime{Date: "soon"}}},
	}
	for _, tt := range tests {
		if _, ok := parseEvent(tt.item); ok {
			t.Errorf("%s: parseEvent kept the event", tt.name)
		}
	}
}
