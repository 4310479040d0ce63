package ics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

const feed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//opscal//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup-1\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART:20250311T140000Z\r\n" +
	"DTEND:20250311T143000Z\r\n" +
	"SUMMARY:Standup\r\n" +
	"LOCATION:https://meet.example.com/standup\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:offsite-1\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20250312\r\n" +
	"DTEND;VALUE=DATE:20250314\r\n" +
	"SUMMARY:Offsite\r\n" +
	"DESCRIPTION:Bring laptops\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:april-1\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART:20250415T090000Z\r\n" +
	"SUMMARY:Planning\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:nostart-1\r\n" +
	"SUMMARY:Broken\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func quietLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestParse(t *testing.T) {
	events, err := Parse([]byte(feed), "ics", "#123456", quietLog())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Parse() returned %d events, want 3", len(events))
	}

	standup := events[0]
	if standup.Type != core.TypeMeeting || standup.ProviderID != "ics" || standup.Color != "#123456" {
		t.Errorf("unexpected standup identity %+v", standup)
	}
	if !standup.Start.Equal(time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)) || standup.Duration() != 30*time.Minute {
		t.Errorf("unexpected standup timing %v..%v", standup.Start, standup.End)
	}
	if standup.MeetingLink != "https://meet.example.com/standup" {
		t.Errorf("meeting link = %q", standup.MeetingLink)
	}

	offsite := events[1]
	if !offsite.AllDay || offsite.Description != "Bring laptops" {
		t.Errorf("unexpected offsite %+v", offsite)
	}
	if offsite.StartDate() != core.NewDate(2025, 3, 12) || offsite.EndDate() != core.NewDate(2025, 3, 13) {
		t.Errorf("offsite spans %s..%s, want exclusive DTEND trimmed", offsite.StartDate(), offsite.EndDate())
	}

	if _, err := Parse(nil, "ics", "", quietLog()); err == nil {
		t.Errorf("Parse(nil) should fail")
	}
}

func TestICSAdapter_FetchEventsFiltersWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		io.WriteString(w, feed)
	}))
	defer srv.Close()

	a := NewICSAdapter("ics", "Team", srv.URL, "", 0, quietLog())
	events, err := a.FetchEvents(context.Background(), core.FetchOptions{
		Start: core.NewDate(2025, 3, 1),
		End:   core.NewDate(2025, 3, 31),
	})
	if err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}
	var got []string
	for _, e := range events {
		got = append(got, e.Title)
		if e.Color != core.DefaultColor(core.TypeMeeting) {
			t.Errorf("%s color = %q", e.Title, e.Color)
		}
	}
	if strings.Join(got, ",") != "Standup,Offsite" {
		t.Fatalf("events in March = %v", got)
	}
}

func TestICSAdapter_FetchEventsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	a := NewICSAdapter("ics", "Team", srv.URL, "", 0, quietLog())
	_, err := a.FetchEvents(context.Background(), core.FetchOptions{Start: core.NewDate(2025, 3, 1), End: core.NewDate(2025, 3, 31)})
	fe, ok := err.(*core.FetchError)
	if !ok || fe.Status != http.StatusGone {
		t.Fatalf("FetchEvents() error = %v, want FetchError 410", err)
	}
}

func TestICSAdapter_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.ics")
	a := NewICSAdapter("ics", "Team", path, "", 0, quietLog())
	if err := a.Login(context.Background()); err == nil {
		t.Fatalf("Login should fail while the feed file is missing")
	}

	if err := os.WriteFile(path, []byte(feed), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	events, err := a.FetchEvents(context.Background(), core.FetchOptions{
		Start: core.NewDate(2025, 1, 1),
		End:   core.NewDate(2025, 12, 31),
		Types: []core.EventType{core.TypeMeeting},
	})
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(events) == 0 {
		t.Fatalf("no events read from the local feed")
	}
}
