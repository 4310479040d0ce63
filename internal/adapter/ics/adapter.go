// Package ics reads meetings from an iCalendar (.ics) subscription feed.
// Only materialized VEVENTs are used; RRULEs are not expanded.
package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

type ICSAdapter struct {
	id     string
	name   string
	url    string
	color  string
	client *http.Client
	log    *logrus.Entry
}

// NewICSAdapter creates a feed source. url may be an http(s) URL or a path
// to a local .ics file.
func NewICSAdapter(id, name, url, color string, timeout time.Duration, log *logrus.Entry) *ICSAdapter {
	if color == "" {
		color = core.DefaultColor(core.TypeMeeting)
	}
	return &ICSAdapter{
		id:     id,
		name:   name,
		url:    url,
		color:  color,
		client: &http.Client{Timeout: timeout},
		log:    log.WithField("provider", id),
	}
}

func (a *ICSAdapter) ID() string   { return a.id }
func (a *ICSAdapter) Name() string { return a.name }

// Login checks that a local feed file exists. Remote feeds need no login.
func (a *ICSAdapter) Login(context.Context) error {
	if a.remote() {
		return nil
	}
	if _, err := os.Stat(a.url); err != nil {
		return fmt.Errorf("feed file: %w", err)
	}
	return nil
}

func (a *ICSAdapter) remote() bool {
	return strings.HasPrefix(a.url, "http://") || strings.HasPrefix(a.url, "https://")
}

// Calendars lists the single feed this adapter reads.
func (a *ICSAdapter) Calendars() map[string]string {
	return map[string]string{a.url: a.name}
}

func (a *ICSAdapter) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	body, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	events, err := Parse(body, a.id, a.color, a.log)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	from, to := opts.Window(time.Local)
	var results []core.Event
	for _, e := range events {
		end := e.End
		if end.IsZero() {
			end = e.Start
		}
		if end.Before(from) || !e.Start.Before(to) {
			continue
		}
		results = append(results, e)
	}
	a.log.WithFields(logrus.Fields{
		"request_id": opts.RequestID,
		"count":      len(results),
	}).Debug("feed events in range")
	return results, nil
}

func (a *ICSAdapter) load(ctx context.Context) ([]byte, error) {
	if !a.remote() {
		b, err := os.ReadFile(a.url)
		if err != nil {
			return nil, fmt.Errorf("read feed file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &core.FetchError{Source: a.id, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &core.FetchError{Source: a.id, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Parse converts every VEVENT in body into a meeting occurrence. Events
// without a start are skipped with a warning.
func Parse(body []byte, providerID, color string, log *logrus.Entry) ([]core.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]core.Event, 0)
	for _, ve := range cal.Events() {
		e, err := parseVEvent(ve)
		if err != nil {
			log.WithError(err).WithField("uid", ve.Id()).Warn("skipping vevent")
			continue
		}
		e.ProviderID = providerID
		e.Color = color
		events = append(events, e)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (core.Event, error) {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return core.Event{}, errors.New("missing DTSTART")
	}

	e := core.Event{
		ID:     ve.Id(),
		Type:   core.TypeMeeting,
		AllDay: isDateValue(dtStart),
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Description = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		e.Location = p.Value
		if isLink(p.Value) {
			e.MeetingLink = p.Value
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		e.URL = p.Value
	}

	if e.AllDay {
		start, err := time.ParseInLocation("20060102", dtStart.Value, time.Local)
		if err != nil {
			return core.Event{}, fmt.Errorf("DTSTART %q: %w", dtStart.Value, err)
		}
		e.Start = start
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if end, err := time.ParseInLocation("20060102", dtEnd.Value, time.Local); err == nil {
				e.End, e.ExclusiveEnd = end, true
			}
		}
		return e, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return core.Event{}, fmt.Errorf("DTSTART: %w", err)
	}
	e.Start = start.Local()
	if end, err := ve.GetEndAt(); err == nil {
		e.End, e.ExclusiveEnd = end.Local(), true
	}
	if e.HasEnd() && e.End.Before(e.Start) {
		e.End = time.Time{}
	}
	return e, nil
}

// isDateValue reports VALUE=DATE or a bare YYYYMMDD value.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func isLink(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
