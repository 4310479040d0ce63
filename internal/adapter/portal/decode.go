package portal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

type eventsResponse struct {
	Events []rawEvent `json:"events"`
}

type rawEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day"`
	Color       string `json:"color"`
	DetailURL   string `json:"detail_url"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
}

// Layouts without an offset are read as local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	core.DateLayout,
}

// ParseTimestamp reads the timestamp forms the portal emits: RFC 3339 with an
// offset (kept as sent), or a naive date or datetime interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (c *Client) convert(raw rawEvent) (core.Event, error) {
	start, err := ParseTimestamp(raw.Start, time.Local)
	if err != nil {
		return core.Event{}, fmt.Errorf("event %q start: %w", raw.ID, err)
	}

	e := core.Event{
		ID:          raw.ID,
		ProviderID:  ProviderID,
		Type:        core.EventType(raw.EventType),
		Title:       raw.Title,
		Description: strings.TrimSpace(raw.Description),
		Color:       raw.Color,
		URL:         c.resolveURL(raw.DetailURL),
		Start:       start,
		AllDay:      raw.AllDay,
	}
	if e.Color == "" {
		e.Color = core.DefaultColor(e.Type)
	}

	if raw.End != "" {
		end, err := ParseTimestamp(raw.End, time.Local)
		switch {
		case err != nil:
			c.Log.WithError(err).WithField("event_id", raw.ID).Warn("ignoring unreadable end")
		case core.DateOf(end).Before(core.DateOf(start)):
			c.Log.WithFields(logrus.Fields{
				"event_id": raw.ID,
				"start":    raw.Start,
				"end":      raw.End,
			}).Warn("ignoring end before start")
		default:
			e.End = end
		}
	}
	return e, nil
}

// resolveURL makes relative detail links absolute against the endpoint.
func (c *Client) resolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	base, err := url.Parse(c.Config.Endpoint)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
