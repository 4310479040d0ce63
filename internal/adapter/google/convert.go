package google

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/theakshaypant/opscal/internal/core"
)

// parseEvent converts a Google Calendar event into a meeting occurrence.
// Cancelled events and events without a readable start are dropped.
func parseEvent(item *calendar.Event) (core.Event, bool) {
	if item == nil || item.Status == "cancelled" || item.Start == nil {
		return core.Event{}, false
	}

	e := core.Event{
		ID:          item.Id,
		Type:        core.TypeMeeting,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		URL:         item.HtmlLink,
		MeetingLink: extractMeetingLink(item),
	}

	if item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return core.Event{}, false
		}
		e.Start = start.Local()
		if item.End != nil && item.End.DateTime != "" {
			if end, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				e.End, e.ExclusiveEnd = end.Local(), true
			}
		}
		return e, true
	}

	// All-day: YYYY-MM-DD with an exclusive end date.
	start, err := time.ParseInLocation(core.DateLayout, item.Start.Date, time.Local)
	if err != nil {
		return core.Event{}, false
	}
	e.Start = start
	e.AllDay = true
	if item.End != nil && item.End.Date != "" {
		if end, err := time.ParseInLocation(core.DateLayout, item.End.Date, time.Local); err == nil {
			e.End, e.ExclusiveEnd = end, true
		}
	}
	return e, true
}

// extractMeetingLink gets the video conferencing link from Google Calendar event.
func extractMeetingLink(item *calendar.Event) string {
	if item.ConferenceData != nil {
		for _, entry := range item.ConferenceData.EntryPoints {
			if entry.EntryPointType == "video" {
				return entry.Uri
			}
		}
	}
	return item.HangoutLink
}
