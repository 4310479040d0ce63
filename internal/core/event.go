package core

import (
	"strings"
	"time"
)

// EventType is the filterable category of a calendar entry.
type EventType string

const (
	TypeMaintenance EventType = "maintenance" // Maintenance window
	TypeRelease     EventType = "release"     // Code freeze, demo or release date
	TypeSprint      EventType = "sprint"      // Sprint schedule
	TypeRequest     EventType = "request"     // IT/DevOps request milestones
	TypeMeeting     EventType = "meeting"     // Meetings from a calendar provider
)

// AllEventTypes returns every known category in canonical order.
func AllEventTypes() []EventType {
	return []EventType{TypeMaintenance, TypeRelease, TypeSprint, TypeRequest, TypeMeeting}
}

// ParseEventTypes splits a comma-separated list, dropping blanks.
// Unknown names are kept as-is; the server decides what they mean.
func ParseEventTypes(s string) []EventType {
	var types []EventType
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		types = append(types, EventType(part))
	}
	return types
}

// JoinEventTypes renders types the way the events API expects them.
func JoinEventTypes(types []EventType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

var defaultColors = map[EventType]string{
	TypeMaintenance: "#EF4444", // red-500
	TypeRelease:     "#8B5CF6", // violet-500
	TypeSprint:      "#10B981", // emerald-500
	TypeRequest:     "#F59E0B", // amber-500
	TypeMeeting:     "#3B82F6", // blue-500
}

// DefaultColor is the display color used when a source sends none.
func DefaultColor(t EventType) string {
	if c, ok := defaultColors[t]; ok {
		return c
	}
	return "#6B7280"
}

// Event is a single materialized occurrence.
// All adapters (portal, Google, Outlook, ICS) must convert their data to this format.
// Events are values; nothing downstream mutates them.
type Event struct {
	// Unique ID (provided by the source, e.g. "maintenance_12")
	ID string
	// The ID of the provider source (e.g., "portal", "google")
	ProviderID string
	// Filter category
	Type EventType
	// Details
	Title       string
	Description string
	Location    string
	// Opaque display color (e.g. "#EF4444")
	Color string
	// Detail page URL
	URL string
	// Video conferencing link (meeting sources only)
	MeetingLink string
	// Timing. A zero End means the occurrence has no end.
	Start  time.Time
	End    time.Time
	AllDay bool
	// ExclusiveEnd marks sources whose End is the first instant after the
	// event (Google, Outlook, ICS). End itself is kept as sent.
	ExclusiveEnd bool
}

// HasEnd reports whether the occurrence carries an end timestamp.
func (e Event) HasEnd() bool {
	return !e.End.IsZero()
}

// StartDate is the calendar day of Start, in Start's own offset.
func (e Event) StartDate() Date {
	return DateOf(e.Start)
}

// EndDate is the calendar day of End, or StartDate when there is no end.
// An exclusive end at midnight belongs to the previous day.
func (e Event) EndDate() Date {
	if !e.HasEnd() {
		return e.StartDate()
	}
	if e.ExclusiveEnd {
		return DateOf(InclusiveEnd(e.Start, e.End))
	}
	return DateOf(e.End)
}

// LocalStart is Start in the viewer's zone. Time labels use it; calendar
// day membership does not.
func (e Event) LocalStart() time.Time {
	return e.Start.In(time.Local)
}

// LocalEnd is End in the viewer's zone, zero when there is no end.
func (e Event) LocalEnd() time.Time {
	if !e.HasEnd() {
		return time.Time{}
	}
	return e.End.In(time.Local)
}

// OccursOn reports whether d falls within [StartDate, EndDate].
// Time of day is irrelevant.
func (e Event) OccursOn(d Date) bool {
	return !d.Before(e.StartDate()) && !d.After(e.EndDate())
}

// Duration returns the length of the event, zero when it has no end.
func (e Event) Duration() time.Duration {
	if !e.HasEnd() {
		return 0
	}
	return e.End.Sub(e.Start)
}

// InProgress checks if the event is happening right now.
func (e Event) InProgress(now time.Time) bool {
	return e.HasEnd() && now.After(e.Start) && now.Before(e.End)
}

// InclusiveEnd converts an exclusive end into one whose calendar day is the
// last day the event covers.
// An end at exactly midnight after start moves back into the previous day.
func InclusiveEnd(start, end time.Time) time.Time {
	if end.IsZero() || !end.After(start) {
		return end
	}
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 {
		return end.Add(-time.Nanosecond)
	}
	return end
}
