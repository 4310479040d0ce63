package core

import (
	"context"
	"time"
)

// FetchOptions configures which events to retrieve.
type FetchOptions struct {
	// Inclusive date window.
	Start Date
	End   Date

	// Categories requested from the source. The source is trusted to honor
	// them; nothing filters the result again.
	Types []EventType

	// RequestID correlates a fetch across logs and the X-Request-ID header.
	RequestID string
}

// Window returns the half-open time interval [Start 00:00, End+1 00:00) in loc.
// Sources that query by timestamp use it.
func (o FetchOptions) Window(loc *time.Location) (time.Time, time.Time) {
	return o.Start.Time(loc), o.End.AddDays(1).Time(loc)
}

// WantsType reports whether t is among the requested types.
func (o FetchOptions) WantsType(t EventType) bool {
	for _, v := range o.Types {
		if v == t {
			return true
		}
	}
	return false
}

// Provider represents an events source (portal API, Google, Outlook, ICS feed).
type Provider interface {
	// ID returns the unique identifier from the config (e.g. "portal")
	ID() string
	// Name returns a human-readable label (e.g. "Ops Portal")
	Name() string
	// FetchEvents retrieves events matching the given options.
	// This should block until done or context is cancelled.
	FetchEvents(ctx context.Context, opts FetchOptions) ([]Event, error)
}

// MeetingSource is a Provider backed by a personal calendar account that
// must be logged into and may hold several calendars.
type MeetingSource interface {
	Provider
	// Login loads credentials and prepares the API client.
	Login(ctx context.Context) error
	// Calendars returns the calendars available after Login (ID -> name).
	Calendars() map[string]string
}
