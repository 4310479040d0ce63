package outlook

import (
	"context"
	"fmt"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"
	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

// FetchEvents reads every selected calendar's view of the options window.
// A calendar that fails is logged and skipped.
func (o *OutlookAdapter) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	if o.client == nil {
		return nil, fmt.Errorf("%s: not logged in", o.id)
	}

	var results []core.Event
	for _, calID := range pickCalendars(o.calendars, o.selected) {
		events, err := o.fetchEventsFromCalendar(ctx, calID, opts)
		if err != nil {
			o.log.WithError(err).WithFields(logrus.Fields{
				"calendar":   calID,
				"request_id": opts.RequestID,
			}).Warn("skipping calendar")
			continue
		}
		results = append(results, events...)
	}
	return results, nil
}

func (o *OutlookAdapter) fetchEventsFromCalendar(ctx context.Context, calendarID string, opts core.FetchOptions) ([]core.Event, error) {
	from, to := opts.Window(time.Local)
	startStr := from.UTC().Format(time.RFC3339)
	endStr := to.UTC().Format(time.RFC3339)
	selectFields := []string{
		"id", "subject", "body", "start", "end", "location",
		"isAllDay", "onlineMeeting", "webLink", "isCancelled",
	}
	orderBy := []string{"start/dateTime"}
	top := int32(100)

	headers := abstractions.NewRequestHeaders()
	headers.Add("Prefer", `outlook.timezone="UTC"`)

	var result models.EventCollectionResponseable
	var err error
	if calendarID == defaultCalendar {
		result, err = o.client.Me().CalendarView().Get(ctx, &users.ItemCalendarViewRequestBuilderGetRequestConfiguration{
			QueryParameters: &users.ItemCalendarViewRequestBuilderGetQueryParameters{
				StartDateTime: &startStr,
				EndDateTime:   &endStr,
				Select:        selectFields,
				Orderby:       orderBy,
				Top:           &top,
			},
			Headers: headers,
		})
	} else {
		result, err = o.client.Me().Calendars().ByCalendarId(calendarID).CalendarView().Get(ctx, &users.ItemCalendarsItemCalendarViewRequestBuilderGetRequestConfiguration{
			QueryParameters: &users.ItemCalendarsItemCalendarViewRequestBuilderGetQueryParameters{
				StartDateTime: &startStr,
				EndDateTime:   &endStr,
				Select:        selectFields,
				Orderby:       orderBy,
				Top:           &top,
			},
			Headers: headers,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("fetch calendar view: %w", err)
	}

	pageIterator, err := msgraphcore.NewPageIterator[models.Eventable](
		result,
		o.client.GetAdapter(),
		models.CreateEventCollectionResponseFromDiscriminatorValue,
	)
	if err != nil {
		return nil, fmt.Errorf("create page iterator: %w", err)
	}

	var results []core.Event
	err = pageIterator.Iterate(ctx, func(item models.Eventable) bool {
		event, ok := parseGraphEvent(item)
		if ok {
			event.ProviderID = o.id
			event.Color = o.color
			results = append(results, event)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return results, nil
}

// parseGraphEvent converts a Graph event into a meeting occurrence.
// Cancelled events and events without a readable start are dropped.
func parseGraphEvent(item models.Eventable) (core.Event, bool) {
	if item == nil || derefBool(item.GetIsCancelled()) {
		return core.Event{}, false
	}
	start, ok := parseSDKDateTime(item.GetStart())
	if !ok {
		return core.Event{}, false
	}
	end, hasEnd := parseSDKDateTime(item.GetEnd())

	e := core.Event{
		ID:           derefStr(item.GetId()),
		Type:         core.TypeMeeting,
		Title:        derefStr(item.GetSubject()),
		URL:          derefStr(item.GetWebLink()),
		AllDay:       derefBool(item.GetIsAllDay()),
		ExclusiveEnd: true,
	}
	if om := item.GetOnlineMeeting(); om != nil {
		e.MeetingLink = derefStr(om.GetJoinUrl())
	}
	if body := item.GetBody(); body != nil {
		e.Description = derefStr(body.GetContent())
	}
	if loc := item.GetLocation(); loc != nil {
		e.Location = derefStr(loc.GetDisplayName())
	}

	if e.AllDay {
		// All-day events are midnight-to-midnight dates; keep the date, not the instant.
		e.Start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
		if hasEnd {
			e.End = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.Local)
		}
		return e, true
	}

	e.Start = start.Local()
	if hasEnd {
		e.End = end.Local()
	}
	return e, true
}

// parseSDKDateTime reads a Graph DateTimeTimeZone. Times are UTC because
// requests carry Prefer: outlook.timezone="UTC".
func parseSDKDateTime(dt models.DateTimeTimeZoneable) (time.Time, bool) {
	if dt == nil || dt.GetDateTime() == nil {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, *dt.GetDateTime()); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
