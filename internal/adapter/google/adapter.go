package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/theakshaypant/opscal/internal/core"
)

type GoogleAdapter struct {
	id        string
	name      string
	color     string
	client    *http.Client
	service   *calendar.Service
	config    *oauth2.Config
	credsFile string
	tokenFile string
	selected  []string
	calendars map[string]string
	log       *logrus.Entry
}

// NewGoogleAdapter creates a meeting source. selected limits the calendars
// read; empty means every calendar on the account.
func NewGoogleAdapter(id, name, credsFile, tokenFile, color string, selected []string, log *logrus.Entry) *GoogleAdapter {
	if color == "" {
		color = core.DefaultColor(core.TypeMeeting)
	}
	return &GoogleAdapter{
		id:        id,
		name:      name,
		color:     color,
		credsFile: credsFile,
		tokenFile: tokenFile,
		selected:  selected,
		calendars: make(map[string]string),
		log:       log.WithField("provider", id),
	}
}

func (g *GoogleAdapter) ID() string   { return g.id }
func (g *GoogleAdapter) Name() string { return g.name }

// OAuthConfig reads the client credentials file. The auth command uses it
// to run the consent flow.
func (g *GoogleAdapter) OAuthConfig() (*oauth2.Config, error) {
	b, err := os.ReadFile(g.credsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return config, nil
}

// Login loads credentials and token, then initializes the Calendar service.
// Run `opscal auth` first to generate the token file.
func (g *GoogleAdapter) Login(ctx context.Context) error {
	config, err := g.OAuthConfig()
	if err != nil {
		return err
	}
	g.config = config

	tok, err := tokenFromFile(g.tokenFile)
	if err != nil {
		return fmt.Errorf("read token file (run 'opscal auth' first): %w", err)
	}

	g.client = g.config.Client(ctx, tok)
	g.service, err = calendar.NewService(ctx, option.WithHTTPClient(g.client))
	if err != nil {
		return fmt.Errorf("create calendar service: %w", err)
	}

	calList, err := g.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("load calendar list: %w", err)
	}
	for _, cal := range calList.Items {
		g.calendars[cal.Id] = cal.Summary
	}
	return nil
}

// Calendars returns the calendars on the account (ID -> name).
func (g *GoogleAdapter) Calendars() map[string]string {
	return g.calendars
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// FetchEvents reads every selected calendar for the options window. A
// calendar that fails is logged and skipped.
func (g *GoogleAdapter) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	if g.service == nil {
		return nil, fmt.Errorf("%s: not logged in", g.id)
	}

	var results []core.Event
	for _, calID := range g.calendarIDs() {
		events, err := g.fetchEventsFromCalendar(ctx, calID, opts)
		if err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{
				"calendar":   calID,
				"request_id": opts.RequestID,
			}).Warn("skipping calendar")
			continue
		}
		results = append(results, events...)
	}
	return results, nil
}

func (g *GoogleAdapter) calendarIDs() []string {
	if len(g.selected) > 0 {
		var ids []string
		for _, id := range g.selected {
			if _, ok := g.calendars[id]; ok {
				ids = append(ids, id)
			}
		}
		return ids
	}
	ids := make([]string, 0, len(g.calendars))
	for id := range g.calendars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *GoogleAdapter) fetchEventsFromCalendar(ctx context.Context, calendarID string, opts core.FetchOptions) ([]core.Event, error) {
	from, to := opts.Window(time.Local)

	var results []core.Event
	pageToken := ""
	for {
		req := g.service.Events.List(calendarID).
			ShowDeleted(false).
			SingleEvents(true).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		page, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("api call failed for calendar %s: %w", calendarID, err)
		}
		for _, item := range page.Items {
			event, ok := parseEvent(item)
			if !ok {
				continue
			}
			event.ProviderID = g.id
			event.Color = g.color
			results = append(results, event)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return results, nil
}
