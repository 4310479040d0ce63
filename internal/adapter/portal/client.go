// Package portal fetches maintenance windows, releases, sprints and requests
// from the operations portal events API.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

const (
	ProviderID = "portal"

	requestIDHeaderKey    = "X-Request-ID"
	cacheControlHeaderKey = "Cache-Control"
	noCacheValue          = "no-cache"
)

// HTTPClient is the part of *http.Client the portal client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	// Endpoint is the full events URL, e.g.
	// https://portal.example.com/authenticated/calendar/api/events/
	Endpoint string
	// APIToken is sent as a bearer token when set.
	APIToken string
	// Timeout bounds a single request. 0 means no timeout.
	Timeout time.Duration
}

type Client struct {
	Log    *logrus.Entry
	Config Config
	HTTP   HTTPClient
}

// New builds a client with a plain *http.Client honoring cfg.Timeout.
func New(cfg Config, log *logrus.Entry) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("portal: no endpoint configured: %w", core.ErrInvalidConfiguration)
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("portal: bad endpoint %q: %w", cfg.Endpoint, core.ErrInvalidConfiguration)
	}
	return &Client{
		Log:    log.WithField("provider", ProviderID),
		Config: cfg,
		HTTP:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) ID() string   { return ProviderID }
func (c *Client) Name() string { return "Ops Portal" }

// FetchEvents asks the portal for every occurrence in [opts.Start, opts.End]
// of the requested types. Any transport failure, non-2xx status or
// undecodable body is returned as a *core.FetchError.
func (c *Client) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	endpoint, err := c.eventsURL(opts)
	if err != nil {
		return nil, c.fail(0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("create http request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(cacheControlHeaderKey, noCacheValue)
	if opts.RequestID != "" {
		req.Header.Set(requestIDHeaderKey, opts.RequestID)
	}
	if c.Config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.APIToken)
	}

	log := c.Log.WithFields(logrus.Fields{
		"request_id": opts.RequestID,
		"start":      opts.Start.String(),
		"end":        opts.End.String(),
	})
	log.Debug("requesting events")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("perform http request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Warn("events request rejected")
		return nil, c.fail(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("read response body: %w", err))
	}

	var payload eventsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, c.fail(0, fmt.Errorf("decode response body: %w", err))
	}

	events := make([]core.Event, 0, len(payload.Events))
	for i, raw := range payload.Events {
		e, err := c.convert(raw)
		if err != nil {
			log.WithError(err).WithField("index", i).Warn("skipping undecodable event")
			continue
		}
		events = append(events, e)
	}
	log.WithField("count", len(events)).Debug("events received")
	return events, nil
}

// eventsURL appends start, end and types to the configured endpoint,
// preserving any query it already carries.
func (c *Client) eventsURL(opts core.FetchOptions) (string, error) {
	u, err := url.Parse(c.Config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("start", opts.Start.String())
	q.Set("end", opts.End.String())
	q.Set("types", core.JoinEventTypes(opts.Types))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fail(status int, err error) error {
	return &core.FetchError{Source: ProviderID, Status: status, Err: err}
}
