package calendar

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

// Request describes the fetch a transition needs. The Controller never
// performs I/O itself; a Session or the TUI executes the request and hands
// the Result back through Apply.
type Request struct {
	// Seq orders requests issued by one Controller. Only the latest is applied.
	Seq uint64
	// ID is a random correlation id for logs and the X-Request-ID header.
	ID    string
	State State
	Range DateRange
}

// Options converts the request into provider fetch options.
func (r Request) Options() core.FetchOptions {
	return core.FetchOptions{
		Start:     r.Range.Start,
		End:       r.Range.End,
		Types:     r.State.Filters.Types(),
		RequestID: r.ID,
	}
}

// Result is the outcome of executing a Request.
type Result struct {
	Request Request
	Events  []core.Event
	Err     error
}

// Controller owns the calendar state and the event store.
type Controller struct {
	state    State
	store    *Store
	prefs    core.Preferences
	now      func() time.Time
	log      *logrus.Entry
	seq      uint64
	resolved uint64
	err      error

	viewForced bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock overrides time.Now (today, jump-to-today, "today" highlighting).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger used for persistence and staleness messages.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Controller) { c.log = log }
}

// WithFilters replaces the initial filter set (default: every category).
func WithFilters(types ...core.EventType) Option {
	return func(c *Controller) { c.state.Filters = NewFilterSet(types...) }
}

// WithView forces the initial view, overriding the saved preference.
func WithView(v core.View) Option {
	return func(c *Controller) {
		c.state.View = v
		c.viewForced = true
	}
}

// WithAnchor starts the session on a date other than today.
func WithAnchor(d core.Date) Option {
	return func(c *Controller) { c.state.Anchor = d }
}

// NewController creates the session state: view from prefs (Month when none
// is saved), anchor today, every category active. prefs may be nil.
func NewController(prefs core.Preferences, opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		store: NewStore(),
		prefs: prefs,
		now:   time.Now,
		log:   logrus.NewEntry(discard),
	}
	c.state.View = core.ViewMonth
	c.state.Filters = NewFilterSet(core.AllEventTypes()...)

	for _, opt := range opts {
		opt(c)
	}

	if prefs != nil && !c.viewForced {
		v, ok, err := prefs.LoadView()
		switch {
		case err != nil:
			c.log.WithError(err).Warn("could not load saved view, using month")
		case ok:
			c.state.View = v
		}
	}
	if c.state.Anchor.IsZero() {
		c.state.Anchor = core.DateOf(c.now())
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Store exposes the event store for read-only queries.
func (c *Controller) Store() *Store {
	return c.store
}

// Today is the clock's current calendar day.
func (c *Controller) Today() core.Date {
	return core.DateOf(c.now())
}

// Start returns the request for the initial load.
func (c *Controller) Start() Request {
	return c.issue()
}

// Refresh re-fetches the current state.
func (c *Controller) Refresh() Request {
	return c.issue()
}

// SwitchView changes the view and remembers it for future sessions.
// A failed save is logged; the switch still happens.
func (c *Controller) SwitchView(v core.View) Request {
	c.state.View = v
	if c.prefs != nil {
		if err := c.prefs.SaveView(v); err != nil {
			c.log.WithError(err).WithField("view", v.String()).Warn("could not save view preference")
		}
	}
	return c.issue()
}

// NavigatePeriod moves the anchor one unit of the current view: a calendar
// month for Month and Agenda, 7 days for Week, 1 day for Day. Only the sign
// of direction is used; 0 keeps the anchor and re-fetches.
func (c *Controller) NavigatePeriod(direction int) Request {
	step := sign(direction)
	switch c.state.View {
	case core.ViewWeek:
		c.state.Anchor = c.state.Anchor.AddDays(7 * step)
	case core.ViewDay:
		c.state.Anchor = c.state.Anchor.AddDays(step)
	default:
		c.state.Anchor = c.state.Anchor.AddMonths(step)
	}
	return c.issue()
}

// JumpToToday resets the anchor to the clock's current day.
func (c *Controller) JumpToToday() Request {
	c.state.Anchor = c.Today()
	return c.issue()
}

// ToggleFilter enables or disables a category. The set never holds
// duplicates, and every call re-fetches, including no-op toggles.
func (c *Controller) ToggleFilter(t core.EventType, enabled bool) Request {
	if enabled {
		c.state.Filters = c.state.Filters.With(t)
	} else {
		c.state.Filters = c.state.Filters.Without(t)
	}
	return c.issue()
}

// Apply feeds a fetch result back. Results for anything but the latest
// request are stale and dropped (false is returned). A failure keeps the
// stored occurrences and switches the display to the error placeholder.
func (c *Controller) Apply(res Result) bool {
	log := c.log.WithFields(logrus.Fields{
		"request_id": res.Request.ID,
		"seq":        res.Request.Seq,
	})
	if res.Request.Seq != c.seq {
		log.WithField("latest_seq", c.seq).Debug("discarding stale events response")
		return false
	}
	c.resolved = res.Request.Seq
	if res.Err != nil {
		c.err = res.Err
		log.WithError(res.Err).Warn("events fetch failed, keeping previous occurrences")
		return true
	}
	c.err = nil
	c.store.SetOccurrences(res.Events)
	log.WithField("count", len(res.Events)).Debug("events applied")
	return true
}

// Err returns the error of the latest applied result, if it failed.
func (c *Controller) Err() error {
	return c.err
}

// Loading reports whether the latest request is still unresolved.
func (c *Controller) Loading() bool {
	return c.seq != c.resolved
}

// Display renders the current state. After a failed fetch the projection is
// replaced by the error placeholder.
func (c *Controller) Display() Display {
	d := Render(c.state, c.store, c.Today())
	d.Loading = c.Loading()
	if c.err != nil {
		d.Err = FetchFailedNotice
		d.Month, d.Week, d.Day, d.Agenda = nil, nil, nil, nil
	}
	return d
}

func (c *Controller) issue() Request {
	c.seq++
	return Request{
		Seq:   c.seq,
		ID:    uuid.NewString(),
		State: c.state,
		Range: ComputeRange(c.state.View, c.state.Anchor),
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
