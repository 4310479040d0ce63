package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/theakshaypant/opscal/internal/core"
)

type memPrefs struct {
	view    core.View
	saved   bool
	saves   []core.View
	loadErr error
	saveErr error
}

func (p *memPrefs) LoadView() (core.View, bool, error) {
	if p.loadErr != nil {
		return 0, false, p.loadErr
	}
	return p.view, p.saved, nil
}

func (p *memPrefs) SaveView(v core.View) error {
	p.saves = append(p.saves, v)
	if p.saveErr != nil {
		return p.saveErr
	}
	p.view, p.saved = v, true
	return nil
}

func fixedClock(y int, m time.Month, d int) Option {
	return WithClock(func() time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) })
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(nil, fixedClock(2025, 3, 12))
	s := c.State()
	if s.View != core.ViewMonth {
		t.Fatalf("default view = %s", s.View)
	}
	if s.Anchor != core.NewDate(2025, 3, 12) {
		t.Fatalf("default anchor = %s", s.Anchor)
	}
	if s.Filters.Len() != len(core.AllEventTypes()) {
		t.Fatalf("default filters = %v", s.Filters.Types())
	}
	if c.Loading() {
		t.Fatalf("controller should not be loading before Start")
	}
}

func TestNewControllerRestoresView(t *testing.T) {
	prefs := &memPrefs{view: core.ViewAgenda, saved: true}
	if v := NewController(prefs).State().View; v != core.ViewAgenda {
		t.Fatalf("restored view = %s", v)
	}
	if v := NewController(prefs, WithView(core.ViewDay)).State().View; v != core.ViewDay {
		t.Fatalf("forced view = %s", v)
	}
	broken := &memPrefs{loadErr: errors.New("disk on fire")}
	if v := NewController(broken).State().View; v != core.ViewMonth {
		t.Fatalf("view after load error = %s", v)
	}
}

func TestSwitchViewPersists(t *testing.T) {
	prefs := &memPrefs{}
	c := NewController(prefs, fixedClock(2025, 3, 12))
	req := c.SwitchView(core.ViewWeek)
	if req.State.View != core.ViewWeek || c.State().View != core.ViewWeek {
		t.Fatalf("view not switched: %+v", req.State)
	}
	if req.Range != ComputeRange(core.ViewWeek, core.NewDate(2025, 3, 12)) {
		t.Fatalf("request range = %s", req.Range)
	}
	if len(prefs.saves) != 1 || prefs.saves[0] != core.ViewWeek {
		t.Fatalf("saves = %v", prefs.saves)
	}

	prefs.saveErr = errors.New("read-only")
	if c.SwitchView(core.ViewDay); c.State().View != core.ViewDay {
		t.Fatalf("failed save must not block the switch")
	}
}

func TestNavigatePeriod(t *testing.T) {
	tests := []struct {
		name   string
		view   core.View
		anchor core.Date
		dir    int
		want   core.Date
	}{
		{"month forward", core.ViewMonth, core.NewDate(2025, 1, 15), 1, core.NewDate(2025, 2, 15)},
		{"month back over year", core.ViewMonth, core.NewDate(2025, 1, 15), -1, core.NewDate(2024, 12, 15)},
		{"month clamps", core.ViewMonth, core.NewDate(2025, 1, 31), 1, core.NewDate(2025, 2, 28)},
		{"agenda by month", core.ViewAgenda, core.NewDate(2025, 3, 10), 1, core.NewDate(2025, 4, 10)},
		{"week", core.ViewWeek, core.NewDate(2025, 3, 12), 1, core.NewDate(2025, 3, 19)},
		{"week back", core.ViewWeek, core.NewDate(2025, 3, 3), -1, core.NewDate(2025, 2, 24)},
		{"day", core.ViewDay, core.NewDate(2025, 2, 28), 1, core.NewDate(2025, 3, 1)},
		{"magnitude ignored", core.ViewDay, core.NewDate(2025, 3, 10), -5, core.NewDate(2025, 3, 9)},
		{"zero stays", core.ViewMonth, core.NewDate(2025, 3, 10), 0, core.NewDate(2025, 3, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(nil, WithView(tt.view), WithAnchor(tt.anchor))
			req := c.NavigatePeriod(tt.dir)
			if got := c.State().Anchor; got != tt.want {
				t.Fatalf("anchor = %s, want %s", got, tt.want)
			}
			if req.Range != ComputeRange(tt.view, tt.want) {
				t.Fatalf("request range = %s", req.Range)
			}
		})
	}
}

func TestJumpToToday(t *testing.T) {
	c := NewController(nil, fixedClock(2025, 3, 12), WithAnchor(core.NewDate(2020, 6, 1)))
	req := c.JumpToToday()
	if req.State.Anchor != core.NewDate(2025, 3, 12) {
		t.Fatalf("anchor after jump = %s", req.State.Anchor)
	}
}

func TestToggleFilterRoundTrip(t *testing.T) {
	c := NewController(nil)
	before := c.State().Filters
	start := c.Start()

	off := c.ToggleFilter(core.TypeSprint, false)
	if off.Seq != start.Seq+1 || c.State().Filters.Has(core.TypeSprint) {
		t.Fatalf("toggle off: seq %d, filters %v", off.Seq, c.State().Filters.Types())
	}
	for _, typ := range off.Options().Types {
		if typ == core.TypeSprint {
			t.Fatalf("request still asks for sprint: %v", off.Options().Types)
		}
	}

	on := c.ToggleFilter(core.TypeSprint, true)
	if on.Seq != off.Seq+1 {
		t.Fatalf("toggle on did not issue a new request")
	}
	if !c.State().Filters.Equal(before) {
		t.Fatalf("filters after round trip = %v, want %v", c.State().Filters.Types(), before.Types())
	}

	again := c.ToggleFilter(core.TypeSprint, true)
	if again.Seq != on.Seq+1 || c.State().Filters.Len() != before.Len() {
		t.Fatalf("no-op toggle should still re-fetch without duplicating the type")
	}
}

func TestApplyDiscardsStaleResults(t *testing.T) {
	c := NewController(nil, fixedClock(2025, 3, 12))
	first := c.Start()
	second := c.NavigatePeriod(1)

	if !c.Loading() {
		t.Fatalf("controller should be loading")
	}
	if c.Apply(Result{Request: first, Events: []core.Event{{Title: "old", Start: at(10, 9)}}}) {
		t.Fatalf("stale result applied")
	}
	if c.Store().Len() != 0 {
		t.Fatalf("stale result reached the store")
	}
	if !c.Apply(Result{Request: second, Events: []core.Event{{Title: "april", Start: at(10, 9)}}}) {
		t.Fatalf("latest result rejected")
	}
	if c.Loading() || c.Store().Len() != 1 {
		t.Fatalf("loading=%v len=%d after latest result", c.Loading(), c.Store().Len())
	}
}

func TestApplyFailureKeepsOccurrences(t *testing.T) {
	c := NewController(nil, fixedClock(2025, 3, 12))
	ok := c.Start()
	c.Apply(Result{Request: ok, Events: []core.Event{{Title: "kept", Start: at(10, 9)}}})

	failed := c.Refresh()
	fetchErr := &core.FetchError{Source: "portal", Status: 502}
	if !c.Apply(Result{Request: failed, Err: fetchErr}) {
		t.Fatalf("failed latest result should still resolve the request")
	}
	if got := titles(c.Store().Occurrences()); !equalStrings(got, []string{"kept"}) {
		t.Fatalf("store after failure = %v", got)
	}
	if !errors.Is(c.Err(), core.ErrFetchFailed) {
		t.Fatalf("Err() = %v", c.Err())
	}
	d := c.Display()
	if d.Err != FetchFailedNotice || d.Month != nil {
		t.Fatalf("display after failure = %+v", d)
	}

	retry := c.Refresh()
	c.Apply(Result{Request: retry, Events: nil})
	if c.Err() != nil || c.Display().Err != "" || c.Display().Month == nil {
		t.Fatalf("successful retry should clear the error")
	}
}

func TestDisplayTracksState(t *testing.T) {
	c := NewController(nil, fixedClock(2025, 3, 12), WithView(core.ViewDay))
	req := c.Start()
	d := c.Display()
	if !d.Loading || d.Day == nil || d.Label != "Wednesday, March 12, 2025" {
		t.Fatalf("display before apply = %+v", d)
	}
	c.Apply(Result{Request: req, Events: []core.Event{{Title: "window", Start: at(12, 22)}}})
	d = c.Display()
	if d.Loading || len(d.Events()) != 1 {
		t.Fatalf("display after apply = %+v", d)
	}
}
