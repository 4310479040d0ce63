package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theakshaypant/opscal/internal/calendar"
	"github.com/theakshaypant/opscal/internal/core"
)

type memPrefs struct {
	saves []core.View
}

func (p *memPrefs) LoadView() (core.View, bool, error) { return 0, false, nil }

func (p *memPrefs) SaveView(v core.View) error {
	p.saves = append(p.saves, v)
	return nil
}

type nopProvider struct{}

func (nopProvider) ID() string   { return "nop" }
func (nopProvider) Name() string { return "Nop" }
func (nopProvider) FetchEvents(context.Context, core.FetchOptions) ([]core.Event, error) {
	return nil, nil
}

func newTestModel(t *testing.T, prefs core.Preferences) (Model, *calendar.Controller) {
	t.Helper()
	ctrl := calendar.NewController(prefs, calendar.WithClock(func() time.Time {
		return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	}))
	m, err := NewModel(ctrl, nopProvider{}, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func meeting(title string, day, hour int) core.Event {
	return core.Event{
		ID:    title,
		Type:  core.TypeMeeting,
		Title: title,
		Start: time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, day, hour+1, 0, 0, 0, time.UTC),
	}
}

func TestNewModelRequiresControllerAndProvider(t *testing.T) {
	ctrl := calendar.NewController(nil)
	if _, err := NewModel(nil, nopProvider{}, nil); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Errorf("nil controller: err = %v", err)
	}
	if _, err := NewModel(ctrl, nil, nil); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Errorf("nil provider: err = %v", err)
	}
}

func TestSwitchViewKey(t *testing.T) {
	prefs := &memPrefs{}
	m, ctrl := newTestModel(t, prefs)

	next, cmd := m.Update(runes("w"))
	if cmd == nil {
		t.Fatalf("switching view should return a fetch command")
	}
	if ctrl.State().View != core.ViewWeek {
		t.Fatalf("view = %s, want week", ctrl.State().View)
	}
	if len(prefs.saves) != 1 || prefs.saves[0] != core.ViewWeek {
		t.Fatalf("saved views = %v", prefs.saves)
	}
	m = next.(Model)
	if got := m.display; !got.Loading || got.Month == nil || got.Week != nil {
		t.Fatalf("previous month should stay up while the week loads, got %+v", got)
	}

	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.display.Week != nil {
		t.Fatalf("tick repainted the new view before its events arrived")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if got := m.display; got.Loading || got.Week == nil {
		t.Fatalf("display should be the week table once loaded, got %+v", got)
	}
}

func TestFilterKeyTogglesCategory(t *testing.T) {
	m, ctrl := newTestModel(t, nil)

	_, cmd := m.Update(runes("2"))
	if cmd == nil {
		t.Fatalf("toggling a filter should return a fetch command")
	}
	if ctrl.State().Filters.Has(core.TypeRelease) {
		t.Fatalf("release should be disabled after pressing 2")
	}

	m.Update(runes("2"))
	if !ctrl.State().Filters.Has(core.TypeRelease) {
		t.Fatalf("release should be enabled after pressing 2 again")
	}
}

func TestFetchDoneAppliesLatestOnly(t *testing.T) {
	m, ctrl := newTestModel(t, nil)

	first := ctrl.Refresh()
	latest := ctrl.Refresh()

	next, _ := m.Update(fetchDoneMsg{res: calendar.Result{Request: first, Events: []core.Event{meeting("Old", 10, 9)}}})
	m = next.(Model)
	if len(m.events) != 0 {
		t.Fatalf("stale result painted %d events", len(m.events))
	}

	next, _ = m.Update(fetchDoneMsg{res: calendar.Result{Request: latest, Events: []core.Event{meeting("Standup", 10, 9)}}})
	m = next.(Model)
	if len(m.events) != 1 || m.events[0].Title != "Standup" {
		t.Fatalf("events after latest result = %+v", m.events)
	}
	if m.display.Loading {
		t.Fatalf("display still loading after latest result")
	}
}

func TestSelectionMovesWithinEvents(t *testing.T) {
	m, ctrl := newTestModel(t, nil)
	req := ctrl.Start()
	next, _ := m.Update(fetchDoneMsg{res: calendar.Result{Request: req, Events: []core.Event{
		meeting("Standup", 10, 9),
		meeting("Review", 11, 14),
	}}})
	m = next.(Model)

	for _, k := range []string{"j", "j", "j"} {
		next, _ = m.Update(runes(k))
		m = next.(Model)
	}
	if m.selectedIdx != 1 {
		t.Fatalf("selectedIdx = %d, want 1 (clamped)", m.selectedIdx)
	}
	if e, ok := m.selected(); !ok || e.Title != "Review" {
		t.Fatalf("selected = %+v, %v", e, ok)
	}
}

func TestRenderDisplaySelectedLine(t *testing.T) {
	store := calendar.NewStore()
	store.SetOccurrences([]core.Event{
		meeting("Standup", 10, 9),
		meeting("Review", 10, 11),
	})
	state := calendar.State{
		View:    core.ViewWeek,
		Anchor:  core.NewDate(2025, 3, 12),
		Filters: calendar.NewFilterSet(core.AllEventTypes()...),
	}
	d := calendar.Render(state, store, core.NewDate(2025, 3, 12))

	out, line := renderDisplay(d, 1, 60)
	lines := strings.Split(out, "\n")
	if line >= len(lines) {
		t.Fatalf("selected line %d out of %d lines", line, len(lines))
	}
	if !strings.Contains(lines[line], "Review") {
		t.Fatalf("selected line %q does not hold the selected event", lines[line])
	}
}

func TestRenderDisplayError(t *testing.T) {
	out, _ := renderDisplay(calendar.Display{Err: calendar.FetchFailedNotice}, 0, 60)
	if !strings.Contains(out, calendar.FetchFailedNotice) {
		t.Fatalf("error display = %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Minute, "45m"},
		{2 * time.Hour, "2h"},
		{90 * time.Minute, "1h 30m"},
		{48 * time.Hour, "2d"},
		{26 * time.Hour, "1d 2h"},
		{-30 * time.Minute, "30m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatEventTime(t *testing.T) {
	old := time.Local
	time.Local = time.FixedZone("EDT", -4*60*60)
	t.Cleanup(func() { time.Local = old })

	allDay := core.Event{
		Start:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC),
		AllDay: true,
	}
	if got, want := formatEventTime(allDay), "Fri, Mar 14 (all day)"; got != want {
		t.Errorf("all-day = %q, want %q", got, want)
	}
	if got, want := formatEventTime(meeting("x", 10, 9)), "Mon, Mar 10, 5:00 AM – 6:00 AM"; got != want {
		t.Errorf("timed = %q, want %q", got, want)
	}
}
