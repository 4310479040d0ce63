package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/theakshaypant/opscal/internal/core"
)

type stubProvider struct {
	events []core.Event
	err    error
	calls  []core.FetchOptions
}

func (p *stubProvider) ID() string   { return "stub" }
func (p *stubProvider) Name() string { return "Stub" }

func (p *stubProvider) FetchEvents(_ context.Context, opts core.FetchOptions) ([]core.Event, error) {
	p.calls = append(p.calls, opts)
	return p.events, p.err
}

type recordingSurface struct {
	paints []Display
}

func (s *recordingSurface) Paint(d Display) error {
	s.paints = append(s.paints, d)
	return nil
}

func TestNewSessionRequiresCollaborators(t *testing.T) {
	ctrl := NewController(nil)
	p := &stubProvider{}
	s := &recordingSurface{}

	tests := []struct {
		name     string
		ctrl     *Controller
		provider core.Provider
		surface  Surface
	}{
		{"no controller", nil, p, s},
		{"no provider", ctrl, nil, s},
		{"no surface", ctrl, p, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.ctrl, tt.provider, tt.surface, nil)
			if !errors.Is(err, core.ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestSessionRunPaints(t *testing.T) {
	ctrl := NewController(nil, fixedClock(2025, 3, 12), WithFilters(core.TypeRelease))
	p := &stubProvider{events: []core.Event{{Title: "v2.1", Type: core.TypeRelease, Start: at(14, 9)}}}
	surface := &recordingSurface{}
	sess, err := NewSession(ctrl, p, surface, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := sess.Run(context.Background(), ctrl.Start()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(p.calls) != 1 {
		t.Fatalf("provider called %d times", len(p.calls))
	}
	opts := p.calls[0]
	if opts.Start != core.NewDate(2025, 3, 1) || opts.End != core.NewDate(2025, 3, 31) {
		t.Fatalf("fetch window = %s..%s", opts.Start, opts.End)
	}
	if len(opts.Types) != 1 || opts.Types[0] != core.TypeRelease || opts.RequestID == "" {
		t.Fatalf("fetch options = %+v", opts)
	}
	if len(surface.paints) != 1 || len(surface.paints[0].Events()) != 1 {
		t.Fatalf("paints = %+v", surface.paints)
	}
}

func TestSessionRunFailure(t *testing.T) {
	ctrl := NewController(nil, fixedClock(2025, 3, 12))
	p := &stubProvider{err: errors.New("connection refused")}
	surface := &recordingSurface{}
	sess, err := NewSession(ctrl, p, surface, nil)
	if err != nil {
		t.Fatal(err)
	}

	err = sess.Run(context.Background(), ctrl.Start())
	var fe *core.FetchError
	if !errors.As(err, &fe) || fe.Source != "stub" || !errors.Is(err, core.ErrFetchFailed) {
		t.Fatalf("Run error = %v", err)
	}
	if len(surface.paints) != 1 || surface.paints[0].Err != FetchFailedNotice {
		t.Fatalf("error placeholder not painted: %+v", surface.paints)
	}
}

func TestSessionRunStaleSkipsPaint(t *testing.T) {
	ctrl := NewController(nil, fixedClock(2025, 3, 12))
	surface := &recordingSurface{}
	sess, err := NewSession(ctrl, &stubProvider{}, surface, nil)
	if err != nil {
		t.Fatal(err)
	}
	stale := ctrl.Start()
	ctrl.Refresh()

	if err := sess.Run(context.Background(), stale); err != nil {
		t.Fatalf("stale run returned %v", err)
	}
	if len(surface.paints) != 0 {
		t.Fatalf("stale run painted %d times", len(surface.paints))
	}
}
