package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

// Surface is the presentation mount point a Display is painted onto.
// Every paint fully replaces the previous one.
type Surface interface {
	Paint(d Display) error
}

// Fetch executes req against provider. Errors that are not already a
// FetchError are wrapped in one so callers can rely on core.ErrFetchFailed.
func Fetch(ctx context.Context, provider core.Provider, req Request) Result {
	events, err := provider.FetchEvents(ctx, req.Options())
	if err != nil {
		var fe *core.FetchError
		if !errors.As(err, &fe) {
			err = &core.FetchError{Source: provider.ID(), Err: err}
		}
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Events: events}
}

// Session is the synchronous I/O loop: it runs a controller transition's
// request, feeds the result back, then paints the surface.
type Session struct {
	ctrl     *Controller
	provider core.Provider
	surface  Surface
	log      *logrus.Entry
}

// NewSession wires a controller to its events source and render target.
// A missing collaborator is a configuration error for this session only.
func NewSession(ctrl *Controller, provider core.Provider, surface Surface, log *logrus.Entry) (*Session, error) {
	switch {
	case ctrl == nil:
		return nil, fmt.Errorf("calendar session: no controller: %w", core.ErrInvalidConfiguration)
	case provider == nil:
		return nil, fmt.Errorf("calendar session: no events provider: %w", core.ErrInvalidConfiguration)
	case surface == nil:
		return nil, fmt.Errorf("calendar session: no render surface: %w", core.ErrInvalidConfiguration)
	}
	if log == nil {
		log = ctrl.log
	}
	return &Session{ctrl: ctrl, provider: provider, surface: surface, log: log}, nil
}

// Run executes req, applies the result and paints. The fetch error, if any,
// is returned after the error placeholder has been painted.
func (s *Session) Run(ctx context.Context, req Request) error {
	log := s.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"view":       req.State.View.String(),
		"range":      req.Range.String(),
	})
	log.Debug("fetching events")

	res := Fetch(ctx, s.provider, req)
	if !s.ctrl.Apply(res) {
		return nil
	}
	if err := s.surface.Paint(s.ctrl.Display()); err != nil {
		return fmt.Errorf("paint calendar: %w", err)
	}
	return res.Err
}
