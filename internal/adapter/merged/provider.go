// Package merged combines the portal events API with an optional meeting
// source into one core.Provider.
package merged

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/theakshaypant/opscal/internal/core"
)

type Provider struct {
	primary  core.Provider
	meetings []core.Provider
	log      *logrus.Entry
}

// New merges primary with zero or more meeting sources.
func New(primary core.Provider, log *logrus.Entry, meetings ...core.Provider) *Provider {
	return &Provider{primary: primary, meetings: meetings, log: log}
}

func (p *Provider) ID() string   { return p.primary.ID() }
func (p *Provider) Name() string { return p.primary.Name() }

// FetchEvents asks the primary source first; its failure fails the whole
// fetch. Meeting sources are only asked when the meeting type is requested,
// and a failing one is logged and left out. Primary events keep the order
// the primary sent; meetings are slotted in by start time.
func (p *Provider) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	events, err := p.primary.FetchEvents(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(p.meetings) == 0 || !opts.WantsType(core.TypeMeeting) {
		return events, nil
	}

	var extra []core.Event
	for _, src := range p.meetings {
		got, err := src.FetchEvents(ctx, opts)
		if err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{
				"provider":   src.ID(),
				"request_id": opts.RequestID,
			}).Warn("meeting source failed, showing portal events only")
			continue
		}
		extra = append(extra, got...)
	}
	return interleave(events, extra), nil
}

// interleave inserts meetings before the first primary event that starts
// after them. primary is never reordered.
func interleave(primary, meetings []core.Event) []core.Event {
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Start.Before(meetings[j].Start)
	})
	out := make([]core.Event, 0, len(primary)+len(meetings))
	for _, e := range primary {
		for len(meetings) > 0 && meetings[0].Start.Before(e.Start) {
			out = append(out, meetings[0])
			meetings = meetings[1:]
		}
		out = append(out, e)
	}
	return append(out, meetings...)
}
