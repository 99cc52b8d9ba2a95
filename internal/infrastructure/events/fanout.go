// Package events delivers match.created events to Redis Streams and NATS.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
)

// Sink is one destination for match events.
type Sink interface {
	Name() string
	PublishMatchCreated(ctx context.Context, event *domain.MatchCreatedEvent) error
}

// Fanout publishes every event to all sinks. A failing sink does not stop
// delivery to the others.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Len() int {
	return len(f.sinks)
}

func (f *Fanout) PublishMatchCreated(ctx context.Context, event *domain.MatchCreatedEvent) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.PublishMatchCreated(ctx, event); err != nil {
			metrics.EventPublishFailures.WithLabelValues(s.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
