package simulation

import (
	"github.com/kilianp07/greengrid/core/events"
	"github.com/kilianp07/greengrid/core/logger"
	"github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/random"
	"github.com/kilianp07/greengrid/core/steplog"
	"github.com/kilianp07/greengrid/internal/eventbus"
)

// Option customises a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSink records every step to sink.
func WithSink(sink metrics.MetricsSink) Option {
	return func(s *Simulation) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithBus publishes incidents on bus.
func WithBus(bus eventbus.EventBus[events.Event]) Option {
	return func(s *Simulation) { s.bus = bus }
}

// WithStepLog appends every step to store.
func WithStepLog(store steplog.LogStore) Option {
	return func(s *Simulation) { s.store = store }
}

// WithRandom replaces the seeded source, typically with a scripted one in
// tests.
func WithRandom(src random.Source) Option {
	return func(s *Simulation) { s.rng = src }
}

// WithRunID sets the identifier attached to metrics and logs. A random UUID
// is used otherwise.
func WithRunID(id string) Option {
	return func(s *Simulation) {
		if id != "" {
			s.runID = id
		}
	}
}
