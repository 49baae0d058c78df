package metrics

import (
	"context"
	"math"
	"time"

	"github.com/kilianp07/greengrid/core/events"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/infra/logger"
	"github.com/kilianp07/greengrid/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records the incidents
// of run runID on sink. Incident times are offset from start by the event's
// simulated timestamp. It stops when the context is canceled or the bus is
// closed; the returned channel is closed once every buffered event has been
// recorded.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus[events.Event], sink coremetrics.MetricsSink, runID string, start time.Time) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.IncidentRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	log := logger.New("event-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				inc, ok := incidentFor(ev)
				if !ok {
					continue
				}
				inc.RunID = runID
				inc.Time = start.Add(time.Duration(math.Round(inc.TimestampHours * float64(time.Hour))))
				if err := rec.RecordIncident(inc); err != nil {
					log.Errorf("record incident %s: %v", inc.Kind, err)
				}
			}
		}
	}()
	return done
}

func incidentFor(ev events.Event) (coremetrics.IncidentEvent, bool) {
	inc := coremetrics.IncidentEvent{Kind: ev.Kind()}
	switch e := ev.(type) {
	case events.InverterFailedEvent:
		inc.TimestampHours = e.TimestampHours
		inc.DurationHours = float64(e.DowntimeHours)
	case events.InverterRecoveredEvent:
		inc.TimestampHours = e.TimestampHours
	case events.UnmetLoadEvent:
		inc.TimestampHours = e.TimestampHours
		inc.KWh = e.KWh
	case events.CurtailmentEvent:
		inc.TimestampHours = e.TimestampHours
		inc.KWh = e.KWh
	default:
		return inc, false
	}
	return inc, true
}
